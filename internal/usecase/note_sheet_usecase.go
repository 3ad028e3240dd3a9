package usecase

import (
	"time"

	"posting-engine/internal/apperr"
	"posting-engine/internal/model"
	"posting-engine/internal/notify"
	"posting-engine/internal/repository"

	"gorm.io/gorm"
)

// NoteSheetUsecase owns the whole note-sheet lifecycle. Status only ever moves
// forward (DRAFT -> PENDING_FINALIZED -> PENDING_APPROVAL -> APPROVED or
// DECLINED); every transition is a guarded compare-and-set in the repository.
type NoteSheetUsecase struct {
	db       *gorm.DB
	joining  *JoiningUsecase
	notifier notify.Notifier
}

func NewNoteSheetUsecase(db *gorm.DB, joining *JoiningUsecase, notifier notify.Notifier) *NoteSheetUsecase {
	return &NoteSheetUsecase{db: db, joining: joining, notifier: notifier}
}

// CreateFromDraftList consumes a draft list into a fresh sheet. One
// transaction: either the list is gone and the sheet exists, or neither.
func (u *NoteSheetUsecase) CreateFromDraftList(draftListID uint, postingType model.PostingType, createdBy string) (*model.PostingNoteSheet, error) {
	if !postingType.Valid() {
		return nil, apperr.New(apperr.Validation, "unknown posting type %q", postingType)
	}

	var sheet *model.PostingNoteSheet
	err := u.db.Transaction(func(tx *gorm.DB) error {
		listRepo := repository.NewDraftListRepository(tx)
		list, err := listRepo.GetByID(draftListID)
		if err != nil {
			return err
		}
		if list.PostingType != postingType {
			return apperr.New(apperr.Validation, "draft list %d is a %s list", draftListID, list.PostingType)
		}

		number, err := repository.NewSequenceRepository(tx).Next(postingType, model.SequenceSheet)
		if err != nil {
			return err
		}

		members := make([]model.NoteSheetMember, len(list.Members))
		employeeIDs := make([]uint, len(list.Members))
		for i, m := range list.Members {
			members[i] = model.NoteSheetMember{EmployeeID: m.EmployeeID, MemberSnapshot: m.MemberSnapshot}
			employeeIDs[i] = m.EmployeeID
		}

		sourceID := list.ID
		sheet = &model.PostingNoteSheet{
			PostingType:       postingType,
			SourceDraftListID: &sourceID,
			NoteSheetNumber:   number,
			NoteSheetDate:     time.Now().Format("2006-01-02"),
			Status:            model.SheetDraft,
			CreatedBy:         createdBy,
			Members:           members,
		}
		if err := repository.NewNoteSheetRepository(tx).Create(sheet); err != nil {
			return err
		}

		if err := listRepo.Delete(list.ID); err != nil {
			return err
		}

		return repository.NewFlowStatusRepository(tx).MarkAdvanced(employeeIDs, postingType)
	})
	if err != nil {
		return nil, err
	}
	return sheet, nil
}

// MetadataPatch carries the editable paperwork fields. Nil pointers leave the
// current value alone; non-nil slices replace wholesale.
type MetadataPatch struct {
	NoteSheetDate   *string `json:"note_sheet_date"`
	ReferenceNumber *string `json:"reference_number"`
	Subject         *string `json:"subject"`
	BodyText        *string `json:"body_text"`
	BodyLanguage    *string `json:"body_language"`
	PreparedBy      *string `json:"prepared_by"`
	InitiatorID     *uint   `json:"initiator_id"`
	FinalApproverID *uint   `json:"final_approver_id"`
	RecommenderIDs  []uint  `json:"recommender_ids"`
	Attachments     []struct {
		FileID   string `json:"file_id"`
		FileName string `json:"file_name"`
	} `json:"attachments"`
}

// UpdateMetadata is free-form while the sheet is still being drafted or
// awaiting finalization. Editing after the sheet is routed for approval would
// invalidate paperwork already on someone's desk, so it is rejected.
func (u *NoteSheetUsecase) UpdateMetadata(sheetID uint, patch MetadataPatch) (*model.PostingNoteSheet, error) {
	err := u.db.Transaction(func(tx *gorm.DB) error {
		repo := repository.NewNoteSheetRepository(tx)
		sheet, err := repo.GetByID(sheetID)
		if err != nil {
			return err
		}
		if sheet.Status != model.SheetDraft && sheet.Status != model.SheetPendingFinalized {
			return apperr.New(apperr.Precondition, "note sheet %d is %s and can no longer be edited", sheetID, sheet.Status)
		}

		if patch.NoteSheetDate != nil {
			sheet.NoteSheetDate = *patch.NoteSheetDate
		}
		if patch.ReferenceNumber != nil {
			sheet.ReferenceNumber = *patch.ReferenceNumber
		}
		if patch.Subject != nil {
			sheet.Subject = *patch.Subject
		}
		if patch.BodyText != nil {
			sheet.BodyText = *patch.BodyText
		}
		if patch.BodyLanguage != nil {
			sheet.BodyLanguage = *patch.BodyLanguage
		}
		if patch.PreparedBy != nil {
			sheet.PreparedBy = *patch.PreparedBy
		}
		if patch.InitiatorID != nil {
			sheet.InitiatorID = *patch.InitiatorID
		}
		if patch.FinalApproverID != nil {
			sheet.FinalApproverID = *patch.FinalApproverID
		}
		if err := repo.SaveMetadata(sheet); err != nil {
			return err
		}

		if patch.RecommenderIDs != nil {
			recommenders := make([]model.NoteSheetRecommender, len(patch.RecommenderIDs))
			for i, id := range patch.RecommenderIDs {
				recommenders[i] = model.NoteSheetRecommender{NoteSheetID: sheetID, RecommenderID: id, Position: i + 1}
			}
			if err := repo.ReplaceRecommenders(sheetID, recommenders); err != nil {
				return err
			}
		}
		if patch.Attachments != nil {
			attachments := make([]model.NoteSheetAttachment, len(patch.Attachments))
			for i, a := range patch.Attachments {
				attachments[i] = model.NoteSheetAttachment{NoteSheetID: sheetID, FileID: a.FileID, FileName: a.FileName}
			}
			if err := repo.ReplaceAttachments(sheetID, attachments); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return repository.NewNoteSheetRepository(u.db).GetByID(sheetID)
}

func (u *NoteSheetUsecase) SubmitForFinalized(sheetID uint) (*model.PostingNoteSheet, error) {
	err := u.db.Transaction(func(tx *gorm.DB) error {
		repo := repository.NewNoteSheetRepository(tx)
		sheet, err := repo.GetByID(sheetID)
		if err != nil {
			return err
		}
		if sheet.Status != model.SheetDraft {
			return apperr.New(apperr.Precondition, "note sheet %d is %s, expected %s", sheetID, sheet.Status, model.SheetDraft)
		}
		return repo.TransitionStatus(sheetID, model.SheetDraft, model.SheetPendingFinalized, nil)
	})
	if err != nil {
		return nil, err
	}
	return repository.NewNoteSheetRepository(u.db).GetByID(sheetID)
}

type UnitAssignment struct {
	UnitID   uint   `json:"unit_id"`
	UnitName string `json:"unit_name"`
}

// FinalizeAndSubmitForApproval writes every member's destination unit and
// routes the sheet for approval in one step, mirroring the fused user action.
// An assignment map that misses any member rejects with the missing ids and
// leaves nothing written.
func (u *NoteSheetUsecase) FinalizeAndSubmitForApproval(sheetID uint, assignments map[uint]UnitAssignment) (*model.PostingNoteSheet, error) {
	err := u.db.Transaction(func(tx *gorm.DB) error {
		repo := repository.NewNoteSheetRepository(tx)
		sheet, err := repo.GetByID(sheetID)
		if err != nil {
			return err
		}
		if sheet.Status != model.SheetPendingFinalized {
			return apperr.New(apperr.Precondition, "note sheet %d is %s, expected %s", sheetID, sheet.Status, model.SheetPendingFinalized)
		}

		var missing []uint
		for _, m := range sheet.Members {
			if a, ok := assignments[m.EmployeeID]; !ok || a.UnitID == 0 {
				missing = append(missing, m.EmployeeID)
			}
		}
		if len(missing) > 0 {
			return apperr.New(apperr.Validation, "unit assignment missing for employees").WithIDs(missing)
		}

		for i := range sheet.Members {
			a := assignments[sheet.Members[i].EmployeeID]
			unitID := a.UnitID
			sheet.Members[i].AssignedUnitID = &unitID
			sheet.Members[i].AssignedUnitName = a.UnitName
		}
		if err := repo.SaveMembers(sheet.Members); err != nil {
			return err
		}

		return repo.TransitionStatus(sheetID, model.SheetPendingFinalized, model.SheetPendingApproval, nil)
	})
	if err != nil {
		return nil, err
	}

	sheet, err := repository.NewNoteSheetRepository(u.db).GetByID(sheetID)
	if err != nil {
		return nil, err
	}
	go u.notifyApprover(sheet)
	return sheet, nil
}

// Approve is terminal: the sheet gets its shared order number, every member
// explodes into a pending joining item, and the flow registry releases them.
// All inside one transaction so a crash cannot leave an approved sheet without
// its joining items.
func (u *NoteSheetUsecase) Approve(sheetID uint, approvedBy string) (*model.PostingNoteSheet, error) {
	err := u.db.Transaction(func(tx *gorm.DB) error {
		repo := repository.NewNoteSheetRepository(tx)
		sheet, err := repo.GetByID(sheetID)
		if err != nil {
			return err
		}
		if sheet.Status != model.SheetPendingApproval {
			return apperr.New(apperr.Precondition, "note sheet %d is %s, expected %s", sheetID, sheet.Status, model.SheetPendingApproval)
		}

		orderNumber, err := repository.NewSequenceRepository(tx).Next(sheet.PostingType, model.SequenceOrder)
		if err != nil {
			return err
		}

		err = repo.TransitionStatus(sheetID, model.SheetPendingApproval, model.SheetApproved, map[string]any{
			"order_number":  orderNumber,
			"approved_by":   approvedBy,
			"approved_date": time.Now().Format("2006-01-02"),
		})
		if err != nil {
			return err
		}

		if _, err := u.joining.ExplodeFromSheet(tx, sheet, orderNumber); err != nil {
			return err
		}

		employeeIDs := make([]uint, len(sheet.Members))
		for i, m := range sheet.Members {
			employeeIDs[i] = m.EmployeeID
		}
		return repository.NewFlowStatusRepository(tx).MarkCleared(employeeIDs, sheet.PostingType)
	})
	if err != nil {
		return nil, err
	}

	sheet, err := repository.NewNoteSheetRepository(u.db).GetByID(sheetID)
	if err != nil {
		return nil, err
	}
	go u.notifyPreparer(sheet, true)
	return sheet, nil
}

// Decline is the other terminal state. Members go back to the pool and become
// eligible for a new draft list; no joining items are created. Decline is only
// reachable from PENDING_APPROVAL.
func (u *NoteSheetUsecase) Decline(sheetID uint, reason, declinedBy string) (*model.PostingNoteSheet, error) {
	if reason == "" {
		return nil, apperr.New(apperr.Validation, "decline reason is required")
	}

	err := u.db.Transaction(func(tx *gorm.DB) error {
		repo := repository.NewNoteSheetRepository(tx)
		sheet, err := repo.GetByID(sheetID)
		if err != nil {
			return err
		}
		if sheet.Status != model.SheetPendingApproval {
			return apperr.New(apperr.Precondition, "note sheet %d is %s, expected %s", sheetID, sheet.Status, model.SheetPendingApproval)
		}

		err = repo.TransitionStatus(sheetID, model.SheetPendingApproval, model.SheetDeclined, map[string]any{
			"decline_reason": reason,
			"declined_by":    declinedBy,
			"declined_date":  time.Now().Format("2006-01-02"),
		})
		if err != nil {
			return err
		}

		employeeIDs := make([]uint, len(sheet.Members))
		for i, m := range sheet.Members {
			employeeIDs[i] = m.EmployeeID
		}
		return repository.NewFlowStatusRepository(tx).MarkCleared(employeeIDs, sheet.PostingType)
	})
	if err != nil {
		return nil, err
	}

	sheet, err := repository.NewNoteSheetRepository(u.db).GetByID(sheetID)
	if err != nil {
		return nil, err
	}
	go u.notifyPreparer(sheet, false)
	return sheet, nil
}

func (u *NoteSheetUsecase) ListByStatus(postingType model.PostingType, status model.SheetStatus) ([]model.PostingNoteSheet, error) {
	if !postingType.Valid() {
		return nil, apperr.New(apperr.Validation, "unknown posting type %q", postingType)
	}
	switch status {
	case model.SheetDraft, model.SheetPendingFinalized, model.SheetPendingApproval, model.SheetApproved, model.SheetDeclined:
	default:
		return nil, apperr.New(apperr.Validation, "unknown sheet status %q", status)
	}
	return repository.NewNoteSheetRepository(u.db).GetByTypeAndStatus(postingType, status)
}

func (u *NoteSheetUsecase) GetByID(sheetID uint) (*model.PostingNoteSheet, error) {
	return repository.NewNoteSheetRepository(u.db).GetByID(sheetID)
}

func (u *NoteSheetUsecase) notifyApprover(sheet *model.PostingNoteSheet) {
	if sheet.FinalApproverID == 0 {
		return
	}
	worker, err := repository.NewCaseworkerRepository(u.db).GetByID(sheet.FinalApproverID)
	if err != nil {
		return
	}
	u.notifier.SheetSubmitted(worker.Email, sheet.Subject, sheet.NoteSheetNumber)
}

func (u *NoteSheetUsecase) notifyPreparer(sheet *model.PostingNoteSheet, approved bool) {
	worker, err := repository.NewCaseworkerRepository(u.db).GetByServiceID(sheet.CreatedBy)
	if err != nil {
		return
	}
	u.notifier.SheetDecided(worker.Email, sheet.Subject, sheet.NoteSheetNumber, approved)
}
