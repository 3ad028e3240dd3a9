package usecase

import (
	"errors"
	"time"

	"posting-engine/internal/apperr"
	"posting-engine/internal/model"
	"posting-engine/internal/repository"

	"gorm.io/gorm"
)

type JoiningUsecase struct {
	db *gorm.DB
}

func NewJoiningUsecase(db *gorm.DB) *JoiningUsecase {
	return &JoiningUsecase{db: db}
}

// ExplodeFromSheet materializes one pending joining item per sheet member. It
// runs on the approve transaction's handle and is idempotent on the sheet id:
// a retry finds the existing items and returns them instead of inserting
// again, and the unique index on note_sheet_member_id backstops any race.
func (u *JoiningUsecase) ExplodeFromSheet(tx *gorm.DB, sheet *model.PostingNoteSheet, orderNumber int) ([]model.PendingJoiningItem, error) {
	repo := repository.NewJoiningRepository(tx)

	existing, err := repo.GetBySheetID(sheet.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	items := make([]model.PendingJoiningItem, len(sheet.Members))
	for i, m := range sheet.Members {
		var destID uint
		if m.AssignedUnitID != nil {
			destID = *m.AssignedUnitID
		}
		items[i] = model.PendingJoiningItem{
			PostingType:       sheet.PostingType,
			SourceNoteSheetID: sheet.ID,
			NoteSheetMemberID: m.ID,
			OrderNumber:       orderNumber,
			EmployeeID:        m.EmployeeID,
			SourceUnit:        m.HomeUnit,
			DestinationUnitID: destID,
			DestinationUnit:   m.AssignedUnitName,
			MemberSnapshot:    m.MemberSnapshot,
		}
	}
	if err := repo.CreateMany(items); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repo.GetBySheetID(sheet.ID)
		}
		return nil, err
	}
	return items, nil
}

func (u *JoiningUsecase) ListPending(postingType model.PostingType) ([]model.PendingJoiningItem, error) {
	if !postingType.Valid() {
		return nil, apperr.New(apperr.Validation, "unknown posting type %q", postingType)
	}
	return repository.NewJoiningRepository(u.db).GetPending(postingType)
}

func (u *JoiningUsecase) ListJoined(postingType model.PostingType) ([]model.PendingJoiningItem, error) {
	if !postingType.Valid() {
		return nil, apperr.New(apperr.Validation, "unknown posting type %q", postingType)
	}
	return repository.NewJoiningRepository(u.db).GetJoined(postingType)
}

// RecordJoin fulfils one item exactly once; the storage layer enforces the
// null-to-set transition, so a concurrent duplicate submission is rejected
// there rather than check-then-written here.
func (u *JoiningUsecase) RecordJoin(itemID uint, joiningDate, referenceNo, recordedBy string) (*model.PendingJoiningItem, error) {
	if joiningDate == "" {
		return nil, apperr.New(apperr.Validation, "joining date is required")
	}
	if _, err := time.Parse("2006-01-02", joiningDate); err != nil {
		return nil, apperr.New(apperr.Validation, "joining date must be YYYY-MM-DD")
	}

	repo := repository.NewJoiningRepository(u.db)
	if err := repo.RecordJoin(itemID, joiningDate, referenceNo, recordedBy); err != nil {
		return nil, err
	}
	return repo.GetByID(itemID)
}
