package repository

import (
	"errors"

	"posting-engine/internal/apperr"
	"posting-engine/internal/model"

	"gorm.io/gorm"
)

type NoteSheetRepository interface {
	Create(sheet *model.PostingNoteSheet) error
	GetByID(id uint) (*model.PostingNoteSheet, error)
	GetByTypeAndStatus(postingType model.PostingType, status model.SheetStatus) ([]model.PostingNoteSheet, error)
	SaveMetadata(sheet *model.PostingNoteSheet) error
	TransitionStatus(id uint, from, to model.SheetStatus, extra map[string]any) error
	ReplaceRecommenders(sheetID uint, recommenders []model.NoteSheetRecommender) error
	ReplaceAttachments(sheetID uint, attachments []model.NoteSheetAttachment) error
	SaveMembers(members []model.NoteSheetMember) error
}

type noteSheetRepository struct {
	db *gorm.DB
}

func NewNoteSheetRepository(db *gorm.DB) NoteSheetRepository {
	return &noteSheetRepository{db}
}

func (r *noteSheetRepository) Create(sheet *model.PostingNoteSheet) error {
	return r.db.Create(sheet).Error
}

func (r *noteSheetRepository) GetByID(id uint) (*model.PostingNoteSheet, error) {
	var sheet model.PostingNoteSheet
	err := r.db.
		Preload("Members").
		Preload("Recommenders", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Preload("Attachments").
		First(&sheet, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "note sheet %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &sheet, nil
}

func (r *noteSheetRepository) GetByTypeAndStatus(postingType model.PostingType, status model.SheetStatus) ([]model.PostingNoteSheet, error) {
	var sheets []model.PostingNoteSheet
	err := r.db.Preload("Members").
		Where("posting_type = ? AND status = ?", postingType, status).
		Order("note_sheet_number desc").
		Find(&sheets).Error
	return sheets, err
}

// SaveMetadata persists paperwork edits, guarded the same way TransitionStatus
// is: the write only lands while the sheet is still editable. If a concurrent
// caller routed the sheet for approval after our read, zero rows match and the
// edit is rejected instead of landing on paperwork already on someone's desk.
func (r *noteSheetRepository) SaveMetadata(sheet *model.PostingNoteSheet) error {
	res := r.db.Model(&model.PostingNoteSheet{}).
		Where("id = ? AND status IN ?", sheet.ID, []model.SheetStatus{model.SheetDraft, model.SheetPendingFinalized}).
		Updates(map[string]any{
			"note_sheet_date":   sheet.NoteSheetDate,
			"reference_number":  sheet.ReferenceNumber,
			"subject":           sheet.Subject,
			"body_text":         sheet.BodyText,
			"body_language":     sheet.BodyLanguage,
			"prepared_by":       sheet.PreparedBy,
			"initiator_id":      sheet.InitiatorID,
			"final_approver_id": sheet.FinalApproverID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.Conflict, "note sheet %d moved past editing concurrently, retry", sheet.ID)
	}
	return nil
}

// TransitionStatus is the single place a sheet's status changes. The guard on
// the expected current status makes every transition a compare-and-set: if a
// concurrent caller moved the sheet first, zero rows match and the caller gets
// a retryable conflict instead of a silent double transition.
func (r *noteSheetRepository) TransitionStatus(id uint, from, to model.SheetStatus, extra map[string]any) error {
	updates := map[string]any{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	res := r.db.Model(&model.PostingNoteSheet{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.Conflict, "note sheet %d changed status concurrently, retry", id)
	}
	return nil
}

func (r *noteSheetRepository) ReplaceRecommenders(sheetID uint, recommenders []model.NoteSheetRecommender) error {
	if err := r.db.Unscoped().Where("note_sheet_id = ?", sheetID).Delete(&model.NoteSheetRecommender{}).Error; err != nil {
		return err
	}
	if len(recommenders) == 0 {
		return nil
	}
	return r.db.Create(&recommenders).Error
}

func (r *noteSheetRepository) ReplaceAttachments(sheetID uint, attachments []model.NoteSheetAttachment) error {
	if err := r.db.Unscoped().Where("note_sheet_id = ?", sheetID).Delete(&model.NoteSheetAttachment{}).Error; err != nil {
		return err
	}
	if len(attachments) == 0 {
		return nil
	}
	return r.db.Create(&attachments).Error
}

func (r *noteSheetRepository) SaveMembers(members []model.NoteSheetMember) error {
	for i := range members {
		if err := r.db.Save(&members[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
