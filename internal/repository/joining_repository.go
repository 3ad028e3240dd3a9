package repository

import (
	"errors"

	"posting-engine/internal/apperr"
	"posting-engine/internal/model"

	"gorm.io/gorm"
)

type JoiningRepository interface {
	CreateMany(items []model.PendingJoiningItem) error
	GetBySheetID(sheetID uint) ([]model.PendingJoiningItem, error)
	GetByID(id uint) (*model.PendingJoiningItem, error)
	GetPending(postingType model.PostingType) ([]model.PendingJoiningItem, error)
	GetJoined(postingType model.PostingType) ([]model.PendingJoiningItem, error)
	RecordJoin(id uint, joiningDate, referenceNo, recordedBy string) error
}

type joiningRepository struct {
	db *gorm.DB
}

func NewJoiningRepository(db *gorm.DB) JoiningRepository {
	return &joiningRepository{db}
}

func (r *joiningRepository) CreateMany(items []model.PendingJoiningItem) error {
	return r.db.Create(&items).Error
}

func (r *joiningRepository) GetBySheetID(sheetID uint) ([]model.PendingJoiningItem, error) {
	var items []model.PendingJoiningItem
	err := r.db.Where("source_note_sheet_id = ?", sheetID).Order("id asc").Find(&items).Error
	return items, err
}

func (r *joiningRepository) GetByID(id uint) (*model.PendingJoiningItem, error) {
	var item model.PendingJoiningItem
	err := r.db.First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "joining item %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *joiningRepository) GetPending(postingType model.PostingType) ([]model.PendingJoiningItem, error) {
	var items []model.PendingJoiningItem
	err := r.db.Where("posting_type = ? AND joining_date IS NULL", postingType).
		Order("order_number desc, id asc").
		Find(&items).Error
	return items, err
}

func (r *joiningRepository) GetJoined(postingType model.PostingType) ([]model.PendingJoiningItem, error) {
	var items []model.PendingJoiningItem
	err := r.db.Where("posting_type = ? AND joining_date IS NOT NULL", postingType).
		Order("joining_date desc, id asc").
		Find(&items).Error
	return items, err
}

// RecordJoin is a conditional write keyed on "not yet joined". Two concurrent
// submissions of the same join form therefore end as one success and one
// already-recorded rejection, never two recorded joins.
func (r *joiningRepository) RecordJoin(id uint, joiningDate, referenceNo, recordedBy string) error {
	res := r.db.Model(&model.PendingJoiningItem{}).
		Where("id = ? AND joining_date IS NULL", id).
		Updates(map[string]any{
			"joining_date":      joiningDate,
			"join_reference_no": referenceNo,
			"recorded_by":       recordedBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	// Distinguish "already recorded" from "no such item".
	var item model.PendingJoiningItem
	err := r.db.First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(apperr.NotFound, "joining item %d not found", id)
	}
	if err != nil {
		return err
	}
	return apperr.New(apperr.Precondition, "joining already recorded for item %d", id).WithIDs([]uint{id})
}
