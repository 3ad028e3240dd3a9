package repository

import (
	"errors"

	"posting-engine/internal/apperr"
	"posting-engine/internal/model"

	"gorm.io/gorm"
)

type FlowStatusRepository interface {
	BatchStatus(employeeIDs []uint, postingType model.PostingType) (map[uint]model.FlowStage, error)
	MarkEntered(employeeIDs []uint, postingType model.PostingType) error
	MarkAdvanced(employeeIDs []uint, postingType model.PostingType) error
	MarkCleared(employeeIDs []uint, postingType model.PostingType) error
}

type flowStatusRepository struct {
	db *gorm.DB
}

// NewFlowStatusRepository works over any *gorm.DB handle; pass the tx inside
// db.Transaction to make the registry calls part of the caller's transaction.
func NewFlowStatusRepository(db *gorm.DB) FlowStatusRepository {
	return &flowStatusRepository{db}
}

func (r *flowStatusRepository) BatchStatus(employeeIDs []uint, postingType model.PostingType) (map[uint]model.FlowStage, error) {
	var entries []model.FlowStatusEntry
	err := r.db.Where("employee_id IN ? AND posting_type = ?", employeeIDs, postingType).Find(&entries).Error
	if err != nil {
		return nil, err
	}

	stages := make(map[uint]model.FlowStage, len(employeeIDs))
	for _, id := range employeeIDs {
		stages[id] = model.StageNone
	}
	for _, e := range entries {
		stages[e.EmployeeID] = e.Stage
	}
	return stages, nil
}

// MarkEntered is the admission gate. It reports the full offending subset as a
// precondition error so the caller can tell the user exactly who is already in
// process. A race that slips past the read is caught by the unique index and
// comes back as a retryable conflict.
func (r *flowStatusRepository) MarkEntered(employeeIDs []uint, postingType model.PostingType) error {
	var existing []model.FlowStatusEntry
	err := r.db.Where("employee_id IN ? AND posting_type = ?", employeeIDs, postingType).Find(&existing).Error
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		ids := make([]uint, len(existing))
		for i, e := range existing {
			ids[i] = e.EmployeeID
		}
		return apperr.New(apperr.Precondition, "employees already in an open %s flow", postingType).WithIDs(ids)
	}

	entries := make([]model.FlowStatusEntry, len(employeeIDs))
	for i, id := range employeeIDs {
		entries[i] = model.FlowStatusEntry{
			EmployeeID:  id,
			PostingType: postingType,
			Stage:       model.StageDraftListed,
		}
	}
	if err := r.db.Create(&entries).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.New(apperr.Conflict, "another draft list admitted an overlapping selection, retry")
		}
		return err
	}
	return nil
}

// MarkAdvanced moves DRAFT_LISTED entries to NOTE_SHEET_OPEN. Entries already
// open are left alone, so a retried conversion is a no-op.
func (r *flowStatusRepository) MarkAdvanced(employeeIDs []uint, postingType model.PostingType) error {
	return r.db.Model(&model.FlowStatusEntry{}).
		Where("employee_id IN ? AND posting_type = ? AND stage = ?", employeeIDs, postingType, model.StageDraftListed).
		Update("stage", model.StageNoteSheetOpen).Error
}

func (r *flowStatusRepository) MarkCleared(employeeIDs []uint, postingType model.PostingType) error {
	return r.db.Where("employee_id IN ? AND posting_type = ?", employeeIDs, postingType).
		Delete(&model.FlowStatusEntry{}).Error
}
