package model

import "time"

// FlowStatusEntry exists only while an employee is inside an open flow; stage
// NONE is the absence of a row. The unique index doubles as the admission
// gate: two concurrent draft lists racing over the same employee cannot both
// insert the entry. No gorm.Model here: clearing must be a hard delete or the
// soft-deleted row would keep the unique index blocking re-admission.
type FlowStatusEntry struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	EmployeeID  uint        `json:"employee_id" gorm:"uniqueIndex:idx_flow_status_employee"`
	PostingType PostingType `json:"posting_type" gorm:"type:varchar(16);uniqueIndex:idx_flow_status_employee"`
	Stage       FlowStage   `json:"stage" gorm:"type:varchar(32)"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// PostingSequence backs list-number and order-number assignment. Numbers come
// from a transactionally incremented row, never from wall-clock time.
type PostingSequence struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	PostingType PostingType  `json:"posting_type" gorm:"type:varchar(16);uniqueIndex:idx_posting_sequence"`
	Kind        SequenceKind `json:"kind" gorm:"type:varchar(16);uniqueIndex:idx_posting_sequence"`
	Value       int          `json:"value"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type SequenceKind string

const (
	SequenceList  SequenceKind = "LIST"
	SequenceSheet SequenceKind = "SHEET"
	SequenceOrder SequenceKind = "ORDER"
)
