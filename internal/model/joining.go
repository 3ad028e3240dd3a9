package model

import "gorm.io/gorm"

// PendingJoiningItem is one person's record of reporting to their newly
// assigned unit. Exactly one item exists per note-sheet member (the unique
// index on NoteSheetMemberID is what makes explode-on-approval idempotent),
// and JoiningDate flips null -> non-null exactly once.
type PendingJoiningItem struct {
	gorm.Model
	PostingType       PostingType `json:"posting_type" gorm:"type:varchar(16);index"`
	SourceNoteSheetID uint        `json:"source_note_sheet_id" gorm:"index"`
	NoteSheetMemberID uint        `json:"note_sheet_member_id" gorm:"uniqueIndex"`
	OrderNumber       int         `json:"order_number"` // shared across all items from one sheet
	EmployeeID        uint        `json:"employee_id"`
	SourceUnit        string      `json:"source_unit"`
	DestinationUnitID uint        `json:"destination_unit_id"`
	DestinationUnit   string      `json:"destination_unit"`
	JoiningDate       *string     `json:"joining_date"`
	JoinReferenceNo   *string     `json:"join_reference_no"`
	RecordedBy        string      `json:"recorded_by"`

	MemberSnapshot `gorm:"embedded"`
}
