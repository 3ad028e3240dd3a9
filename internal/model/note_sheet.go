package model

import "gorm.io/gorm"

// PostingNoteSheet is the case file that carries a posting batch through
// drafting, unit finalization and approval. The manager owns its whole
// lifecycle; nothing else mutates it.
type PostingNoteSheet struct {
	gorm.Model
	PostingType       PostingType `json:"posting_type" gorm:"type:varchar(16);uniqueIndex:idx_note_sheet_number"`
	SourceDraftListID *uint       `json:"source_draft_list_id"`
	NoteSheetNumber   int         `json:"note_sheet_number" gorm:"uniqueIndex:idx_note_sheet_number"`
	NoteSheetDate     string      `json:"note_sheet_date"`
	ReferenceNumber   string      `json:"reference_number"`
	Subject           string      `json:"subject"`
	BodyText          string      `json:"body_text"`
	BodyLanguage      string      `json:"body_language"` // "en" or "bn"
	PreparedBy        string      `json:"prepared_by"`
	InitiatorID       uint        `json:"initiator_id"`
	FinalApproverID   uint        `json:"final_approver_id"`
	Status            SheetStatus `json:"status" gorm:"type:varchar(32);default:DRAFT;index"`
	DeclineReason     string      `json:"decline_reason"`
	ApprovedBy        string      `json:"approved_by"`
	ApprovedDate      string      `json:"approved_date"`
	DeclinedBy        string      `json:"declined_by"`
	DeclinedDate      string      `json:"declined_date"`
	OrderNumber       *int        `json:"order_number"` // set on approval, shared by all exploded items
	CreatedBy         string      `json:"created_by"`

	Members      []NoteSheetMember      `json:"members" gorm:"foreignKey:NoteSheetID;constraint:OnDelete:CASCADE"`
	Recommenders []NoteSheetRecommender `json:"recommenders" gorm:"foreignKey:NoteSheetID;constraint:OnDelete:CASCADE"`
	Attachments  []NoteSheetAttachment  `json:"attachments" gorm:"foreignKey:NoteSheetID;constraint:OnDelete:CASCADE"`
}

// NoteSheetMember is a draft-list member carried onto a sheet. AssignedUnitID
// stays null until finalize; the sheet cannot be routed for approval while any
// member is unassigned.
type NoteSheetMember struct {
	gorm.Model
	NoteSheetID      uint   `json:"note_sheet_id"`
	EmployeeID       uint   `json:"employee_id"`
	AssignedUnitID   *uint  `json:"assigned_unit_id"`
	AssignedUnitName string `json:"assigned_unit_name"` // denormalized for display only

	MemberSnapshot `gorm:"embedded"`
}

type NoteSheetRecommender struct {
	gorm.Model
	NoteSheetID   uint `json:"note_sheet_id"`
	RecommenderID uint `json:"recommender_id"`
	Position      int  `json:"position"` // routing order on the paper sheet
}

// NoteSheetAttachment is a reference only; the file store is an external
// collaborator.
type NoteSheetAttachment struct {
	gorm.Model
	NoteSheetID uint   `json:"note_sheet_id"`
	FileID      string `json:"file_id"`
	FileName    string `json:"file_name"`
}
