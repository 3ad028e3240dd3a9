package model

import "gorm.io/gorm"

// DraftPostingList is a numbered batch of members selected to start a posting
// case. It is consumed (deleted) exactly once when converted into a note sheet.
type DraftPostingList struct {
	gorm.Model
	ListNumber  int         `json:"list_number" gorm:"uniqueIndex:idx_draft_list_number"`
	PostingType PostingType `json:"posting_type" gorm:"type:varchar(16);uniqueIndex:idx_draft_list_number"`
	ListDate    string      `json:"list_date"`
	CreatedBy   string      `json:"created_by"`

	Members []DraftListMember `json:"members" gorm:"foreignKey:DraftPostingListID;constraint:OnDelete:CASCADE"`
}

type DraftListMember struct {
	gorm.Model
	DraftPostingListID uint `json:"draft_posting_list_id"`
	EmployeeID         uint `json:"employee_id"`

	MemberSnapshot `gorm:"embedded"`
}
