package model

// PostingType scopes every entity in the pipeline. An employee may hold at most
// one open flow per type, but one NEW and one INTER flow may run side by side.
type PostingType string

const (
	PostingNew   PostingType = "NEW"   // from the supernumerary pool
	PostingInter PostingType = "INTER" // from presently-serving members
)

func (t PostingType) Valid() bool {
	return t == PostingNew || t == PostingInter
}

// FlowStage is what the status registry reports for an (employee, type) pair.
type FlowStage string

const (
	StageNone          FlowStage = "NONE"
	StageDraftListed   FlowStage = "DRAFT_LISTED"
	StageNoteSheetOpen FlowStage = "NOTE_SHEET_OPEN"
)

// SheetStatus only ever moves forward:
// DRAFT -> PENDING_FINALIZED -> PENDING_APPROVAL -> APPROVED or DECLINED.
type SheetStatus string

const (
	SheetDraft            SheetStatus = "DRAFT"
	SheetPendingFinalized SheetStatus = "PENDING_FINALIZED"
	SheetPendingApproval  SheetStatus = "PENDING_APPROVAL"
	SheetApproved         SheetStatus = "APPROVED"
	SheetDeclined         SheetStatus = "DECLINED"
)

func (s SheetStatus) Terminal() bool {
	return s == SheetApproved || s == SheetDeclined
}

// MemberSnapshot is the frozen copy of a member's display fields taken when the
// member enters a draft list. It is carried forward through the pipeline and
// never re-fetched, so approval paperwork shows the data as it was when the
// case was opened.
type MemberSnapshot struct {
	ServiceID         string `json:"service_id"`
	Name              string `json:"name"`
	Rank              string `json:"rank"`
	Corps             string `json:"corps"`
	Trade             string `json:"trade"`
	HomeUnit          string `json:"home_unit"`
	UnitJoiningDate   string `json:"unit_joining_date"`
	RelieverServiceID string `json:"reliever_service_id"`
}
