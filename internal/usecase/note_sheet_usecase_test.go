package usecase

import (
	"fmt"
	"math/rand"
	"testing"

	"posting-engine/internal/apperr"
	"posting-engine/internal/model"
	"posting-engine/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDraftList(t *testing.T, draftLists *DraftListUsecase, postingType model.PostingType, employeeIDs ...uint) *model.DraftPostingList {
	t.Helper()
	list, err := draftLists.CreateFromSelection(CreateDraftListInput{
		PostingType: postingType,
		Members:     selection(employeeIDs...),
	}, "CW-1001")
	require.NoError(t, err)
	return list
}

func mustSheet(t *testing.T, draftLists *DraftListUsecase, noteSheets *NoteSheetUsecase, employeeIDs ...uint) *model.PostingNoteSheet {
	t.Helper()
	list := mustDraftList(t, draftLists, model.PostingNew, employeeIDs...)
	sheet, err := noteSheets.CreateFromDraftList(list.ID, model.PostingNew, "CW-1001")
	require.NoError(t, err)
	return sheet
}

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	got, ok := apperr.KindOf(err)
	require.True(t, ok, "unexpected error: %v", err)
	require.Equal(t, kind, got)
}

func TestCreateFromDraftListConsumesTheList(t *testing.T) {
	_, draftLists, noteSheets, _, flowStatus := newEngine(t)

	list := mustDraftList(t, draftLists, model.PostingNew, 1, 2, 3)

	sheet, err := noteSheets.CreateFromDraftList(list.ID, model.PostingNew, "CW-1001")
	require.NoError(t, err)
	assert.Equal(t, model.SheetDraft, sheet.Status)
	assert.Equal(t, 1, sheet.NoteSheetNumber)
	require.Len(t, sheet.Members, 3)
	for _, m := range sheet.Members {
		assert.Nil(t, m.AssignedUnitID)
	}
	require.NotNil(t, sheet.SourceDraftListID)
	assert.Equal(t, list.ID, *sheet.SourceDraftListID)

	// The list is gone; present-and-converted is never observable.
	_, err = draftLists.GetByID(list.ID)
	requireKind(t, err, apperr.NotFound)

	stages, err := flowStatus.BatchStatus([]uint{1, 2, 3}, model.PostingNew)
	require.NoError(t, err)
	for _, id := range []uint{1, 2, 3} {
		assert.Equal(t, model.StageNoteSheetOpen, stages[id])
	}
}

func TestCreateFromDraftListRejectsTypeMismatch(t *testing.T) {
	_, draftLists, noteSheets, _, _ := newEngine(t)

	list := mustDraftList(t, draftLists, model.PostingNew, 1)
	_, err := noteSheets.CreateFromDraftList(list.ID, model.PostingInter, "CW-1001")
	requireKind(t, err, apperr.Validation)

	// Rejection must not consume the list.
	_, err = draftLists.GetByID(list.ID)
	assert.NoError(t, err)
}

func TestUpdateMetadataOnlyWhileEditable(t *testing.T) {
	_, draftLists, noteSheets, _, _ := newEngine(t)

	sheet := mustSheet(t, draftLists, noteSheets, 1, 2)

	subject := "Posting of 2 x OR to new units"
	body := "Forwarded for kind approval."
	approver := uint(9)
	updated, err := noteSheets.UpdateMetadata(sheet.ID, MetadataPatch{
		Subject:         &subject,
		BodyText:        &body,
		FinalApproverID: &approver,
		RecommenderIDs:  []uint{4, 5},
	})
	require.NoError(t, err)
	assert.Equal(t, subject, updated.Subject)
	assert.Equal(t, body, updated.BodyText)
	assert.Equal(t, approver, updated.FinalApproverID)
	require.Len(t, updated.Recommenders, 2)
	assert.Equal(t, uint(4), updated.Recommenders[0].RecommenderID)

	_, err = noteSheets.SubmitForFinalized(sheet.ID)
	require.NoError(t, err)

	// Still editable while awaiting finalization.
	_, err = noteSheets.UpdateMetadata(sheet.ID, MetadataPatch{Subject: &subject})
	require.NoError(t, err)

	_, err = noteSheets.FinalizeAndSubmitForApproval(sheet.ID, assignAll(updated))
	require.NoError(t, err)

	// Routed for approval: edits would invalidate paperwork on someone's desk.
	_, err = noteSheets.UpdateMetadata(sheet.ID, MetadataPatch{Subject: &subject})
	requireKind(t, err, apperr.Precondition)
}

func TestMetadataWriteRejectedOncePastEditing(t *testing.T) {
	db, draftLists, noteSheets, _, _ := newEngine(t)

	sheet := mustSheet(t, draftLists, noteSheets, 1)
	original := sheet.Subject
	_, err := noteSheets.SubmitForFinalized(sheet.ID)
	require.NoError(t, err)
	_, err = noteSheets.FinalizeAndSubmitForApproval(sheet.ID, assignAll(sheet))
	require.NoError(t, err)

	// An edit that read the sheet while it was still editable lands here after
	// the sheet moved on. The write is guarded on the status column, so the
	// stale copy is rejected instead of landing on routed paperwork.
	stale := *sheet
	stale.Subject = "late revision"
	err = repository.NewNoteSheetRepository(db).SaveMetadata(&stale)
	requireKind(t, err, apperr.Conflict)

	current, err := noteSheets.GetByID(sheet.ID)
	require.NoError(t, err)
	assert.Equal(t, original, current.Subject)
}

func TestStatusTransitionsAreMonotonic(t *testing.T) {
	_, draftLists, noteSheets, _, _ := newEngine(t)

	sheet := mustSheet(t, draftLists, noteSheets, 1)
	assignments := assignAll(sheet)

	// DRAFT: only submit is legal.
	_, err := noteSheets.FinalizeAndSubmitForApproval(sheet.ID, assignments)
	requireKind(t, err, apperr.Precondition)
	_, err = noteSheets.Approve(sheet.ID, "CW-9001")
	requireKind(t, err, apperr.Precondition)
	_, err = noteSheets.Decline(sheet.ID, "not ready", "CW-9001")
	requireKind(t, err, apperr.Precondition)

	current, err := noteSheets.GetByID(sheet.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SheetDraft, current.Status)

	// PENDING_FINALIZED: submit again is illegal, approve/decline still are.
	_, err = noteSheets.SubmitForFinalized(sheet.ID)
	require.NoError(t, err)
	_, err = noteSheets.SubmitForFinalized(sheet.ID)
	requireKind(t, err, apperr.Precondition)
	_, err = noteSheets.Approve(sheet.ID, "CW-9001")
	requireKind(t, err, apperr.Precondition)
	_, err = noteSheets.Decline(sheet.ID, "not ready", "CW-9001")
	requireKind(t, err, apperr.Precondition)

	// PENDING_APPROVAL: no going back.
	_, err = noteSheets.FinalizeAndSubmitForApproval(sheet.ID, assignments)
	require.NoError(t, err)
	_, err = noteSheets.SubmitForFinalized(sheet.ID)
	requireKind(t, err, apperr.Precondition)
	_, err = noteSheets.FinalizeAndSubmitForApproval(sheet.ID, assignments)
	requireKind(t, err, apperr.Precondition)

	// APPROVED is terminal.
	_, err = noteSheets.Approve(sheet.ID, "CW-9001")
	require.NoError(t, err)
	_, err = noteSheets.Approve(sheet.ID, "CW-9001")
	requireKind(t, err, apperr.Precondition)
	_, err = noteSheets.Decline(sheet.ID, "too late", "CW-9001")
	requireKind(t, err, apperr.Precondition)
}

// Hammers a sheet with random operation sequences, legal and illegal mixed.
// Whatever the order, the observed status only ever moves forward and a
// terminal sheet never changes again. Fixed seed keeps failures replayable.
func TestRandomOperationSequencesNeverRegress(t *testing.T) {
	rank := map[model.SheetStatus]int{
		model.SheetDraft:            0,
		model.SheetPendingFinalized: 1,
		model.SheetPendingApproval:  2,
		model.SheetApproved:         3,
		model.SheetDeclined:         3,
	}

	rng := rand.New(rand.NewSource(42))
	for run := 0; run < 10; run++ {
		_, draftLists, noteSheets, _, _ := newEngine(t)
		sheet := mustSheet(t, draftLists, noteSheets, 1, 2)
		assignments := assignAll(sheet)

		last := model.SheetDraft
		for step := 0; step < 25; step++ {
			switch rng.Intn(5) {
			case 0:
				_, _ = noteSheets.SubmitForFinalized(sheet.ID)
			case 1:
				_, _ = noteSheets.FinalizeAndSubmitForApproval(sheet.ID, assignments)
			case 2:
				_, _ = noteSheets.Approve(sheet.ID, "CW-9001")
			case 3:
				_, _ = noteSheets.Decline(sheet.ID, "not proceeding", "CW-9001")
			case 4:
				subject := fmt.Sprintf("revision %d", step)
				_, _ = noteSheets.UpdateMetadata(sheet.ID, MetadataPatch{Subject: &subject})
			}

			current, err := noteSheets.GetByID(sheet.ID)
			require.NoError(t, err)
			require.GreaterOrEqual(t, rank[current.Status], rank[last],
				"run %d step %d: %s observed after %s", run, step, current.Status, last)
			if last.Terminal() {
				require.Equal(t, last, current.Status)
			}
			last = current.Status
		}
	}
}

func TestFinalizeRejectsIncompleteAssignments(t *testing.T) {
	_, draftLists, noteSheets, _, _ := newEngine(t)

	sheet := mustSheet(t, draftLists, noteSheets, 1, 2, 3)
	_, err := noteSheets.SubmitForFinalized(sheet.ID)
	require.NoError(t, err)

	partial := map[uint]UnitAssignment{
		1: {UnitID: 10, UnitName: "Unit A"},
		3: {UnitID: 11, UnitName: "Unit B"},
	}
	_, err = noteSheets.FinalizeAndSubmitForApproval(sheet.ID, partial)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.Validation, appErr.Kind)
	assert.Equal(t, []uint{2}, appErr.IDs)

	// Nothing partial persists: status unchanged, every member unassigned.
	current, err := noteSheets.GetByID(sheet.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SheetPendingFinalized, current.Status)
	for _, m := range current.Members {
		assert.Nil(t, m.AssignedUnitID)
	}
}

func TestApproveIssuesOrderAndExplodesItems(t *testing.T) {
	_, draftLists, noteSheets, joinings, flowStatus := newEngine(t)

	sheet := mustSheet(t, draftLists, noteSheets, 1, 2, 3)
	_, err := noteSheets.SubmitForFinalized(sheet.ID)
	require.NoError(t, err)
	_, err = noteSheets.FinalizeAndSubmitForApproval(sheet.ID, assignAll(sheet))
	require.NoError(t, err)

	approved, err := noteSheets.Approve(sheet.ID, "CW-9001")
	require.NoError(t, err)
	assert.Equal(t, model.SheetApproved, approved.Status)
	require.NotNil(t, approved.OrderNumber)
	assert.Equal(t, "CW-9001", approved.ApprovedBy)

	items, err := joinings.ListPending(model.PostingNew)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for _, item := range items {
		assert.Equal(t, *approved.OrderNumber, item.OrderNumber)
		assert.Nil(t, item.JoiningDate)
		assert.Equal(t, sheet.ID, item.SourceNoteSheetID)
		assert.NotZero(t, item.DestinationUnitID)
		assert.Equal(t, "Depot Coy", item.SourceUnit)
	}

	stages, err := flowStatus.BatchStatus([]uint{1, 2, 3}, model.PostingNew)
	require.NoError(t, err)
	for _, id := range []uint{1, 2, 3} {
		assert.Equal(t, model.StageNone, stages[id])
	}
}

func TestDeclineReleasesMembersWithoutItems(t *testing.T) {
	_, draftLists, noteSheets, joinings, flowStatus := newEngine(t)

	sheet := mustSheet(t, draftLists, noteSheets, 1, 2)
	_, err := noteSheets.SubmitForFinalized(sheet.ID)
	require.NoError(t, err)
	_, err = noteSheets.FinalizeAndSubmitForApproval(sheet.ID, assignAll(sheet))
	require.NoError(t, err)

	declined, err := noteSheets.Decline(sheet.ID, "units at capacity", "CW-9001")
	require.NoError(t, err)
	assert.Equal(t, model.SheetDeclined, declined.Status)
	assert.Equal(t, "units at capacity", declined.DeclineReason)

	items, err := joinings.ListPending(model.PostingNew)
	require.NoError(t, err)
	assert.Empty(t, items)

	stages, err := flowStatus.BatchStatus([]uint{1, 2}, model.PostingNew)
	require.NoError(t, err)
	assert.Equal(t, model.StageNone, stages[1])
	assert.Equal(t, model.StageNone, stages[2])

	// Declined members are available for a fresh draft list.
	_, err = draftLists.CreateFromSelection(CreateDraftListInput{
		PostingType: model.PostingNew,
		Members:     selection(1),
	}, "CW-1001")
	assert.NoError(t, err)
}

func TestDeclineRequiresReason(t *testing.T) {
	_, draftLists, noteSheets, _, _ := newEngine(t)

	sheet := mustSheet(t, draftLists, noteSheets, 1)
	_, err := noteSheets.Decline(sheet.ID, "", "CW-9001")
	requireKind(t, err, apperr.Validation)
}

func TestListByStatusBacksWorkQueues(t *testing.T) {
	_, draftLists, noteSheets, _, _ := newEngine(t)

	draft := mustSheet(t, draftLists, noteSheets, 1)
	pending := mustSheet(t, draftLists, noteSheets, 2)
	_, err := noteSheets.SubmitForFinalized(pending.ID)
	require.NoError(t, err)

	drafts, err := noteSheets.ListByStatus(model.PostingNew, model.SheetDraft)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, draft.ID, drafts[0].ID)

	finalizing, err := noteSheets.ListByStatus(model.PostingNew, model.SheetPendingFinalized)
	require.NoError(t, err)
	require.Len(t, finalizing, 1)
	assert.Equal(t, pending.ID, finalizing[0].ID)

	_, err = noteSheets.ListByStatus(model.PostingNew, "SHREDDED")
	requireKind(t, err, apperr.Validation)
}

// The full pipeline, pool selection to a recorded join.
func TestEndToEndPipeline(t *testing.T) {
	_, draftLists, noteSheets, joinings, flowStatus := newEngine(t)

	list := mustDraftList(t, draftLists, model.PostingNew, 1, 2, 3)

	sheet, err := noteSheets.CreateFromDraftList(list.ID, model.PostingNew, "CW-1001")
	require.NoError(t, err)
	require.Len(t, sheet.Members, 3)

	_, err = noteSheets.SubmitForFinalized(sheet.ID)
	require.NoError(t, err)

	routed, err := noteSheets.FinalizeAndSubmitForApproval(sheet.ID, assignAll(sheet))
	require.NoError(t, err)
	assert.Equal(t, model.SheetPendingApproval, routed.Status)

	_, err = noteSheets.Approve(sheet.ID, "CW-9001")
	require.NoError(t, err)

	items, err := joinings.ListPending(model.PostingNew)
	require.NoError(t, err)
	require.Len(t, items, 3)

	joined, err := joinings.RecordJoin(items[0].ID, "2024-03-01", "REF-77", "CW-2001")
	require.NoError(t, err)
	require.NotNil(t, joined.JoiningDate)
	assert.Equal(t, "2024-03-01", *joined.JoiningDate)

	remaining, err := joinings.ListPending(model.PostingNew)
	require.NoError(t, err)
	assert.Len(t, remaining, 2)

	history, err := joinings.ListJoined(model.PostingNew)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	stages, err := flowStatus.BatchStatus([]uint{1, 2, 3}, model.PostingNew)
	require.NoError(t, err)
	for _, id := range []uint{1, 2, 3} {
		assert.Equal(t, model.StageNone, stages[id])
	}
}
