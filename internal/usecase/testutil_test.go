package usecase

import (
	"fmt"
	"testing"

	"posting-engine/config"
	"posting-engine/internal/model"
	"posting-engine/internal/notify"
	"posting-engine/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testDB opens a fresh in-memory database per test. A single connection keeps
// sqlite's writer model out of the way while still exercising the real
// transaction and unique-constraint behavior the engine relies on.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return db
}

func newEngine(t *testing.T) (*gorm.DB, *DraftListUsecase, *NoteSheetUsecase, *JoiningUsecase, *FlowStatusUsecase) {
	t.Helper()
	db := testDB(t)
	joining := NewJoiningUsecase(db)
	return db,
		NewDraftListUsecase(db),
		NewNoteSheetUsecase(db, joining, notify.NewMailNotifier()),
		joining,
		NewFlowStatusUsecase(repository.NewFlowStatusRepository(db))
}

func selection(employeeIDs ...uint) []DraftMemberInput {
	members := make([]DraftMemberInput, len(employeeIDs))
	for i, id := range employeeIDs {
		members[i] = DraftMemberInput{
			EmployeeID: id,
			MemberSnapshot: model.MemberSnapshot{
				ServiceID: fmt.Sprintf("S-%d", id),
				Name:      fmt.Sprintf("Member %d", id),
				Rank:      "Sergeant",
				Corps:     "Signals",
				HomeUnit:  "Depot Coy",
			},
		}
	}
	return members
}

func assignAll(sheet *model.PostingNoteSheet) map[uint]UnitAssignment {
	assignments := make(map[uint]UnitAssignment, len(sheet.Members))
	for i, m := range sheet.Members {
		assignments[m.EmployeeID] = UnitAssignment{UnitID: uint(10 + i), UnitName: fmt.Sprintf("Unit %d", 10+i)}
	}
	return assignments
}
