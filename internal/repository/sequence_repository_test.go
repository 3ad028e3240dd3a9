package repository

import (
	"sync"
	"testing"

	"posting-engine/config"
	"posting-engine/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func sequenceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))
	return db
}

func TestSequenceNextIsMonotonic(t *testing.T) {
	db := sequenceTestDB(t)
	repo := NewSequenceRepository(db)

	for want := 1; want <= 5; want++ {
		got, err := repo.Next(model.PostingNew, model.SequenceList)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestSequencesAreIndependentPerTypeAndKind(t *testing.T) {
	db := sequenceTestDB(t)
	repo := NewSequenceRepository(db)

	n1, err := repo.Next(model.PostingNew, model.SequenceList)
	require.NoError(t, err)
	n2, err := repo.Next(model.PostingInter, model.SequenceList)
	require.NoError(t, err)
	n3, err := repo.Next(model.PostingNew, model.SequenceOrder)
	require.NoError(t, err)

	assert.Equal(t, 1, n1)
	assert.Equal(t, 1, n2)
	assert.Equal(t, 1, n3)
}

func TestSequenceConcurrentCallersGetDistinctNumbers(t *testing.T) {
	db := sequenceTestDB(t)

	const callers = 8
	numbers := make([]int, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = db.Transaction(func(tx *gorm.DB) error {
				n, err := NewSequenceRepository(tx).Next(model.PostingNew, model.SequenceOrder)
				numbers[i] = n
				return err
			})
		}(i)
	}
	wg.Wait()

	seen := make(map[int]bool, callers)
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.False(t, seen[numbers[i]], "order number %d issued twice", numbers[i])
		seen[numbers[i]] = true
	}
}
