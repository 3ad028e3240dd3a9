package repository

import (
	"errors"

	"posting-engine/internal/model"

	"gorm.io/gorm"
)

type SequenceRepository interface {
	Next(postingType model.PostingType, kind model.SequenceKind) (int, error)
}

type sequenceRepository struct {
	db *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) SequenceRepository {
	return &sequenceRepository{db}
}

// Next must be called inside the transaction that uses the number. The UPDATE
// takes the row lock, so concurrent callers serialize and the read-back below
// is stable for the rest of the transaction.
func (r *sequenceRepository) Next(postingType model.PostingType, kind model.SequenceKind) (int, error) {
	res := r.db.Model(&model.PostingSequence{}).
		Where("posting_type = ? AND kind = ?", postingType, kind).
		Update("value", gorm.Expr("value + 1"))
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected == 0 {
		// First number for this (type, kind). A concurrent first caller
		// loses the insert race on the unique index; fall through to the
		// increment path in that case.
		seq := model.PostingSequence{PostingType: postingType, Kind: kind, Value: 1}
		err := r.db.Create(&seq).Error
		if err == nil {
			return 1, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, err
		}
		res = r.db.Model(&model.PostingSequence{}).
			Where("posting_type = ? AND kind = ?", postingType, kind).
			Update("value", gorm.Expr("value + 1"))
		if res.Error != nil {
			return 0, res.Error
		}
	}

	var seq model.PostingSequence
	err := r.db.Where("posting_type = ? AND kind = ?", postingType, kind).First(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq.Value, nil
}
