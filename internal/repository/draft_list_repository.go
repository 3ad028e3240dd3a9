package repository

import (
	"errors"

	"posting-engine/internal/apperr"
	"posting-engine/internal/model"

	"gorm.io/gorm"
)

type DraftListRepository interface {
	Create(list *model.DraftPostingList) error
	GetByID(id uint) (*model.DraftPostingList, error)
	GetByType(postingType model.PostingType) ([]model.DraftPostingList, error)
	Delete(id uint) error
}

type draftListRepository struct {
	db *gorm.DB
}

func NewDraftListRepository(db *gorm.DB) DraftListRepository {
	return &draftListRepository{db}
}

func (r *draftListRepository) Create(list *model.DraftPostingList) error {
	return r.db.Create(list).Error
}

func (r *draftListRepository) GetByID(id uint) (*model.DraftPostingList, error) {
	var list model.DraftPostingList
	err := r.db.Preload("Members").First(&list, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "draft list %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *draftListRepository) GetByType(postingType model.PostingType) ([]model.DraftPostingList, error) {
	var lists []model.DraftPostingList
	err := r.db.Preload("Members").
		Where("posting_type = ?", postingType).
		Order("list_number desc").
		Find(&lists).Error
	return lists, err
}

// Delete removes the list row and its members. The soft-deleted rows keep a
// trace of consumed lists without ever showing up in reads. The list delete is
// a conditional write: zero rows affected means another caller consumed or
// discarded the list after our read, so consumption serializes on this one
// statement instead of trusting the earlier snapshot read.
func (r *draftListRepository) Delete(id uint) error {
	res := r.db.Delete(&model.DraftPostingList{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.Conflict, "draft list %d was already consumed or discarded", id)
	}
	return r.db.Where("draft_posting_list_id = ?", id).Delete(&model.DraftListMember{}).Error
}
