package repository

import (
	"errors"

	"posting-engine/internal/apperr"
	"posting-engine/internal/model"

	"gorm.io/gorm"
)

type CaseworkerRepository interface {
	Create(worker *model.Caseworker) error
	GetByServiceID(serviceID string) (*model.Caseworker, error)
	GetByID(id uint) (*model.Caseworker, error)
}

type caseworkerRepository struct {
	db *gorm.DB
}

func NewCaseworkerRepository(db *gorm.DB) CaseworkerRepository {
	return &caseworkerRepository{db}
}

func (r *caseworkerRepository) Create(worker *model.Caseworker) error {
	return r.db.Create(worker).Error
}

func (r *caseworkerRepository) GetByServiceID(serviceID string) (*model.Caseworker, error) {
	var worker model.Caseworker
	err := r.db.Where("service_id = ?", serviceID).First(&worker).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "caseworker %s not found", serviceID)
	}
	if err != nil {
		return nil, err
	}
	return &worker, nil
}

func (r *caseworkerRepository) GetByID(id uint) (*model.Caseworker, error) {
	var worker model.Caseworker
	err := r.db.First(&worker, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "caseworker %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &worker, nil
}
