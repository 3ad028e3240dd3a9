package usecase

import (
	"posting-engine/internal/apperr"
	"posting-engine/internal/model"
	"posting-engine/internal/repository"
)

// FlowStatusUsecase is the read side of the status registry. The mark* calls
// are internal to the engine and only ever happen inside the draft-list and
// note-sheet transactions; callers get a pure read-through query and hold no
// authoritative copy.
type FlowStatusUsecase struct {
	repo repository.FlowStatusRepository
}

func NewFlowStatusUsecase(repo repository.FlowStatusRepository) *FlowStatusUsecase {
	return &FlowStatusUsecase{repo: repo}
}

func (u *FlowStatusUsecase) BatchStatus(employeeIDs []uint, postingType model.PostingType) (map[uint]model.FlowStage, error) {
	if !postingType.Valid() {
		return nil, apperr.New(apperr.Validation, "unknown posting type %q", postingType)
	}
	if len(employeeIDs) == 0 {
		return map[uint]model.FlowStage{}, nil
	}
	return u.repo.BatchStatus(employeeIDs, postingType)
}
