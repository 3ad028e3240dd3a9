package usecase

import (
	"time"

	"posting-engine/internal/apperr"
	"posting-engine/internal/model"
	"posting-engine/internal/repository"

	"gorm.io/gorm"
)

type DraftListUsecase struct {
	db *gorm.DB
}

func NewDraftListUsecase(db *gorm.DB) *DraftListUsecase {
	return &DraftListUsecase{db: db}
}

// DraftMemberInput is one pool row chosen on the selection screen. The
// snapshot fields are frozen here and carried through the whole pipeline.
type DraftMemberInput struct {
	EmployeeID uint `json:"employee_id"`

	model.MemberSnapshot
}

type CreateDraftListInput struct {
	PostingType model.PostingType  `json:"posting_type"`
	ListDate    string             `json:"list_date"`
	Members     []DraftMemberInput `json:"members"`
}

// CreateFromSelection admits a selection into a new numbered draft list.
// All-or-nothing: if any member is already in an open flow of this type the
// whole list is rolled back and the rejection names the offending employees.
func (u *DraftListUsecase) CreateFromSelection(in CreateDraftListInput, createdBy string) (*model.DraftPostingList, error) {
	if !in.PostingType.Valid() {
		return nil, apperr.New(apperr.Validation, "unknown posting type %q", in.PostingType)
	}
	if len(in.Members) == 0 {
		return nil, apperr.New(apperr.Validation, "selection is empty")
	}
	seen := make(map[uint]bool, len(in.Members))
	for _, m := range in.Members {
		if m.EmployeeID == 0 {
			return nil, apperr.New(apperr.Validation, "member without employee id")
		}
		if seen[m.EmployeeID] {
			return nil, apperr.New(apperr.Validation, "employee listed twice in selection").WithIDs([]uint{m.EmployeeID})
		}
		seen[m.EmployeeID] = true
	}

	listDate := in.ListDate
	if listDate == "" {
		listDate = time.Now().Format("2006-01-02")
	}

	var list *model.DraftPostingList
	err := u.db.Transaction(func(tx *gorm.DB) error {
		number, err := repository.NewSequenceRepository(tx).Next(in.PostingType, model.SequenceList)
		if err != nil {
			return err
		}

		members := make([]model.DraftListMember, len(in.Members))
		employeeIDs := make([]uint, len(in.Members))
		for i, m := range in.Members {
			members[i] = model.DraftListMember{EmployeeID: m.EmployeeID, MemberSnapshot: m.MemberSnapshot}
			employeeIDs[i] = m.EmployeeID
		}

		list = &model.DraftPostingList{
			ListNumber:  number,
			PostingType: in.PostingType,
			ListDate:    listDate,
			CreatedBy:   createdBy,
			Members:     members,
		}
		if err := repository.NewDraftListRepository(tx).Create(list); err != nil {
			return err
		}

		// Admission gate last: its per-employee rejection aborts the whole
		// creation, so a partially admitted list is never visible.
		return repository.NewFlowStatusRepository(tx).MarkEntered(employeeIDs, in.PostingType)
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (u *DraftListUsecase) GetByType(postingType model.PostingType) ([]model.DraftPostingList, error) {
	if !postingType.Valid() {
		return nil, apperr.New(apperr.Validation, "unknown posting type %q", postingType)
	}
	return repository.NewDraftListRepository(u.db).GetByType(postingType)
}

func (u *DraftListUsecase) GetByID(id uint) (*model.DraftPostingList, error) {
	return repository.NewDraftListRepository(u.db).GetByID(id)
}

// Discard abandons an unconsumed draft list and releases its members back to
// the pool.
func (u *DraftListUsecase) Discard(id uint) error {
	return u.db.Transaction(func(tx *gorm.DB) error {
		repo := repository.NewDraftListRepository(tx)
		list, err := repo.GetByID(id)
		if err != nil {
			return err
		}
		if err := repo.Delete(list.ID); err != nil {
			return err
		}
		employeeIDs := make([]uint, len(list.Members))
		for i, m := range list.Members {
			employeeIDs[i] = m.EmployeeID
		}
		return repository.NewFlowStatusRepository(tx).MarkCleared(employeeIDs, list.PostingType)
	})
}
