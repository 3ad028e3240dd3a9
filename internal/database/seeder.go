package database

import (
	"log"

	"posting-engine/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAll inserts the initial caseworker accounts and a demo supernumerary
// pool snapshot so the pipeline can be exercised end to end on a fresh
// database. Safe to run repeatedly.
func SeedAll(db *gorm.DB) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)

	caseworkers := []model.Caseworker{
		{ServiceID: "CW-1001", Name: "Record Office Clerk", Email: "clerk@example.org", Password: string(hashed)},
		{ServiceID: "CW-2001", Name: "Posting Officer", Email: "posting@example.org", Password: string(hashed)},
		{ServiceID: "CW-9001", Name: "Approving Authority", Email: "approver@example.org", Password: string(hashed)},
	}
	for _, w := range caseworkers {
		db.FirstOrCreate(&w, model.Caseworker{ServiceID: w.ServiceID})
	}

	// A small demo draft list so the work queues are not empty on first run.
	var count int64
	db.Model(&model.DraftPostingList{}).Count(&count)
	if count > 0 {
		log.Println("seeder: draft lists already present, skipping demo data")
		return
	}

	demo := model.DraftPostingList{
		ListNumber:  1,
		PostingType: model.PostingNew,
		ListDate:    "2024-01-15",
		CreatedBy:   "CW-1001",
		Members: []model.DraftListMember{
			{EmployeeID: 101, MemberSnapshot: model.MemberSnapshot{ServiceID: "S-101", Name: "Abdul Karim", Rank: "Sergeant", Corps: "Signals", Trade: "Operator", HomeUnit: "Depot Coy"}},
			{EmployeeID: 102, MemberSnapshot: model.MemberSnapshot{ServiceID: "S-102", Name: "Rafiq Islam", Rank: "Corporal", Corps: "Engineers", Trade: "Fitter", HomeUnit: "Depot Coy"}},
		},
	}
	if err := db.Create(&demo).Error; err != nil {
		log.Printf("seeder: demo draft list failed: %v", err)
		return
	}
	entries := []model.FlowStatusEntry{
		{EmployeeID: 101, PostingType: model.PostingNew, Stage: model.StageDraftListed},
		{EmployeeID: 102, PostingType: model.PostingNew, Stage: model.StageDraftListed},
	}
	if err := db.Create(&entries).Error; err != nil {
		log.Printf("seeder: flow status entries failed: %v", err)
	}
	seq := model.PostingSequence{PostingType: model.PostingNew, Kind: model.SequenceList, Value: 1}
	db.FirstOrCreate(&seq, model.PostingSequence{PostingType: model.PostingNew, Kind: model.SequenceList})

	log.Println("seeder: done")
}
