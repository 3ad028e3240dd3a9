package config

import (
	"fmt"
	"log"

	"posting-engine/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		GetEnv("DB_USER", "root"),
		GetEnv("DB_PASSWORD", ""),
		GetEnv("DB_HOST", "127.0.0.1"),
		GetEnv("DB_PORT", "3306"),
		GetEnv("DB_NAME", "posting_engine"),
	)

	// TranslateError so unique-key violations surface as gorm.ErrDuplicatedKey;
	// the admission gate and the explode idempotency both rely on it.
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("auto migration failed: %v", err)
	}

	DB = db
}

// Migrate is separate from ConnectDB so tests can run it against their own
// database handle.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Caseworker{},
		&model.FlowStatusEntry{},
		&model.PostingSequence{},
		&model.DraftPostingList{},
		&model.DraftListMember{},
		&model.PostingNoteSheet{},
		&model.NoteSheetMember{},
		&model.NoteSheetRecommender{},
		&model.NoteSheetAttachment{},
		&model.PendingJoiningItem{},
	)
}
