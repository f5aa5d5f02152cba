package database

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"registry-backend/internal/model"
)

func InitTestDB() {
	var err error
	DB, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect test database")
	}

	// Tests create registry fixtures through gorm, so the dataset
	// tables are migrated here too.
	err = DB.AutoMigrate(&model.ActiveRecord{}, &model.ClosedRecord{}, &model.AccessLog{})
	if err != nil {
		panic("failed to migrate test database")
	}
}

func CleanTestDB() {
	sqlDB, err := DB.DB()
	if err != nil {
		return
	}
	sqlDB.Close()
}
