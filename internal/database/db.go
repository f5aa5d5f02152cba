package database

import (
	"log"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"registry-backend/internal/model"
)

var DB *gorm.DB

// InitDB opens the registry dataset file. The i2500/i2819 tables ship
// inside the dataset and are refreshed wholesale by an external job;
// only the access log is migrated here.
func InitDB(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return err
	}

	if err := DB.AutoMigrate(&model.AccessLog{}); err != nil {
		return err
	}

	log.Printf("registry dataset opened: %s", path)
	return nil
}
