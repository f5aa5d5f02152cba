package model

import (
	"time"

	"gorm.io/gorm"
)

type AccessLog struct {
	gorm.Model
	LicenseKey string    `json:"license_key" gorm:"index"`
	Action     string    `json:"action"` // "activate", "search", "changes"
	Outcome    string    `json:"outcome"`
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
	Timestamp  time.Time `json:"timestamp"`
}
