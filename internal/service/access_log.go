package service

import (
	"log"
	"time"

	"registry-backend/internal/database"
	"registry-backend/internal/model"
)

// LogAccess records one gate or registry interaction. Logging is
// best-effort; a write failure must never affect the request outcome.
func LogAccess(licenseKey, action, outcome, ip, userAgent string) {
	entry := &model.AccessLog{
		LicenseKey: licenseKey,
		Action:     action,
		Outcome:    outcome,
		IPAddress:  ip,
		UserAgent:  userAgent,
		Timestamp:  time.Now(),
	}
	if err := database.DB.Create(entry).Error; err != nil {
		log.Printf("access log write failed: %v", err)
	}
}

// GetAccessLogs returns the most recent entries for one license key.
func GetAccessLogs(licenseKey string, limit int) ([]model.AccessLog, error) {
	if limit <= 0 {
		limit = 20
	}
	var logs []model.AccessLog
	err := database.DB.Where("license_key = ?", licenseKey).
		Order("timestamp desc").Limit(limit).Find(&logs).Error
	return logs, err
}
