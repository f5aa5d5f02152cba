package service

import (
	"time"

	"registry-backend/internal/database"
	"registry-backend/internal/model"
)

// BuildUsageStatistics aggregates the access log into the statistics
// payload: activation totals and failures, search volume, per-action
// counts and a per-day activity series for the trailing window.
func BuildUsageStatistics(days int) (*model.UsageStatistics, error) {
	if days <= 0 {
		days = 30
	}

	stats := &model.UsageStatistics{
		CountsByAction: map[string]int{},
	}

	if err := database.DB.Model(&model.AccessLog{}).
		Where("action = ?", "activate").Count(&stats.TotalActivations).Error; err != nil {
		return nil, err
	}
	if err := database.DB.Model(&model.AccessLog{}).
		Where("action = ? AND outcome <> ?", "activate", "authenticated").
		Count(&stats.FailedActivations).Error; err != nil {
		return nil, err
	}
	if err := database.DB.Model(&model.AccessLog{}).
		Where("action = ?", "search").Count(&stats.TotalSearches).Error; err != nil {
		return nil, err
	}

	var entries []model.AccessLog
	since := time.Now().AddDate(0, 0, -days)
	if err := database.DB.Where("timestamp >= ?", since).
		Order("timestamp").Find(&entries).Error; err != nil {
		return nil, err
	}

	byDay := map[string]*model.DailyActivity{}
	var order []string
	for _, e := range entries {
		stats.CountsByAction[e.Action]++

		day := e.Timestamp.Format("2006-01-02")
		d, ok := byDay[day]
		if !ok {
			date, _ := time.Parse("2006-01-02", day)
			d = &model.DailyActivity{Date: date}
			byDay[day] = d
			order = append(order, day)
		}
		switch e.Action {
		case "activate":
			if e.Outcome == "authenticated" {
				d.Activations++
			}
		case "search":
			d.Searches++
		}
	}
	for _, day := range order {
		stats.DailyActivity = append(stats.DailyActivity, *byDay[day])
	}
	stats.ActivationRate = stats.SuccessRate()

	return stats, nil
}
