package model

import "time"

// DailyActivity aggregates one day of access-log rows.
type DailyActivity struct {
	Date        time.Time `json:"date"`
	Activations int       `json:"activations"`
	Searches    int       `json:"searches"`
}

// UsageStatistics summarizes activity against the gate and the
// registry for the statistics endpoint.
type UsageStatistics struct {
	TotalActivations  int64           `json:"total_activations"`
	FailedActivations int64           `json:"failed_activations"`
	TotalSearches     int64           `json:"total_searches"`
	ActivationRate    float64         `json:"activation_success_rate"`
	CountsByAction    map[string]int  `json:"counts_by_action"`
	DailyActivity     []DailyActivity `json:"daily_activity"`
}

// SuccessRate reports the fraction of activation attempts that ended
// authenticated.
func (s *UsageStatistics) SuccessRate() float64 {
	if s.TotalActivations == 0 {
		return 0
	}
	return float64(s.TotalActivations-s.FailedActivations) / float64(s.TotalActivations)
}

// ActivityOn returns the aggregate for a calendar day, or nil when
// the day saw no traffic.
func (s *UsageStatistics) ActivityOn(date time.Time) *DailyActivity {
	for i := range s.DailyActivity {
		d := &s.DailyActivity[i]
		if d.Date.Year() == date.Year() &&
			d.Date.Month() == date.Month() &&
			d.Date.Day() == date.Day() {
			return d
		}
	}
	return nil
}
