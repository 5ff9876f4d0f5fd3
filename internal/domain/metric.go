package domain

import "time"

// CompanyMetric is one derived record per company, produced by the metrics
// stage (or an external metrics job) and read-only input to ranking.
type CompanyMetric struct {
	CompanyID     int64
	Total         int
	Cancelled     int
	FirstNotified *time.Time
	// Reputation is a [0,1] trust score.
	Reputation float64
}

// CategoryMetric is one derived record per category label.
type CategoryMetric struct {
	Category  string
	Total     int
	Cancelled int
	// Risk is the [0,1] cancellation rate of the category.
	Risk float64
}
