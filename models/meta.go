// backend/models/meta.go
package models

import "gopkg.in/guregu/null.v3"

// ReadingStats summarizes the readings table for the dashboard.
type ReadingStats struct {
	TotalReadings   int64     `db:"total_readings" json:"total_readings"`
	UniqueFarms     int64     `db:"unique_farms" json:"unique_farms"`
	UniqueSensors   int64     `db:"unique_sensors" json:"unique_sensors"`
	LatestReadingAt null.Time `db:"latest_reading_at" json:"latest_reading_at"`
}
