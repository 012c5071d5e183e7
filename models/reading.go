// backend/models/reading.go
package models

import (
	"time"

	"gopkg.in/guregu/null.v3"
)

// Reading is one stored sensor measurement. Rows are never updated.
type Reading struct {
	ID          int64       `db:"id" json:"id" csv:"id"`
	Ts          time.Time   `db:"ts" json:"ts" csv:"ts"`
	SensorID    null.String `db:"sensor_id" json:"sensor_id" csv:"sensor_id"`
	FarmID      null.Int    `db:"farm_id" json:"farm_id" csv:"farm_id"`
	Temperature null.Float  `db:"temperature" json:"temperature" csv:"temperature"`
	Humidity    null.Float  `db:"humidity" json:"humidity" csv:"humidity"`
	PH          null.Float  `db:"ph" json:"ph" csv:"ph"`
	Rainfall    null.Float  `db:"rainfall" json:"rainfall" csv:"rainfall"`
	N           null.Int    `db:"n" json:"n" csv:"n"`
	P           null.Int    `db:"p" json:"p" csv:"p"`
	K           null.Int    `db:"k" json:"k" csv:"k"`
}

// ReadingIn is the ingest payload. Every field is optional; a missing ts
// means "now" on the database side.
type ReadingIn struct {
	SensorID    null.String `db:"sensor_id" json:"sensor_id"`
	FarmID      null.Int    `db:"farm_id" json:"farm_id"`
	Ts          null.Time   `db:"ts" json:"ts"`
	Temperature null.Float  `db:"temperature" json:"temperature"`
	Humidity    null.Float  `db:"humidity" json:"humidity"`
	PH          null.Float  `db:"ph" json:"ph"`
	Rainfall    null.Float  `db:"rainfall" json:"rainfall"`
	N           null.Int    `db:"n" json:"n"`
	P           null.Int    `db:"p" json:"p"`
	K           null.Int    `db:"k" json:"k"`
}

// ReadingCSVRow is the loose shape of an uploaded CSV line after header
// normalization. Nutrients are parsed as floats because exported
// spreadsheets often write "42.0".
type ReadingCSVRow struct {
	SensorID    string   `csv:"sensor_id,omitempty"`
	FarmID      *int64   `csv:"farm_id,omitempty"`
	Ts          string   `csv:"ts,omitempty"`
	Temperature *float64 `csv:"temperature,omitempty"`
	Humidity    *float64 `csv:"humidity,omitempty"`
	PH          *float64 `csv:"ph,omitempty"`
	Rainfall    *float64 `csv:"rainfall,omitempty"`
	N           *float64 `csv:"n,omitempty"`
	P           *float64 `csv:"p,omitempty"`
	K           *float64 `csv:"k,omitempty"`
}
