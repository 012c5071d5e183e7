// backend/scraper/csv_writer.go
package scraper

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jszwec/csvutil"

	"github.com/smartagri/cropadvisor/backend/models"
)

// WriteReadingsCSV encodes readings with a header row. NULL values become
// empty cells.
func WriteReadingsCSV(w io.Writer, readings []models.Reading) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if len(readings) == 0 {
		if err := enc.EncodeHeader(models.Reading{}); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}
	for _, r := range readings {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode reading %d: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

type templateRow struct {
	SensorID    string  `csv:"sensor_id"`
	FarmID      int     `csv:"farm_id"`
	Temperature float64 `csv:"temperature"`
	Humidity    float64 `csv:"humidity"`
	PH          float64 `csv:"ph"`
	Rainfall    float64 `csv:"rainfall"`
	N           int     `csv:"n"`
	P           int     `csv:"p"`
	K           int     `csv:"k"`
}

// WriteTemplateCSV writes a small example upload file.
func WriteTemplateCSV(w io.Writer) error {
	rows := []templateRow{
		{"1", 1, 25.5, 70.0, 7.0, 150.0, 80, 50, 40},
		{"2", 1, 26.0, 65.0, 6.9, 140.0, 85, 52, 42},
		{"3", 2, 24.5, 72.0, 7.1, 160.0, 75, 48, 38},
		{"4", 2, 25.2, 68.0, 7.0, 145.0, 82, 51, 41},
		{"5", 3, 27.1, 62.0, 6.8, 155.0, 88, 53, 43},
	}
	b, err := csvutil.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal template CSV: %w", err)
	}
	_, err = w.Write(b)
	return err
}
