// backend/scraper/csv_parser.go
package scraper

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jszwec/csvutil"
	log "github.com/sirupsen/logrus"
	"gopkg.in/guregu/null.v3"

	"github.com/smartagri/cropadvisor/backend/models"
	"github.com/smartagri/cropadvisor/backend/utils"
)

// RequiredColumns must be present (after normalization) in an uploaded CSV.
var RequiredColumns = []string{"temperature", "humidity", "ph", "rainfall", "n", "p", "k"}

// DefaultFarmID is used when the CSV has no farm_id column.
const DefaultFarmID = 1

var tsLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// MissingColumnsError lists required columns absent from the header.
type MissingColumnsError struct {
	Missing   []string
	Available []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s (available: %s)",
		strings.Join(e.Missing, ", "), strings.Join(e.Available, ", "))
}

// ParseReadingsCSV decodes an uploaded readings CSV. Header names are
// normalized first, so "Temp", "pH" and "Farm_ID" are all accepted. When
// the file has no sensor_id column rows are numbered from 1; when it has no
// farm_id column every row gets DefaultFarmID.
func ParseReadingsCSV(reader io.Reader) ([]models.ReadingIn, error) {
	r := csv.NewReader(reader)
	r.TrimLeadingSpace = true

	rawHeader, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("CSV file is empty")
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	header := make([]string, len(rawHeader))
	present := make(map[string]bool, len(rawHeader))
	for i, h := range rawHeader {
		header[i] = utils.NormalizeColumnName(strings.TrimPrefix(h, "\ufeff"))
		present[header[i]] = true
	}
	var missing []string
	for _, c := range RequiredColumns {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		available := append([]string(nil), header...)
		sort.Strings(available)
		return nil, &MissingColumnsError{Missing: missing, Available: available}
	}

	decoder, err := csvutil.NewDecoder(r, header...)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV decoder for readings: %w", err)
	}

	var rows []models.ReadingCSVRow
	if err := decoder.Decode(&rows); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode readings CSV data: %w", err)
	}

	readings := make([]models.ReadingIn, 0, len(rows))
	for i, row := range rows {
		in, err := toReadingIn(row)
		if err != nil {
			// Line 1 is the header.
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		if !present["sensor_id"] {
			in.SensorID = null.StringFrom(strconv.Itoa(i + 1))
		}
		if !present["farm_id"] {
			in.FarmID = null.IntFrom(DefaultFarmID)
		}
		readings = append(readings, in)
	}

	if unused := decoder.Unused(); len(unused) > 0 {
		log.Debugf("Scraper: ignored %d unknown CSV column(s)", len(unused))
	}
	log.Infof("Scraper: parsed %d readings from CSV", len(readings))
	return readings, nil
}

func toReadingIn(row models.ReadingCSVRow) (models.ReadingIn, error) {
	in := models.ReadingIn{
		Temperature: null.FloatFromPtr(row.Temperature),
		Humidity:    null.FloatFromPtr(row.Humidity),
		PH:          null.FloatFromPtr(row.PH),
		Rainfall:    null.FloatFromPtr(row.Rainfall),
		N:           roundedInt(row.N),
		P:           roundedInt(row.P),
		K:           roundedInt(row.K),
		FarmID:      null.IntFromPtr(row.FarmID),
	}
	if s := strings.TrimSpace(row.SensorID); s != "" {
		in.SensorID = null.StringFrom(s)
	}
	if s := strings.TrimSpace(row.Ts); s != "" {
		ts, err := parseTimestamp(s)
		if err != nil {
			return in, err
		}
		in.Ts = null.TimeFrom(ts)
	}
	return in, nil
}

func roundedInt(v *float64) null.Int {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return null.Int{}
	}
	return null.IntFrom(int64(math.Round(*v)))
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range tsLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
