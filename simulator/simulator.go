// backend/simulator/simulator.go
package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/guregu/null.v3"

	"github.com/smartagri/cropadvisor/backend/config"
	"github.com/smartagri/cropadvisor/backend/models"
)

// Simulator posts random sensor readings to the ingest endpoint, one per
// interval, as a single fake sensor.
type Simulator struct {
	apiURL   string
	interval time.Duration
	count    int
	sensorID string
	client   *http.Client
	rng      *rand.Rand
	now      func() time.Time
}

// Result counts what a run sent.
type Result struct {
	Sent   int
	Failed int
}

func New(cfg config.SimulatorConfig) *Simulator {
	return &Simulator{
		apiURL:   cfg.APIURL,
		interval: cfg.Interval,
		count:    cfg.Count,
		sensorID: uuid.New().String()[:8],
		client:   &http.Client{Timeout: 5 * time.Second},
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SensorID is the id every generated reading carries.
func (s *Simulator) SensorID() string { return s.sensorID }

// Reading generates one random reading.
func (s *Simulator) Reading() models.ReadingIn {
	return models.ReadingIn{
		SensorID:    null.StringFrom(s.sensorID),
		FarmID:      null.IntFrom(int64(1 + s.rng.Intn(5))),
		Ts:          null.TimeFrom(s.now()),
		Temperature: null.FloatFrom(s.uniform(10, 35)),
		Humidity:    null.FloatFrom(s.uniform(20, 90)),
		PH:          null.FloatFrom(s.uniform(4.5, 8.5)),
		Rainfall:    null.FloatFrom(s.uniform(0, 200)),
		N:           null.IntFrom(int64(s.rng.Intn(141))),
		P:           null.IntFrom(int64(s.rng.Intn(141))),
		K:           null.IntFrom(int64(s.rng.Intn(141))),
	}
}

func (s *Simulator) uniform(lo, hi float64) float64 {
	return math.Round((lo+s.rng.Float64()*(hi-lo))*100) / 100
}

// Run sends readings until count is reached (forever when count is 0) or
// ctx is done. A failed post is logged and does not stop the run.
func (s *Simulator) Run(ctx context.Context) (Result, error) {
	var res Result
	log.Infof("Simulator: sensor %s posting to %s every %s", s.sensorID, s.apiURL, s.interval)

	for i := 0; s.count == 0 || i < s.count; i++ {
		reading := s.Reading()
		status, err := s.send(ctx, reading)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			res.Failed++
			log.WithError(err).Warn("Simulator: failed to send reading")
		} else {
			res.Sent++
			log.WithFields(log.Fields{
				"farm_id": reading.FarmID.Int64,
				"status":  status,
			}).Info("Simulator: sent reading")
		}

		if s.count != 0 && i == s.count-1 {
			break
		}
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		case <-time.After(s.interval):
		}
	}
	return res, nil
}

func (s *Simulator) send(ctx context.Context, reading models.ReadingIn) (int, error) {
	body, err := json.Marshal(reading)
	if err != nil {
		return 0, errors.Wrap(err, "encode reading")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return 0, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, errors.Wrapf(err, "post %s", s.apiURL)
	}
	defer resp.Body.Close()
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("ingest returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return resp.StatusCode, nil
}
