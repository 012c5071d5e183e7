// backend/handlers/data_handler.go
package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/smartagri/cropadvisor/backend/models"
)

// ListReadings handles GET /readings?farm_id=&limit=.
func (a *API) ListReadings(c echo.Context) error {
	farmID, err := queryInt(c, "farm_id")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	readings, err := a.Ingest.ListReadings(c.Request().Context(), farmID, valueOr(limit, 0))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, readings)
}

// ExportReadings handles GET /readings/export?farm_id=.
func (a *API) ExportReadings(c echo.Context) error {
	farmID, err := queryInt(c, "farm_id")
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := a.Ingest.ExportCSV(c.Request().Context(), &buf, farmID); err != nil {
		return err
	}
	return csvAttachment(c, exportFilename(time.Now()), buf.Bytes())
}

// Stats handles GET /data/stats.
func (a *API) Stats(c echo.Context) error {
	stats, err := a.Ingest.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (a *API) ListFarms(c echo.Context) error {
	farms, err := a.Farms.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, farms)
}

func (a *API) CreateFarm(c echo.Context) error {
	var req models.CreateFarmRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	farm, err := a.Farms.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, farm)
}

// Health handles GET /health.
func (a *API) Health(c echo.Context) error {
	if a.DB != nil {
		if err := a.DB.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "error",
				"error":  "database connection error: " + err.Error(),
			})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
