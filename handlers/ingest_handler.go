// backend/handlers/ingest_handler.go
package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/smartagri/cropadvisor/backend/models"
	"github.com/smartagri/cropadvisor/backend/scraper"
)

// IngestReading handles POST /ingest.
func (a *API) IngestReading(c echo.Context) error {
	var in models.ReadingIn
	if err := c.Bind(&in); err != nil {
		return err
	}
	resp, err := a.Ingest.Ingest(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// BulkIngest handles POST /ingest/bulk.
// Body: {"readings": [...], "batch_size"?: int}
func (a *API) BulkIngest(c echo.Context) error {
	var req models.BulkIngestRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	resp, err := a.Ingest.BulkIngest(c.Request().Context(), req.Readings, req.BatchSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// ImportCSV handles POST /ingest/csv as multipart/form-data with a "file"
// part and optional "batch_size" and "farm_id" fields.
func (a *API) ImportCSV(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest("multipart field 'file' is required")
	}
	batchSize, err := formInt(c, "batch_size")
	if err != nil {
		return err
	}
	farmID, err := formInt(c, "farm_id")
	if err != nil {
		return err
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer f.Close()

	log.Infof("Handler: importing CSV %s (%d bytes)", fh.Filename, fh.Size)
	resp, err := a.Ingest.ImportCSV(c.Request().Context(), f, valueOr(batchSize, 0), farmID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// CSVTemplate handles GET /ingest/template.
func (a *API) CSVTemplate(c echo.Context) error {
	var buf bytes.Buffer
	if err := scraper.WriteTemplateCSV(&buf); err != nil {
		return err
	}
	return csvAttachment(c, "sensor_data_template.csv", buf.Bytes())
}

func csvAttachment(c echo.Context, filename string, body []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", body)
}

func exportFilename(now time.Time) string {
	return fmt.Sprintf("readings_%s.csv", now.Format("20060102_150405"))
}
