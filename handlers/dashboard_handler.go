// backend/handlers/dashboard_handler.go
package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/smartagri/cropadvisor/backend/dashboard"
	"github.com/smartagri/cropadvisor/backend/services"
)

const dashboardRecentReadings = 20

// Dashboard handles GET / with a server-rendered overview page.
func (a *API) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	data := dashboard.Data{GeneratedAt: time.Now()}

	stats, err := a.Ingest.Stats(ctx)
	if err != nil {
		return err
	}
	data.Stats = stats

	active, err := a.Registry.GetActive(ctx)
	switch {
	case err == nil:
		data.Active = &active
	case !errors.Is(err, services.ErrNotFound):
		return err
	}

	if data.Models, err = a.Registry.List(ctx, 0); err != nil {
		return err
	}
	if data.Readings, err = a.Ingest.ListReadings(ctx, nil, dashboardRecentReadings); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := dashboard.Render(&buf, data); err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}
