// backend/handlers/admin_handler.go
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/smartagri/cropadvisor/backend/models"
)

// RegisterModel handles POST /models/register.
// Body: {"name", "path", "version"?, "accuracy"?, "metadata"?, "activate"?}
func (a *API) RegisterModel(c echo.Context) error {
	var req models.RegisterModelRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	rec, err := a.Registry.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}
	log.Infof("Handler: registered model %d (%s, active=%t)", rec.ID, rec.Path, rec.Active)
	return c.JSON(http.StatusCreated, rec)
}

// ActiveModel handles GET /models/active. 404 when nothing is active.
func (a *API) ActiveModel(c echo.Context) error {
	rec, err := a.Registry.GetActive(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

// ListModels handles GET /models?limit=N.
func (a *API) ListModels(c echo.Context) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	recs, err := a.Registry.List(c.Request().Context(), valueOr(limit, 0))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, recs)
}
