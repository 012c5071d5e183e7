// backend/handlers/prediction_handler.go
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartagri/cropadvisor/backend/models"
)

// Predict handles POST /predict.
// Body: {"farm_id"?: int, "features"?: {...}, "top_k"?: int}
func (a *API) Predict(c echo.Context) error {
	var req models.PredictRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	resp, err := a.Predictor.PredictSingle(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// PredictBatch handles POST /predict/batch.
// Body: {"readings": [{...}, ...], "top_k"?: int}
func (a *API) PredictBatch(c echo.Context) error {
	var req models.BatchPredictRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	resp, err := a.Predictor.PredictBatch(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}
