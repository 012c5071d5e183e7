// backend/models/api_models.go
package models

import "gopkg.in/guregu/null.v3"

// PredictRequest is the body of POST /predict. A non-empty Features map
// wins over FarmID. SensorData is the older dashboard's name for Features.
type PredictRequest struct {
	FarmID     *int                   `json:"farm_id"`
	Features   map[string]interface{} `json:"features"`
	SensorData map[string]interface{} `json:"sensor_data,omitempty"`
	TopK       *int                   `json:"top_k"`
}

// CropPrediction is one ranked (crop, probability) pair.
type CropPrediction struct {
	Crop        string  `json:"crop"`
	Probability float64 `json:"probability"`
}

// ModelInfo describes which artifact produced a prediction.
type ModelInfo struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
	Path    string `json:"path,omitempty"`
	Source  string `json:"source"` // "active", "fallback" or "demo"
}

// PredictResponse is the body returned by POST /predict.
type PredictResponse struct {
	Predictions []CropPrediction `json:"predictions"`
	Source      string           `json:"source"`
}

// BatchPredictRequest is the body of POST /predict/batch. Each row uses the
// same keys as PredictRequest.Features.
type BatchPredictRequest struct {
	Readings []map[string]interface{} `json:"readings"`
	TopK     *int                     `json:"top_k"`
}

// BatchPrediction is the result for one successfully scored row. SensorID
// and FarmID echo the input row and are null when it had none.
type BatchPrediction struct {
	RowIndex    int              `json:"row_index"`
	SensorID    null.String      `json:"sensor_id"`
	FarmID      null.Int         `json:"farm_id"`
	Predictions []CropPrediction `json:"predictions"`
}

// BatchPredictResponse is the body returned by POST /predict/batch.
type BatchPredictResponse struct {
	Predictions      []BatchPrediction `json:"predictions"`
	ProcessedRows    int               `json:"processed_rows"`
	FailedRows       int               `json:"failed_rows"`
	ProcessingTimeMs int64             `json:"processing_time_ms"`
	Model            ModelInfo         `json:"model"`
}

// RegisterModelRequest is the body of POST /models/register.
type RegisterModelRequest struct {
	Name     string   `json:"name"`
	Path     string   `json:"path"`
	Version  *string  `json:"version"`
	Accuracy *float64 `json:"accuracy"`
	Metadata JSONObj  `json:"metadata"`
	Activate bool     `json:"activate"`
}

// BulkIngestRequest is the body of POST /ingest/bulk.
type BulkIngestRequest struct {
	Readings  []ReadingIn `json:"readings"`
	BatchSize int         `json:"batch_size"`
}

// BatchError records one failed ingest chunk.
type BatchError struct {
	BatchIndex int    `json:"batch_index"`
	Rows       int    `json:"rows"`
	Error      string `json:"error"`
}

// BulkIngestResponse reports the outcome of a chunked bulk insert.
type BulkIngestResponse struct {
	TotalRows        int          `json:"total_rows"`
	SuccessfulRows   int          `json:"successful_rows"`
	FailedRows       int          `json:"failed_rows"`
	Batches          int          `json:"batches"`
	Errors           []BatchError `json:"errors"`
	ProcessingTimeMs int64        `json:"processing_time_ms"`
}

// IngestResponse is returned by POST /ingest.
type IngestResponse struct {
	ID int64  `json:"id"`
	Ts string `json:"ts"`
}

// CreateFarmRequest is the body of POST /farms.
type CreateFarmRequest struct {
	Name     string  `json:"name"`
	Location *string `json:"location"`
}
