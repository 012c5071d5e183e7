// backend/models/model_record.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/guregu/null.v3"
)

// ModelRecord is a row of the model registry. At most one row is active.
type ModelRecord struct {
	ID        int         `db:"id" json:"id"`
	Name      string      `db:"name" json:"name"`
	Path      string      `db:"path" json:"path"`
	Version   null.String `db:"version" json:"version"`
	Accuracy  null.Float  `db:"accuracy" json:"accuracy"`
	Metadata  JSONObj     `db:"metadata" json:"metadata"`
	Active    bool        `db:"active" json:"active"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}

// JSONObj is a JSON object stored in a JSON column.
type JSONObj map[string]interface{}

// Value marshals the object, or NULL for a nil map.
func (j JSONObj) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	bytes, err := json.Marshal(j)
	if err != nil {
		return nil, errors.Wrap(err, "error marshaling JSONObj")
	}
	return bytes, nil
}

// Scan unmarshals a JSON column into the map.
func (j *JSONObj) Scan(src interface{}) error {
	var bytes []byte
	switch v := src.(type) {
	case nil:
		*j = nil
		return nil
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.Errorf("unable to convert to []byte: %v", src)
	}
	obj := make(map[string]interface{})
	if err := json.Unmarshal(bytes, &obj); err != nil {
		return errors.Wrapf(err, "unable to unmarshal JSONObj: %s", bytes)
	}
	*j = obj
	return nil
}
