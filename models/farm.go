// backend/models/farm.go
package models

import "gopkg.in/guregu/null.v3"

// Farm groups readings. Readings reference farms by id only.
type Farm struct {
	ID       int         `db:"id" json:"id"`
	Name     string      `db:"name" json:"name"`
	Location null.String `db:"location" json:"location"`
}
