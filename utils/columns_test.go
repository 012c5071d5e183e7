package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeColumnName(t *testing.T) {
	cases := map[string]string{
		"N":           "n",
		"pH":          "ph",
		"PH":          "ph",
		" Temp ":      "temperature",
		"temp_c":      "temperature",
		"Humid":       "humidity",
		"Rainfall":    "rainfall",
		"Precipit":    "rainfall",
		"NPK_K":       "k",
		"Potassium":   "k",
		"Farm ID":     "farm_id",
		"FarmID":      "farm_id",
		"Sensor_ID":   "sensor_id",
		"timestamp":   "ts",
		"soil_colour": "soil_colour",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeColumnName(in), in)
	}
}
