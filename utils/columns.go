// backend/utils/columns.go
package utils

import "strings"

var columnAliases = map[string]string{
	"temp":       "temperature",
	"temp_c":     "temperature",
	"humid":      "humidity",
	"rain":       "rainfall",
	"precipit":   "rainfall",
	"nitrogen":   "n",
	"npk_n":      "n",
	"phosphorus": "p",
	"npk_p":      "p",
	"potassium":  "k",
	"npk_k":      "k",
	"sensor":     "sensor_id",
	"sensorid":   "sensor_id",
	"farm":       "farm_id",
	"farmid":     "farm_id",
	"timestamp":  "ts",
	"time":       "ts",
}

// NormalizeColumnName maps a user supplied column or feature name
// (e.g., "Temp", "Farm ID", "NPK_N") onto the canonical lowercase name
// ("temperature", "farm_id", "n"). Unknown names are returned lowercased.
func NormalizeColumnName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	if canonical, ok := columnAliases[s]; ok {
		return canonical
	}
	return s
}
