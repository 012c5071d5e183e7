// backend/handlers/params.go
package handlers

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// queryInt parses an optional integer query parameter.
func queryInt(c echo.Context, name string) (*int, error) {
	return parseOptionalInt(name, c.QueryParam(name))
}

func formInt(c echo.Context, name string) (*int, error) {
	return parseOptionalInt(name, c.FormValue(name))
}

func parseOptionalInt(name, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, badRequest("%s must be an integer, got %q", name, raw)
	}
	return &n, nil
}

func valueOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
