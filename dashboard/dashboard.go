// backend/dashboard/dashboard.go
package dashboard

import (
	"embed"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"
	"gopkg.in/guregu/null.v3"

	"github.com/smartagri/cropadvisor/backend/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var page = template.Must(
	template.New("index.html").
		Funcs(sprig.FuncMap()).
		Funcs(template.FuncMap{"fmtOptFloat": fmtOptFloat}).
		ParseFS(templateFS, "templates/index.html"),
)

// Data is everything the overview page shows.
type Data struct {
	Stats       models.ReadingStats
	Active      *models.ModelRecord
	Models      []models.ModelRecord
	Readings    []models.Reading
	GeneratedAt time.Time
}

// Render writes the overview page to w.
func Render(w io.Writer, d Data) error {
	if d.GeneratedAt.IsZero() {
		d.GeneratedAt = time.Now()
	}
	if err := page.Execute(w, d); err != nil {
		return errors.Wrap(err, "render dashboard")
	}
	return nil
}

func fmtOptFloat(f null.Float) string {
	if !f.Valid {
		return "-"
	}
	return strconv.FormatFloat(f.Float64, 'f', -1, 64)
}
