package views

import (
	"errors"
	"html/template"
	"io"
	"io/fs"
	"math"
	"strconv"
	"time"

	"climate-server/internal/modules/climate/types"
)

var climateTmpl *template.Template

var funcs = template.FuncMap{
	"date":   types.FormatDate,
	"temp":   FormatTemperature,
	"round1": RoundTenth,
}

// loadTemplatesFromFS loads climate templates from the given fs and dir.
// Used by LoadTemplates and by tests to simulate failure scenarios.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	climateTmpl, err = template.New("climate").Funcs(funcs).ParseFS(sub, "*.html", "partials/*.html")
	if err != nil {
		return err
	}
	return nil
}

// LoadTemplates loads embedded templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

var errNotLoaded = errors.New("climate templates not loaded: call views.LoadTemplates during startup")

// IndexData is the view model for the index page. Earliest and Latest are
// only meaningful when HasData is set.
type IndexData struct {
	HasData        bool
	Earliest       time.Time
	Latest         time.Time
	BusiestStation string
}

func RenderIndex(w io.Writer, data *IndexData) error {
	if climateTmpl == nil {
		return errNotLoaded
	}
	return climateTmpl.ExecuteTemplate(w, "index.html", data)
}

func RenderStats(w io.Writer, stats *types.TemperatureStats) error {
	if climateTmpl == nil {
		return errNotLoaded
	}
	return climateTmpl.ExecuteTemplate(w, "stats.html", stats)
}

// Message is a user-facing explanation, optionally followed by a hint on a
// second line.
type Message struct {
	Headline string
	Hint     string
}

func RenderMessage(w io.Writer, msg *Message) error {
	if climateTmpl == nil {
		return errNotLoaded
	}
	return climateTmpl.ExecuteTemplate(w, "message.html", msg)
}

// FormatTemperature prints v with the shortest exact representation,
// keeping one decimal for whole numbers (62 prints as 62.0).
func FormatTemperature(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RoundTenth rounds v half away from zero to one decimal place.
func RoundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
