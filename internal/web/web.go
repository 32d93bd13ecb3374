// Package web renders the Coming Soon page and serves its static assets.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"golperbox/internal/landing"
	"golperbox/internal/models"
)

const PageTemplate = "landing.html.tmpl"

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

var units = []string{"days", "hours", "minutes", "seconds"}

type CountdownUnit struct {
	Label string
	Value int64
}

// Page is everything the landing template needs.
type Page struct {
	Brand        string
	FacebookURL  string
	InstagramURL string
	Year         int
	Email        string
	Phone        string
	Countdown    []CountdownUnit
	Launched     bool
	Notices      []models.Notice
}

type Site struct {
	Brand        string
	FacebookURL  string
	InstagramURL string
}

func NewPage(site Site, view landing.View, notices []models.Notice, year int) Page {
	return Page{
		Brand:        site.Brand,
		FacebookURL:  site.FacebookURL,
		InstagramURL: site.InstagramURL,
		Year:         year,
		Email:        view.Email,
		Phone:        view.Phone,
		Countdown:    Units(view.TimeLeft),
		Launched:     view.Launched,
		Notices:      notices,
	}
}

func Units(state models.CountdownState) []CountdownUnit {
	values := []int64{state.Days, state.Hours, state.Minutes, state.Seconds}
	out := make([]CountdownUnit, len(units))
	for i, label := range units {
		out[i] = CountdownUnit{Label: label, Value: values[i]}
	}
	return out
}

func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))
}

func Assets() http.FileSystem {
	sub, err := fs.Sub(assetFS, "assets")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
