package view

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// RenderAuth writes the login or signup page.
func RenderAuth(w io.Writer, f AuthForm) error {
	return pages.ExecuteTemplate(w, string(f.Page()), f)
}

// RenderDashboard writes the dashboard page.
func RenderDashboard(w io.Writer, d Dashboard) error {
	return pages.ExecuteTemplate(w, string(PageDashboard), d)
}
