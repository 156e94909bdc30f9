package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"slices"

	"github.com/2beens/fitnessdash/pkg"

	log "github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Page string

const (
	PageAnalysis Page = "analysis.html"
	PageBMI      Page = "bmi.html"
	PageError    Page = "error.html"
)

var pages = []Page{PageAnalysis, PageBMI, PageError}

const layoutTemplate = "templates/layout.html"

var funcs = template.FuncMap{
	"contains": slices.Contains[[]string, string],
}

// Renderer executes the embedded html pages, each within the shared layout.
type Renderer struct {
	pages map[Page]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{
		pages: make(map[Page]*template.Template, len(pages)),
	}
	for _, page := range pages {
		tmpl, err := template.New(string(page)).
			Funcs(funcs).
			ParseFS(templatesFS, layoutTemplate, "templates/"+string(page))
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", page, err)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

type pageView struct {
	Page Page
	Data any
}

// Render executes the page into a buffer first, so a template error never
// leaves a half written response behind.
func (r *Renderer) Render(w http.ResponseWriter, status int, page Page, data any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page: %s", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", pageView{Page: page, Data: data}); err != nil {
		return fmt.Errorf("execute page %s: %w", page, err)
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.HTML, buf.Bytes(), status)
	return nil
}

type ErrorData struct {
	Message string
}

// RenderError shows a user visible error page, falling back to plain text if
// even that fails.
func (r *Renderer) RenderError(w http.ResponseWriter, status int, message string) {
	if err := r.Render(w, status, PageError, ErrorData{Message: message}); err != nil {
		log.Errorf("render error page: %s", err)
		http.Error(w, message, status)
	}
}
