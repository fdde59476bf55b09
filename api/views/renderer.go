// Package views renders the storefront HTML pages.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/angelmondragon/laptopshop/api/responses"
	"github.com/angelmondragon/laptopshop/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Page names.
const (
	PageHome     = "home"
	PageProducts = "products"
	PageDetail   = "detail"
	PageCart     = "cart"
	PageLogin    = "login"
	PageRegister = "register"
	PageError    = "error"
)

// Viewer is the signed-in user shown in the header.
type Viewer struct {
	Email string
}

// Page is the data every template receives.
type Page struct {
	Title     string
	User      *Viewer
	CartCount int
	Flash     string
	Form      map[string]string
	Errors    map[string]string
	Data      any
}

// ErrorView is the body of the error page.
type ErrorView struct {
	Status    int
	Message   string
	RequestID string
}

// requestIDHeader is set on the response by the request id middleware before
// any handler runs.
const requestIDHeader = "X-Request-Id"

// Renderer executes the page templates against the shared layout.
type Renderer struct {
	pages map[string]*template.Template
	logg  *logger.Logger
}

// New parses every page template once at startup.
func New(logg *logger.Logger) (*Renderer, error) {
	entries, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(entries))
	for _, entry := range entries {
		if entry == layoutFile {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(entry, "templates/"), ".html")
		tmpl, err := template.New(name).ParseFS(templateFS, layoutFile, entry)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages, logg: logg}, nil
}

// Render writes the named page with the given status. The page is executed
// into a buffer first so a template failure never leaves a half-written body.
func (v *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, page Page) {
	tmpl, ok := v.pages[name]
	if !ok {
		v.fail(w, r, fmt.Errorf("unknown page %q", name))
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		v.fail(w, r, fmt.Errorf("render %s: %w", name, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Error renders the error page for err using its mapped status.
func (v *Renderer) Error(w http.ResponseWriter, r *http.Request, err error, page Page) {
	typed, meta, msg := responses.Resolve(err)
	responses.LogError(r.Context(), v.logg, typed)

	page.Title = meta.PageTitle
	page.Data = ErrorView{
		Status:    meta.HTTPStatus,
		Message:   msg,
		RequestID: w.Header().Get(requestIDHeader),
	}
	v.Render(w, r, meta.HTTPStatus, PageError, page)
}

func (v *Renderer) fail(w http.ResponseWriter, r *http.Request, err error) {
	if v.logg != nil {
		v.logg.Error(r.Context(), "view.render_failed", err)
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
