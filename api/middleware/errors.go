package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/laptopshop/api/responses"
	"github.com/angelmondragon/laptopshop/api/views"
	"github.com/angelmondragon/laptopshop/pkg/logger"
)

// ErrorPages renders an error as an HTML page.
type ErrorPages interface {
	Error(w http.ResponseWriter, r *http.Request, err error, page views.Page)
}

// WantsJSON reports whether the client expects the JSON envelope rather
// than an HTML page.
func WantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeError(w http.ResponseWriter, r *http.Request, logg *logger.Logger, pages ErrorPages, err error) {
	if pages == nil || WantsJSON(r) {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	pages.Error(w, r, err, views.Page{})
}
