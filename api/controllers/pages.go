package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/laptopshop/api/middleware"
	"github.com/angelmondragon/laptopshop/api/views"
	"github.com/angelmondragon/laptopshop/pkg/logger"
)

const (
	homePath  = "/"
	loginPath = "/login"
	cartPath  = "/cart"
)

// PageRenderer renders storefront pages.
type PageRenderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, name string, page views.Page)
	Error(w http.ResponseWriter, r *http.Request, err error, page views.Page)
}

// CartCounter feeds the header badge.
type CartCounter interface {
	CountItems(ctx context.Context, userID uuid.UUID) (int, error)
}

// Pages bundles what every HTML controller needs to fill the shared layout.
type Pages struct {
	Views  PageRenderer
	Carts  CartCounter
	Logger *logger.Logger
}

// base returns the layout data for the current visitor. A failing badge
// count is logged and shown as zero rather than failing the page.
func (p Pages) base(r *http.Request, title string) views.Page {
	page := views.Page{Title: title}
	user, ok := middleware.CurrentUserFromContext(r.Context())
	if !ok {
		return page
	}
	page.User = &views.Viewer{Email: user.Email}
	if p.Carts == nil {
		return page
	}
	count, err := p.Carts.CountItems(r.Context(), user.ID)
	if err != nil {
		if p.Logger != nil {
			p.Logger.Error(r.Context(), "cart.count_failed", err)
		}
		return page
	}
	page.CartCount = count
	return page
}

func (p Pages) render(w http.ResponseWriter, r *http.Request, status int, name string, page views.Page) {
	p.Views.Render(w, r, status, name, page)
}

func (p Pages) fail(w http.ResponseWriter, r *http.Request, err error) {
	p.Views.Error(w, r, err, p.base(r, ""))
}
