package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/laptopshop/api/middleware"
	"github.com/angelmondragon/laptopshop/api/validators"
	"github.com/angelmondragon/laptopshop/api/views"
	cartsvc "github.com/angelmondragon/laptopshop/internal/cart"
)

type addToCartForm struct {
	Quantity int `form:"quantity" validate:"min=1,max=99"`
}

// CartPage lists the signed-in user's cart.
func CartPage(svc cartsvc.Service, pages Pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.CurrentUserFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, loginPath, http.StatusFound)
			return
		}

		cart, err := svc.GetCart(r.Context(), user.ID)
		if err != nil {
			pages.fail(w, r, err)
			return
		}

		page := pages.base(r, "Giỏ hàng")
		page.CartCount = cart.ItemCount
		page.Data = cart
		pages.render(w, r, http.StatusOK, views.PageCart, page)
	}
}

// AddProductToCart adds the product to the visitor's cart and returns to the
// home page. Anonymous visitors are sent to the login page and nothing is
// written.
func AddProductToCart(svc cartsvc.Service, pages Pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.CurrentUserFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, loginPath, http.StatusFound)
			return
		}

		productID, err := validators.ParseID(chi.URLParam(r, "id"), "product")
		if err != nil {
			pages.fail(w, r, err)
			return
		}

		form := addToCartForm{Quantity: 1}
		if err := validators.DecodeForm(r, &form); err != nil {
			pages.fail(w, r, err)
			return
		}

		if _, err := svc.AddProduct(r.Context(), user.ID, productID, form.Quantity); err != nil {
			pages.fail(w, r, err)
			return
		}
		http.Redirect(w, r, homePath, http.StatusFound)
	}
}

// RemoveCartLine drops a product from the cart and returns to the cart page.
func RemoveCartLine(svc cartsvc.Service, pages Pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.CurrentUserFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, loginPath, http.StatusFound)
			return
		}

		productID, err := validators.ParseID(chi.URLParam(r, "productId"), "product")
		if err != nil {
			pages.fail(w, r, err)
			return
		}

		if _, err := svc.RemoveLine(r.Context(), user.ID, productID); err != nil {
			pages.fail(w, r, err)
			return
		}
		http.Redirect(w, r, cartPath, http.StatusFound)
	}
}
