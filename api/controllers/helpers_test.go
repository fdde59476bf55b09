package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/laptopshop/api/middleware"
	"github.com/angelmondragon/laptopshop/api/views"
	authsvc "github.com/angelmondragon/laptopshop/internal/auth"
	cartsvc "github.com/angelmondragon/laptopshop/internal/cart"
	productsvc "github.com/angelmondragon/laptopshop/internal/products"
	"github.com/angelmondragon/laptopshop/internal/users"
	"github.com/angelmondragon/laptopshop/pkg/enums"
	pkgerrors "github.com/angelmondragon/laptopshop/pkg/errors"
)

func newTestPages(t *testing.T, carts CartCounter) Pages {
	t.Helper()
	renderer, err := views.New(nil)
	if err != nil {
		t.Fatalf("views: %v", err)
	}
	return Pages{Views: renderer, Carts: carts}
}

func signedIn(req *http.Request, userID uuid.UUID) *http.Request {
	return req.WithContext(middleware.WithCurrentUser(req.Context(), middleware.CurrentUser{
		ID:        userID,
		Email:     "buyer@example.com",
		Role:      enums.UserRoleUser,
		SessionID: "sess-1",
	}))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

type stubProductService struct {
	page     *productsvc.ProductPage
	products map[int64]productsvc.ProductDTO
	listErr  error
	lastList *productsvc.ListQuery
	getCalls int
}

func (s *stubProductService) ListProducts(ctx context.Context, query productsvc.ListQuery) (*productsvc.ProductPage, error) {
	s.lastList = &query
	if s.listErr != nil {
		return nil, s.listErr
	}
	if s.page != nil {
		return s.page, nil
	}
	return &productsvc.ProductPage{Products: []productsvc.ProductDTO{}, Page: query.Page.Page, PageSize: query.Page.PageSize}, nil
}

func (s *stubProductService) GetProduct(ctx context.Context, id int64) (*productsvc.ProductDTO, error) {
	s.getCalls++
	product, ok := s.products[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &product, nil
}

type addCall struct {
	userID    uuid.UUID
	productID int64
	quantity  int
}

type stubCartService struct {
	adds     []addCall
	removed  []int64
	view     *cartsvc.View
	count    int
	addErr   error
	countErr error
}

func (s *stubCartService) AddProduct(ctx context.Context, userID uuid.UUID, productID int64, quantity int) (*cartsvc.Summary, error) {
	if s.addErr != nil {
		return nil, s.addErr
	}
	s.adds = append(s.adds, addCall{userID: userID, productID: productID, quantity: quantity})
	s.count += quantity
	return &cartsvc.Summary{ItemCount: s.count}, nil
}

func (s *stubCartService) RemoveLine(ctx context.Context, userID uuid.UUID, productID int64) (*cartsvc.Summary, error) {
	s.removed = append(s.removed, productID)
	return &cartsvc.Summary{ItemCount: s.count}, nil
}

func (s *stubCartService) GetCart(ctx context.Context, userID uuid.UUID) (*cartsvc.View, error) {
	if s.view == nil {
		return &cartsvc.View{Lines: []cartsvc.LineDTO{}, TotalDisplay: "0 đ"}, nil
	}
	return s.view, nil
}

func (s *stubCartService) CountItems(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.count, s.countErr
}

type stubAuthService struct {
	loginResp   *authsvc.LoginResponse
	loginErr    error
	registerErr error
	registered  []authsvc.RegisterRequest
	loggedOut   []string
}

func (s *stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return s.loginResp, nil
}

func (s *stubAuthService) Register(ctx context.Context, req authsvc.RegisterRequest) (*users.UserDTO, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	s.registered = append(s.registered, req)
	return &users.UserDTO{ID: uuid.New(), Email: req.Email, FullName: req.FullName, Role: enums.UserRoleUser}, nil
}

func (s *stubAuthService) Logout(ctx context.Context, sessionID string) error {
	s.loggedOut = append(s.loggedOut, sessionID)
	return nil
}

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(ctx context.Context) error {
	return s.err
}

var errBoom = errors.New("boom")
