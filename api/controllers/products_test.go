package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	productsvc "github.com/angelmondragon/laptopshop/internal/products"
	pkgerrors "github.com/angelmondragon/laptopshop/pkg/errors"
	"github.com/angelmondragon/laptopshop/pkg/pagination"
)

var testLimits = pagination.Limits{DefaultPageSize: 6, MaxPageSize: 60}

func TestHomePageListsFirstPage(t *testing.T) {
	svc := &stubProductService{page: &productsvc.ProductPage{
		Products:   []productsvc.ProductDTO{{ID: 1, Name: "ASUS TUF Gaming F15", PriceDisplay: "17.490.000 đ"}},
		Page:       1,
		PageSize:   6,
		TotalCount: 1,
		TotalPages: 1,
	}}
	rec := httptest.NewRecorder()
	HomePage(svc, newTestPages(t, nil), testLimits).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ASUS TUF Gaming F15") {
		t.Fatalf("expected product in body: %s", rec.Body.String())
	}
	if svc.lastList == nil || svc.lastList.Page != (pagination.PageRequest{Page: 1, PageSize: 6}) {
		t.Fatalf("expected first default page, got %+v", svc.lastList)
	}
	if !svc.lastList.Criteria.IsEmpty() {
		t.Fatal("home page must not filter")
	}
}

func TestProductListPageParsesFiltersAndEchoesThem(t *testing.T) {
	svc := &stubProductService{page: &productsvc.ProductPage{
		Products:   []productsvc.ProductDTO{{ID: 7, Name: "ROG Strix", PriceDisplay: "32.990.000 đ"}},
		Page:       2,
		PageSize:   2,
		TotalCount: 5,
		TotalPages: 3,
	}}
	req := httptest.NewRequest(http.MethodGet, "/products?factory=ASUS&price=10-15-trieu,tren-20-trieu&sort=gia-giam-dan&page=2&pageSize=2", nil)
	rec := httptest.NewRecorder()
	ProductListPage(svc, newTestPages(t, nil), testLimits).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	query := svc.lastList
	if query == nil {
		t.Fatal("service not called")
	}
	if got := query.Criteria.Factories(); len(got) != 1 || got[0] != "ASUS" {
		t.Fatalf("unexpected factories %v", got)
	}
	if got := strings.Join(query.Criteria.PriceTokens(), ","); got != "10-15-trieu,tren-20-trieu" {
		t.Fatalf("unexpected prices %s", got)
	}
	if query.Criteria.Sort() != productsvc.SortPriceDesc {
		t.Fatalf("unexpected sort %v", query.Criteria.Sort())
	}
	if query.Page != (pagination.PageRequest{Page: 2, PageSize: 2}) {
		t.Fatalf("unexpected page %+v", query.Page)
	}

	body := rec.Body.String()
	for _, want := range []string{
		`value="ASUS" checked`,
		`value="tren-20-trieu" checked`,
		`value="gia-giam-dan" checked`,
		`rel="prev"`,
		`rel="next"`,
		"<strong>2</strong>",
		"ROG Strix",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in body", want)
		}
	}
	if strings.Contains(body, `value="DELL" checked`) {
		t.Fatal("unselected factory rendered as checked")
	}
}

func TestProductListPageIgnoresUnknownTokens(t *testing.T) {
	svc := &stubProductService{}
	req := httptest.NewRequest(http.MethodGet, "/products?price=bogus&sort=random&page=-4", nil)
	rec := httptest.NewRecorder()
	ProductListPage(svc, newTestPages(t, nil), testLimits).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !svc.lastList.Criteria.IsEmpty() {
		t.Fatal("unknown tokens must not constrain the listing")
	}
	if svc.lastList.Page.Page != 1 {
		t.Fatalf("expected page fallback to 1, got %d", svc.lastList.Page.Page)
	}
}

func TestProductListPageServiceFailure(t *testing.T) {
	svc := &stubProductService{listErr: pkgerrors.Wrap(pkgerrors.CodeDependency, errBoom, "list products")}
	rec := httptest.NewRecorder()
	ProductListPage(svc, newTestPages(t, nil), testLimits).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "boom") {
		t.Fatal("internal error text leaked to page")
	}
}

func TestProductDetailPage(t *testing.T) {
	svc := &stubProductService{products: map[int64]productsvc.ProductDTO{
		3: {ID: 3, Name: "MacBook Air M2", PriceDisplay: "24.990.000 đ"},
	}}
	handler := ProductDetailPage(svc, newTestPages(t, nil))

	t.Run("found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/product/3", nil), "id", "3"))
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "MacBook Air M2") {
			t.Fatalf("expected detail page, got %d", rec.Code)
		}
	})

	t.Run("missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/product/99", nil), "id", "99"))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		before := svc.getCalls
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/product/abc", nil), "id", "abc"))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if svc.getCalls != before {
			t.Fatal("service must not be called for a malformed id")
		}
	})
}

func TestAPIListProductsWritesEnvelope(t *testing.T) {
	svc := &stubProductService{page: &productsvc.ProductPage{
		Products:   []productsvc.ProductDTO{{ID: 1, Name: "Dell XPS 13", Price: 29990000}},
		Page:       1,
		PageSize:   10,
		TotalCount: 1,
		TotalPages: 1,
	}}
	rec := httptest.NewRecorder()
	APIListProducts(svc, testLimits, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products?pageSize=10", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload struct {
		Data productsvc.ProductPage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Data.TotalCount != 1 || len(payload.Data.Products) != 1 || payload.Data.Products[0].Name != "Dell XPS 13" {
		t.Fatalf("unexpected payload %+v", payload.Data)
	}
}

func TestAPIGetProductNotFound(t *testing.T) {
	svc := &stubProductService{}
	rec := httptest.NewRecorder()
	APIGetProduct(svc, nil).ServeHTTP(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/products/5", nil), "id", "5"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeNotFound) {
		t.Fatalf("unexpected code %s", payload.Error.Code)
	}
}

func TestNewListingViewWindowsPageLinks(t *testing.T) {
	query, _ := productsvc.ParseListQuery(nil, testLimits)
	view := newListingView(query, &productsvc.ProductPage{Page: 5, PageSize: 6, TotalPages: 9})

	if len(view.PageLinks) != 5 || view.PageLinks[0].Number != 3 || view.PageLinks[4].Number != 7 {
		t.Fatalf("unexpected links %+v", view.PageLinks)
	}
	if !view.PageLinks[2].Current {
		t.Fatal("middle link should be current")
	}
	if view.PrevURL != "/products?page=4&pageSize=6" {
		t.Fatalf("unexpected prev url %s", view.PrevURL)
	}
	if !view.Sorts[0].Checked {
		t.Fatal("default sort should be checked")
	}
}
