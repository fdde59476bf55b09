package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/laptopshop/api/responses"
	"github.com/angelmondragon/laptopshop/api/validators"
	"github.com/angelmondragon/laptopshop/api/views"
	productsvc "github.com/angelmondragon/laptopshop/internal/products"
	"github.com/angelmondragon/laptopshop/pkg/enums"
	"github.com/angelmondragon/laptopshop/pkg/logger"
	"github.com/angelmondragon/laptopshop/pkg/pagination"
)

const (
	productsPath   = "/products"
	pageLinkRadius = 2
)

type homeView struct {
	Products []productsvc.ProductDTO
}

type filterOption struct {
	Value   string
	Label   string
	Checked bool
}

type pageLink struct {
	Number  int
	URL     string
	Current bool
}

type listingView struct {
	Factories []filterOption
	Targets   []filterOption
	Prices    []filterOption
	Sorts     []filterOption
	Page      *productsvc.ProductPage
	PrevURL   string
	NextURL   string
	PageLinks []pageLink
}

// HomePage shows the first page of the unfiltered catalog.
func HomePage(svc productsvc.Service, pages Pages, limits pagination.Limits) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := productsvc.ListQuery{Page: pagination.NewPageRequest(1, limits.DefaultPageSize, limits)}
		result, err := svc.ListProducts(r.Context(), query)
		if err != nil {
			pages.fail(w, r, err)
			return
		}

		page := pages.base(r, "Trang chủ")
		page.Data = homeView{Products: result.Products}
		pages.render(w, r, http.StatusOK, views.PageHome, page)
	}
}

// ProductListPage renders the filtered, paginated listing with the active
// filters echoed back into the form.
func ProductListPage(svc productsvc.Service, pages Pages, limits pagination.Limits) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, rejected := productsvc.ParseListQuery(r.URL.Query(), limits)
		logRejected(r, pages.Logger, rejected)

		result, err := svc.ListProducts(r.Context(), query)
		if err != nil {
			pages.fail(w, r, err)
			return
		}

		page := pages.base(r, "Sản phẩm")
		page.Data = newListingView(query, result)
		pages.render(w, r, http.StatusOK, views.PageProducts, page)
	}
}

// ProductDetailPage renders one product. Unknown and malformed ids are 404.
func ProductDetailPage(svc productsvc.Service, pages Pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseID(chi.URLParam(r, "id"), "product")
		if err != nil {
			pages.fail(w, r, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			pages.fail(w, r, err)
			return
		}

		page := pages.base(r, product.Name)
		page.Data = product
		pages.render(w, r, http.StatusOK, views.PageDetail, page)
	}
}

// APIListProducts is the JSON mirror of the listing page.
func APIListProducts(svc productsvc.Service, limits pagination.Limits, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, rejected := productsvc.ParseListQuery(r.URL.Query(), limits)
		logRejected(r, logg, rejected)

		result, err := svc.ListProducts(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// APIGetProduct returns a single product as JSON.
func APIGetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseID(chi.URLParam(r, "id"), "product")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func logRejected(r *http.Request, logg *logger.Logger, rejected []error) {
	if logg == nil || len(rejected) == 0 {
		return
	}
	reasons := make([]string, 0, len(rejected))
	for _, err := range rejected {
		reasons = append(reasons, err.Error())
	}
	ctx := logg.WithFields(r.Context(), map[string]any{"rejected": reasons})
	logg.Warn(ctx, "catalog.query_tokens_ignored")
}

func newListingView(query productsvc.ListQuery, result *productsvc.ProductPage) listingView {
	criteria := query.Criteria
	view := listingView{Page: result}

	for _, f := range enums.ProductFactories() {
		view.Factories = append(view.Factories, filterOption{Value: f.String(), Label: f.Label(), Checked: criteria.HasFactory(f.String())})
	}
	for _, t := range enums.ProductTargets() {
		view.Targets = append(view.Targets, filterOption{Value: t.String(), Label: t.Label(), Checked: criteria.HasTarget(t.String())})
	}
	for _, b := range productsvc.PriceBuckets() {
		view.Prices = append(view.Prices, filterOption{Value: b.String(), Label: b.Label(), Checked: criteria.HasPrice(b.String())})
	}
	active := criteria.Sort().Token()
	view.Sorts = []filterOption{
		{Value: "", Label: "Mặc định", Checked: active == ""},
		{Value: productsvc.SortTokenPriceAsc, Label: "Giá tăng dần", Checked: active == productsvc.SortTokenPriceAsc},
		{Value: productsvc.SortTokenPriceDesc, Label: "Giá giảm dần", Checked: active == productsvc.SortTokenPriceDesc},
	}

	pageURL := func(n int) string {
		return productsPath + "?" + query.Values(n).Encode()
	}
	if result.HasPrev() {
		view.PrevURL = pageURL(result.Page - 1)
	}
	if result.HasNext() {
		view.NextURL = pageURL(result.Page + 1)
	}

	first := max(1, result.Page-pageLinkRadius)
	last := min(result.TotalPages, result.Page+pageLinkRadius)
	for n := first; n <= last; n++ {
		view.PageLinks = append(view.PageLinks, pageLink{Number: n, URL: pageURL(n), Current: n == result.Page})
	}
	return view
}
