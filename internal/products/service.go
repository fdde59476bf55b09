package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/angelmondragon/laptopshop/pkg/errors"
	"github.com/angelmondragon/laptopshop/pkg/pagination"
)

// Service exposes the storefront catalog reads.
type Service interface {
	ListProducts(ctx context.Context, query ListQuery) (*ProductPage, error)
	GetProduct(ctx context.Context, id int64) (*ProductDTO, error)
}

type catalogMetrics interface {
	ObserveCatalogQuery(operation string, err error, duration time.Duration)
	IncEmptyPage()
}

type noopMetrics struct{}

func (noopMetrics) ObserveCatalogQuery(string, error, time.Duration) {}
func (noopMetrics) IncEmptyPage()                                    {}

type service struct {
	store   Store
	metrics catalogMetrics
	now     func() time.Time
}

// NewService constructs the catalog service. metrics may be nil.
func NewService(store Store, metrics catalogMetrics) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("product store required")
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &service{store: store, metrics: metrics, now: time.Now}, nil
}

// ListProducts runs the filtered, sorted, paginated listing. A page past the
// end yields an empty product list with the real page count.
func (s *service) ListProducts(ctx context.Context, query ListQuery) (_ *ProductPage, err error) {
	started := s.now()
	defer func() { s.metrics.ObserveCatalogQuery("list", err, s.now().Sub(started)) }()

	page := query.Page
	if page.Page < 1 || page.PageSize < 1 {
		page = pagination.NewPageRequest(page.Page, page.PageSize, pagination.DefaultLimits())
	}

	rows, count, err := s.store.ListPage(ctx, BuildCondition(query.Criteria), BuildOrder(query.Criteria.Sort()), page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	result := &ProductPage{
		Products:   make([]ProductDTO, 0, len(rows)),
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalCount: count,
		TotalPages: pagination.TotalPages(count, page.PageSize),
	}
	for i := range rows {
		result.Products = append(result.Products, FromModel(&rows[i]))
	}
	if len(rows) == 0 && count > 0 {
		s.metrics.IncEmptyPage()
	}
	return result, nil
}

// GetProduct loads one product for the detail page.
func (s *service) GetProduct(ctx context.Context, id int64) (_ *ProductDTO, err error) {
	started := s.now()
	defer func() { s.metrics.ObserveCatalogQuery("get", err, s.now().Sub(started)) }()

	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	product, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	dto := FromModel(product)
	return &dto, nil
}
