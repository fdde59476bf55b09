package product

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/angelmondragon/laptopshop/pkg/pagination"
)

const (
	ParamFactory  = "factory"
	ParamTarget   = "target"
	ParamPrice    = "price"
	ParamSort     = "sort"
	ParamMinPrice = "minPrice"
	ParamMaxPrice = "maxPrice"
	ParamPage     = "page"
	ParamPageSize = "pageSize"
)

// ListQuery is a parsed listing request.
type ListQuery struct {
	Criteria FilterCriteria
	Page     pagination.PageRequest
}

// ParseListQuery reads the listing parameters from a query string. It never
// fails: unusable tokens are dropped and returned as rejections so the caller
// can log them, and page/pageSize fall back to defaults.
func ParseListQuery(values url.Values, limits pagination.Limits) (ListQuery, []error) {
	var rejected []error
	b := NewFilterBuilder()

	b.Factories(splitCSV(values[ParamFactory])...)
	b.Targets(splitCSV(values[ParamTarget])...)
	for _, token := range splitCSV(values[ParamPrice]) {
		if err := b.Price(token); err != nil {
			rejected = append(rejected, err)
		}
	}
	if raw := strings.TrimSpace(values.Get(ParamSort)); raw != "" {
		if err := b.Sort(raw); err != nil {
			rejected = append(rejected, err)
		}
	}
	if v, ok, err := parsePrice(values.Get(ParamMinPrice)); err != nil {
		rejected = append(rejected, fmt.Errorf("%s: %w", ParamMinPrice, err))
	} else if ok {
		b.MinPrice(v)
	}
	if v, ok, err := parsePrice(values.Get(ParamMaxPrice)); err != nil {
		rejected = append(rejected, fmt.Errorf("%s: %w", ParamMaxPrice, err))
	} else if ok {
		b.MaxPrice(v)
	}

	return ListQuery{
		Criteria: b.Build(),
		Page:     pagination.ParsePageRequest(values.Get(ParamPage), values.Get(ParamPageSize), limits),
	}, rejected
}

// splitCSV flattens repeated and comma-separated parameter values.
func splitCSV(raw []string) []string {
	var out []string
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parsePrice(raw string) (int64, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid price %q", raw)
	}
	if v < 0 {
		return 0, false, fmt.Errorf("negative price %q", raw)
	}
	return v, true, nil
}

// Values encodes the query back into URL parameters for the given page.
func (q ListQuery) Values(page int) url.Values {
	out := url.Values{}
	c := q.Criteria
	if len(c.factories) > 0 {
		out.Set(ParamFactory, strings.Join(c.factories, ","))
	}
	if len(c.targets) > 0 {
		out.Set(ParamTarget, strings.Join(c.targets, ","))
	}
	if len(c.prices) > 0 {
		out.Set(ParamPrice, strings.Join(c.PriceTokens(), ","))
	}
	if token := c.sort.Token(); token != "" {
		out.Set(ParamSort, token)
	}
	if lo := c.bounds.Lower; lo != nil {
		out.Set(ParamMinPrice, strconv.FormatInt(lo.Value, 10))
	}
	if hi := c.bounds.Upper; hi != nil {
		out.Set(ParamMaxPrice, strconv.FormatInt(hi.Value, 10))
	}
	if page < 1 {
		page = 1
	}
	out.Set(ParamPage, strconv.Itoa(page))
	if q.Page.PageSize > 0 {
		out.Set(ParamPageSize, strconv.Itoa(q.Page.PageSize))
	}
	return out
}
