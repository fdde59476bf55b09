package product

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const million int64 = 1_000_000

var (
	ErrUnknownPriceToken = errors.New("unknown price token")
	ErrUnknownSortToken  = errors.New("unknown sort token")
)

// Bound is one end of a price range.
type Bound struct {
	Value     int64
	Inclusive bool
}

// PriceRange is a half-open or closed interval over VND prices. A nil bound
// leaves that side unconstrained.
type PriceRange struct {
	Lower *Bound
	Upper *Bound
}

func atLeast(v int64) *Bound { return &Bound{Value: v, Inclusive: true} }
func above(v int64) *Bound   { return &Bound{Value: v} }
func atMost(v int64) *Bound  { return &Bound{Value: v, Inclusive: true} }
func below(v int64) *Bound   { return &Bound{Value: v} }

// Contains reports whether price falls inside the range.
func (r PriceRange) Contains(price int64) bool {
	if r.Lower != nil {
		if r.Lower.Inclusive && price < r.Lower.Value {
			return false
		}
		if !r.Lower.Inclusive && price <= r.Lower.Value {
			return false
		}
	}
	if r.Upper != nil {
		if r.Upper.Inclusive && price > r.Upper.Value {
			return false
		}
		if !r.Upper.Inclusive && price >= r.Upper.Value {
			return false
		}
	}
	return true
}

// IsUnbounded reports whether the range has no bound on either side.
func (r PriceRange) IsUnbounded() bool {
	return r.Lower == nil && r.Upper == nil
}

// PriceBucket is one of the fixed storefront price bands.
type PriceBucket string

const (
	PriceUnder10M PriceBucket = "duoi-10-trieu"
	Price10To15M  PriceBucket = "10-15-trieu"
	Price15To20M  PriceBucket = "15-20-trieu"
	PriceOver20M  PriceBucket = "tren-20-trieu"
)

// Adjacent buckets share their boundary value: a 15,000,000 VND laptop is in
// both 10-15-trieu and 15-20-trieu.
var priceBuckets = []struct {
	bucket PriceBucket
	label  string
	rng    PriceRange
}{
	{PriceUnder10M, "Dưới 10 triệu", PriceRange{Upper: below(10 * million)}},
	{Price10To15M, "Từ 10 - 15 triệu", PriceRange{Lower: atLeast(10 * million), Upper: atMost(15 * million)}},
	{Price15To20M, "Từ 15 - 20 triệu", PriceRange{Lower: atLeast(15 * million), Upper: atMost(20 * million)}},
	{PriceOver20M, "Trên 20 triệu", PriceRange{Lower: above(20 * million)}},
}

// PriceBuckets lists the buckets in display order.
func PriceBuckets() []PriceBucket {
	out := make([]PriceBucket, 0, len(priceBuckets))
	for _, entry := range priceBuckets {
		out = append(out, entry.bucket)
	}
	return out
}

// Range returns the price interval of the bucket.
func (b PriceBucket) Range() (PriceRange, bool) {
	for _, entry := range priceBuckets {
		if entry.bucket == b {
			return entry.rng, true
		}
	}
	return PriceRange{}, false
}

func (b PriceBucket) Label() string {
	for _, entry := range priceBuckets {
		if entry.bucket == b {
			return entry.label
		}
	}
	return string(b)
}

func (b PriceBucket) String() string {
	return string(b)
}

// customRangePattern matches free-form tokens like "10-toi-20-trieu".
var customRangePattern = regexp.MustCompile(`^(\d{1,4})-toi-(\d{1,4})-trieu$`)

// PriceFilter is a resolved price token: a fixed bucket or a custom
// "N-toi-M-trieu" range.
type PriceFilter struct {
	Token string
	Range PriceRange
}

// ParsePriceToken resolves a price token.
func ParsePriceToken(token string) (PriceFilter, error) {
	if rng, ok := PriceBucket(token).Range(); ok {
		return PriceFilter{Token: token, Range: rng}, nil
	}
	if m := customRangePattern.FindStringSubmatch(token); m != nil {
		lo, _ := strconv.ParseInt(m[1], 10, 64)
		hi, _ := strconv.ParseInt(m[2], 10, 64)
		if lo <= hi {
			return PriceFilter{
				Token: token,
				Range: PriceRange{Lower: atLeast(lo * million), Upper: atMost(hi * million)},
			}, nil
		}
	}
	return PriceFilter{}, fmt.Errorf("%w %q", ErrUnknownPriceToken, token)
}

// SortDirective selects the listing order.
type SortDirective int

const (
	SortDefault SortDirective = iota
	SortPriceAsc
	SortPriceDesc
)

const (
	SortTokenPriceAsc  = "gia-tang-dan"
	SortTokenPriceDesc = "gia-giam-dan"
)

// ParseSortToken maps a sort token onto a directive. "price,asc" and
// "price,desc" are accepted as aliases.
func ParseSortToken(token string) (SortDirective, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "":
		return SortDefault, nil
	case SortTokenPriceAsc, "price,asc":
		return SortPriceAsc, nil
	case SortTokenPriceDesc, "price,desc":
		return SortPriceDesc, nil
	}
	return SortDefault, fmt.Errorf("%w %q", ErrUnknownSortToken, token)
}

// Token returns the canonical query token, empty for the default order.
func (s SortDirective) Token() string {
	switch s {
	case SortPriceAsc:
		return SortTokenPriceAsc
	case SortPriceDesc:
		return SortTokenPriceDesc
	}
	return ""
}

// FilterCriteria is an immutable, validated listing filter. The zero value
// matches every product. Build it with FilterBuilder.
type FilterCriteria struct {
	factories []string
	targets   []string
	prices    []PriceFilter
	bounds    PriceRange
	sort      SortDirective
}

func (c FilterCriteria) Factories() []string     { return append([]string(nil), c.factories...) }
func (c FilterCriteria) Targets() []string       { return append([]string(nil), c.targets...) }
func (c FilterCriteria) Prices() []PriceFilter   { return append([]PriceFilter(nil), c.prices...) }
func (c FilterCriteria) PriceBounds() PriceRange { return c.bounds }
func (c FilterCriteria) Sort() SortDirective     { return c.sort }

// PriceTokens returns the accepted price tokens in request order.
func (c FilterCriteria) PriceTokens() []string {
	out := make([]string, 0, len(c.prices))
	for _, p := range c.prices {
		out = append(out, p.Token)
	}
	return out
}

// IsEmpty reports whether the criteria constrain nothing (sort aside).
func (c FilterCriteria) IsEmpty() bool {
	return len(c.factories) == 0 && len(c.targets) == 0 && len(c.prices) == 0 && c.bounds.IsUnbounded()
}

// HasFactory reports whether value is one of the selected factories.
func (c FilterCriteria) HasFactory(value string) bool { return contains(c.factories, value) }

// HasTarget reports whether value is one of the selected targets.
func (c FilterCriteria) HasTarget(value string) bool { return contains(c.targets, value) }

// HasPrice reports whether token is one of the selected price tokens.
func (c FilterCriteria) HasPrice(token string) bool {
	for _, p := range c.prices {
		if p.Token == token {
			return true
		}
	}
	return false
}

// FilterBuilder accumulates filter inputs and produces a FilterCriteria.
// Unknown price and sort tokens are rejected with an error and leave the
// builder unchanged.
type FilterBuilder struct {
	criteria FilterCriteria
}

func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{}
}

// Factories adds factory tokens; blanks are skipped and duplicates collapse.
// Tokens are not checked against the known brands.
func (b *FilterBuilder) Factories(values ...string) *FilterBuilder {
	b.criteria.factories = appendTokens(b.criteria.factories, values)
	return b
}

// Targets adds target tokens; blanks are skipped and duplicates collapse.
func (b *FilterBuilder) Targets(values ...string) *FilterBuilder {
	b.criteria.targets = appendTokens(b.criteria.targets, values)
	return b
}

// Price adds a price bucket or custom range token.
func (b *FilterBuilder) Price(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if b.criteria.HasPrice(token) {
		return nil
	}
	filter, err := ParsePriceToken(token)
	if err != nil {
		return err
	}
	b.criteria.prices = append(b.criteria.prices, filter)
	return nil
}

// MinPrice constrains price >= v regardless of the selected buckets.
func (b *FilterBuilder) MinPrice(v int64) *FilterBuilder {
	b.criteria.bounds.Lower = atLeast(v)
	return b
}

// MaxPrice constrains price <= v regardless of the selected buckets.
func (b *FilterBuilder) MaxPrice(v int64) *FilterBuilder {
	b.criteria.bounds.Upper = atMost(v)
	return b
}

// Sort sets the sort directive from a token.
func (b *FilterBuilder) Sort(token string) error {
	directive, err := ParseSortToken(token)
	if err != nil {
		return err
	}
	b.criteria.sort = directive
	return nil
}

// SortBy sets the sort directive directly.
func (b *FilterBuilder) SortBy(directive SortDirective) *FilterBuilder {
	b.criteria.sort = directive
	return b
}

// Build returns a copy of the accumulated criteria.
func (b *FilterBuilder) Build() FilterCriteria {
	c := b.criteria
	c.factories = append([]string(nil), c.factories...)
	c.targets = append([]string(nil), c.targets...)
	c.prices = append([]PriceFilter(nil), c.prices...)
	return c
}

func appendTokens(dst []string, values []string) []string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || contains(dst, v) {
			continue
		}
		dst = append(dst, v)
	}
	return dst
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
