package pagination

import (
	"math"
	"strconv"
	"strings"
)

const (
	// DefaultPage is the first page; pages are 1-based.
	DefaultPage = 1
	// DefaultPageSize is used when no size is requested or the request is invalid.
	DefaultPageSize = 6
	// MaxPageSize caps how many rows any listing can request.
	MaxPageSize = 60
)

// Limits carries the page size policy applied during normalization.
type Limits struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultLimits returns the package defaults.
func DefaultLimits() Limits {
	return Limits{DefaultPageSize: DefaultPageSize, MaxPageSize: MaxPageSize}
}

func (l Limits) normalized() Limits {
	if l.DefaultPageSize <= 0 {
		l.DefaultPageSize = DefaultPageSize
	}
	if l.MaxPageSize < l.DefaultPageSize {
		l.MaxPageSize = l.DefaultPageSize
	}
	return l
}

// PageRequest is a validated 1-based page request.
type PageRequest struct {
	Page     int
	PageSize int
}

// NewPageRequest clamps page and size to the given limits: non-positive
// values fall back to the defaults and oversized pages are capped. The page
// is capped too so its offset always fits in an int.
func NewPageRequest(page, pageSize int, limits Limits) PageRequest {
	limits = limits.normalized()
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = limits.DefaultPageSize
	}
	if pageSize > limits.MaxPageSize {
		pageSize = limits.MaxPageSize
	}
	page = min(page, maxPage(pageSize))
	return PageRequest{Page: page, PageSize: pageSize}
}

// ParsePageRequest builds a PageRequest from raw query values. Values that
// are absent or not integers are treated as missing.
func ParsePageRequest(rawPage, rawPageSize string, limits Limits) PageRequest {
	return NewPageRequest(parseInt(rawPage), parseInt(rawPageSize), limits)
}

func parseInt(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return value
}

func maxPage(pageSize int) int {
	return math.MaxInt/pageSize + 1
}

// Offset returns the zero-based row offset of the page. It saturates at
// math.MaxInt instead of wrapping.
func (p PageRequest) Offset() int {
	if p.Page < 1 || p.PageSize < 1 {
		return 0
	}
	if p.Page > maxPage(p.PageSize) {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

// TotalPages returns ceil(count/pageSize).
func TotalPages(count int64, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	size := int64(pageSize)
	return int((count + size - 1) / size)
}
