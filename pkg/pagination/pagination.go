package pagination

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultPageSize is the standard page size when page_size is not provided.
	DefaultPageSize = 12
	// MaxPageSize caps how many rows any page can request.
	MaxPageSize = 100

	lastPage = "last"
)

// Params holds page-number pagination inputs. Page is kept raw so that
// non-numeric values can be clamped instead of rejected.
type Params struct {
	Page     string
	PageSize int
}

// Page is the paginated response body.
type Page[T any] struct {
	Count      int64 `json:"count"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	Results    []T   `json:"results"`
}

// Window is the resolved slice of rows to fetch.
type Window struct {
	Page       int
	PageSize   int
	TotalPages int
	Offset     int
}

// ParamsFromQuery reads page and page_size from query values.
func ParamsFromQuery(q url.Values) Params {
	size, _ := strconv.Atoi(strings.TrimSpace(q.Get("page_size")))
	return Params{Page: strings.TrimSpace(q.Get("page")), PageSize: size}
}

// NormalizePageSize enforces the configured default and maximum sizes.
func NormalizePageSize(size, def, max int) int {
	if def <= 0 {
		def = DefaultPageSize
	}
	if max <= 0 {
		max = MaxPageSize
	}
	if size <= 0 {
		return def
	}
	if size > max {
		return max
	}
	return size
}

// Resolve clamps the requested page into [1, total pages]. Out-of-range and
// unparsable pages land on the last page; "last" selects it explicitly.
func Resolve(params Params, total int64, def, max int) Window {
	size := NormalizePageSize(params.PageSize, def, max)
	totalPages := int((total + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}

	page := 1
	switch raw := strings.ToLower(params.Page); raw {
	case "":
	case lastPage:
		page = totalPages
	default:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > totalPages {
			page = totalPages
		} else {
			page = n
		}
	}

	return Window{
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
		Offset:     (page - 1) * size,
	}
}

// NewPage assembles the response for a resolved window.
func NewPage[T any](w Window, total int64, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}
	return Page[T]{
		Count:      total,
		Page:       w.Page,
		PageSize:   w.PageSize,
		TotalPages: w.TotalPages,
		Results:    results,
	}
}

// Map converts the results of a page while keeping its counters.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, 0, len(p.Results))
	for _, item := range p.Results {
		out = append(out, fn(item))
	}
	return Page[U]{
		Count:      p.Count,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
		Results:    out,
	}
}
