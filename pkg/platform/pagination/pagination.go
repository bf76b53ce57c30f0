// Package pagination parses page/limit/sort query parameters and builds the
// pagination block returned alongside list results.
package pagination

import (
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	dErrors "hireme/pkg/domain-errors"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit within an int for any accepted limit.
	MaxPage = math.MaxInt32 / MaxLimit
)

// Params is a validated page request.
type Params struct {
	Page  int
	Limit int
}

// Skip is the number of items preceding the requested page. It never goes
// negative and saturates at math.MaxInt instead of overflowing.
func (p Params) Skip() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Parse reads "page" and "limit" from q. Missing values take defaults and
// limit is clamped to MaxLimit; non-numeric, non-positive or out of range
// values are rejected.
func Parse(q url.Values) (Params, error) {
	p := Params{Page: DefaultPage, Limit: DefaultLimit}
	var fields []dErrors.FieldError

	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil || n < 1:
			fields = append(fields, dErrors.FieldError{Field: "page", Message: "page must be a positive integer"})
		case n > MaxPage:
			fields = append(fields, dErrors.FieldError{Field: "page", Message: fmt.Sprintf("page cannot exceed %d", MaxPage)})
		default:
			p.Page = n
		}
	}
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fields = append(fields, dErrors.FieldError{Field: "limit", Message: "limit must be a positive integer"})
		} else {
			p.Limit = min(n, MaxLimit)
		}
	}
	if len(fields) > 0 {
		return Params{}, dErrors.NewValidation("invalid pagination parameters", fields...)
	}
	return p, nil
}

// Meta is the pagination block of a list response.
type Meta struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalItems"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

func NewMeta(p Params, total int) Meta {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Meta{
		CurrentPage: p.Page,
		TotalPages:  pages,
		TotalItems:  total,
		HasNextPage: p.Page < pages,
		HasPrevPage: p.Page > 1,
	}
}

// Sort is a single-field ordering. A leading "-" in the query value means descending.
type Sort struct {
	Field string
	Desc  bool
}

// NewestFirst is the default ordering for every listing.
var NewestFirst = Sort{Field: "createdAt", Desc: true}

func (s Sort) String() string {
	if s.Desc {
		return "-" + s.Field
	}
	return s.Field
}

// ParseSort parses values like "-createdAt" or "title". An empty value yields
// def; a field outside allowed is a validation error.
func ParseSort(raw string, allowed []string, def Sort) (Sort, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	s := Sort{Field: raw}
	if rest, ok := strings.CutPrefix(raw, "-"); ok {
		s = Sort{Field: rest, Desc: true}
	}
	if !slices.Contains(allowed, s.Field) {
		return Sort{}, dErrors.NewValidation("invalid sort field",
			dErrors.FieldError{Field: "sortBy", Message: "cannot sort by " + s.Field})
	}
	return s, nil
}
