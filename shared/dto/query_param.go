package dto

import (
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"condo/shared/constant"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"

	// MaxLimit caps page size so one request cannot pull a whole table.
	MaxLimit = 100
)

type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

func positive(values url.Values, key string) int {
	n, err := strconv.Atoi(values.Get(key))
	if err != nil || n <= 0 {
		return 0
	}

	return n
}

// FromRequest reads page, limit, sort_by and sort_dir. Malformed values are ignored.
// With withDefaults, a missing page or limit gets the listing defaults.
func (q *QueryParams) FromRequest(r *http.Request, withDefaults bool) {
	values := r.URL.Query()

	q.Page = positive(values, constant.RequestParamPage)
	q.Limit = min(positive(values, constant.RequestParamLimit), MaxLimit)
	q.SortBy = values.Get(constant.RequestParamSortBy)

	switch dir := strings.ToUpper(values.Get(constant.RequestParamSortDir)); dir {
	case SortDirAsc, SortDirDesc:
		q.SortDir = dir
	}

	if !withDefaults {
		return
	}

	if q.Page == 0 {
		q.Page = constant.DefaultValuePage
	}

	if q.Limit == 0 {
		q.Limit = constant.DefaultValueLimit
	}
}

// Offset is the number of rows skipped before the current page.
func (q QueryParams) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}

	return (q.Page - 1) * q.Limit
}

// Qualify restricts SortBy to the allowed columns of table and prefixes it with the table name.
// Unknown columns fall back to the default sort.
func (q *QueryParams) Qualify(table string, allowed ...string) {
	if q.SortDir == "" {
		q.SortDir = constant.DefaultValueSortDir
	}

	if !slices.Contains(allowed, q.SortBy) {
		q.SortBy = constant.DefaultValueSortBy
	}

	q.SortBy = table + "." + q.SortBy
}
