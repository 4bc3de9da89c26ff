// Package tabview implements the console list pipeline: free-text filtering,
// stable multi-field sorting and pagination over an in-memory collection.
// View is a pure function of its inputs; callers re-run it on every query change.
package tabview

import (
	"sort"
	"strings"
)

// Direction selects the sort order.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Query captures the view state of a single list page.
type Query struct {
	Search    string
	SortKey   string
	Direction Direction
	// Page is the zero-based page index.
	Page     int
	PageSize int
}

// Fields declares how a resource kind exposes its values to the pipeline.
// Accessors derive a comparable string per field; nested relations (role,
// moderator, sheet) derive through their configured accessor instead of a
// direct lookup. A missing accessor or an absent relation yields the empty
// string, which collates before any non-empty value.
type Fields[T any] struct {
	// Valid rejects entries that are not real records (nil pointers from a
	// malformed upstream payload). Nil means every entry is valid.
	Valid func(T) bool
	// Searchable lists the accessor keys consulted by the filter.
	Searchable []string
	Accessors  map[string]func(T) string
}

// Result is the exact slice of records to render plus the filtered count.
type Result[T any] struct {
	Rows []T
	// TotalMatching is the filtered, pre-pagination count.
	TotalMatching int
}

// View filters, sorts and paginates records according to the query.
// Identical inputs always produce identical output.
func View[T any](records []T, q Query, f Fields[T]) Result[T] {
	matched := filter(records, q.Search, f)
	sortRecords(matched, q, f)
	return paginate(matched, q)
}

func filter[T any](records []T, search string, f Fields[T]) []T {
	out := make([]T, 0, len(records))
	term := strings.ToLower(search)
	for _, rec := range records {
		if f.Valid != nil && !f.Valid(rec) {
			continue
		}
		if term == "" || matches(rec, term, f) {
			out = append(out, rec)
		}
	}
	return out
}

func matches[T any](rec T, term string, f Fields[T]) bool {
	for _, key := range f.Searchable {
		accessor, ok := f.Accessors[key]
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(accessor(rec)), term) {
			return true
		}
	}
	return false
}

func sortRecords[T any](records []T, q Query, f Fields[T]) {
	accessor, ok := f.Accessors[q.SortKey]
	if !ok {
		// Unknown sort key: every derived value is equal, input order holds.
		return
	}

	sign := 1
	if q.Direction == Descending {
		sign = -1
	}

	sort.SliceStable(records, func(i, j int) bool {
		return sign*collate(accessor(records[i]), accessor(records[j])) < 0
	})
}

// collate compares two derived values case-insensitively. Records whose
// folded values are equal are considered ties and keep their input order.
func collate(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func paginate[T any](records []T, q Query) Result[T] {
	total := len(records)

	size := q.PageSize
	if size <= 0 {
		return Result[T]{Rows: []T{}, TotalMatching: total}
	}
	page := q.Page
	if page < 0 {
		page = 0
	}

	start := page * size
	if start >= total {
		return Result[T]{Rows: []T{}, TotalMatching: total}
	}
	end := start + size
	if end > total {
		end = total
	}

	rows := make([]T, end-start)
	copy(rows, records[start:end])
	return Result[T]{Rows: rows, TotalMatching: total}
}
