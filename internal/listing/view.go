// Package listing holds the in-memory list view-model: search, filters,
// stable sorting, pagination and CSV export over a fetched collection.
package listing

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// PageSizes are the allowed page sizes.
var PageSizes = []int{5, 10, 25}

// DefaultPageSize is the page size of a new view.
const DefaultPageSize = 5

var (
	// ErrInvalidPageSize is returned for sizes other than PageSizes.
	ErrInvalidPageSize = errors.New("invalid page size")
	// ErrUnknownColumn is returned when sorting by a column the schema does not have.
	ErrUnknownColumn = errors.New("unknown column")
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Column describes one field of the listing.
type Column[T any] struct {
	Key    string         // sort key, e.g. "email"
	Header string         // CSV header
	Value  func(T) string // sort value
	Export func(T) string // CSV value, Value when nil
}

func (c Column[T]) export(item T) string {
	if c.Export != nil {
		return c.Export(item)
	}
	return c.Value(item)
}

// Schema configures a View.
type Schema[T any] struct {
	Columns []Column[T]
	Search  func(T) []string // fields matched by the search term
	ID      func(T) string
}

func (s Schema[T]) column(key string) (Column[T], bool) {
	for _, c := range s.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column[T]{}, false
}

type filter[T any] struct {
	name string
	keep func(T) bool
}

// View is the state of a listing. Every read runs the pipeline
// search → filters → sort → paginate over the source collection.
// A View is not safe for concurrent use.
type View[T any] struct {
	schema   Schema[T]
	items    []T
	search   string
	filters  []filter[T]
	sortKey  string
	sortDir  Direction
	page     int
	pageSize int
}

// NewView creates a View over items.
func NewView[T any](schema Schema[T], items []T) *View[T] {
	return &View[T]{
		schema:   schema,
		items:    slices.Clone(items),
		sortDir:  Asc,
		page:     1,
		pageSize: DefaultPageSize,
	}
}

// SetItems replaces the source collection. The page is kept.
func (v *View[T]) SetItems(items []T) {
	v.items = slices.Clone(items)
}

// Items returns the source collection in fetch order.
func (v *View[T]) Items() []T {
	return slices.Clone(v.items)
}

// SetSearch sets the search term. The page is kept.
func (v *View[T]) SetSearch(term string) {
	v.search = term
}

// Search returns the search term.
func (v *View[T]) Search() string {
	return v.search
}

// SetFilter installs the named filter, replacing a previous one with the
// same name. A nil keep removes it. Filters run in installation order.
// The page is kept.
func (v *View[T]) SetFilter(name string, keep func(T) bool) {
	idx := slices.IndexFunc(v.filters, func(f filter[T]) bool { return f.name == name })
	switch {
	case keep == nil && idx >= 0:
		v.filters = slices.Delete(v.filters, idx, idx+1)
	case keep == nil:
	case idx >= 0:
		v.filters[idx].keep = keep
	default:
		v.filters = append(v.filters, filter[T]{name: name, keep: keep})
	}
}

// ToggleSort sorts by key. Sorting by the current key flips the
// direction, a new key starts ascending.
func (v *View[T]) ToggleSort(key string) error {
	if _, ok := v.schema.column(key); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, key)
	}

	if v.sortKey == key {
		if v.sortDir == Asc {
			v.sortDir = Desc
		} else {
			v.sortDir = Asc
		}
		return nil
	}

	v.sortKey = key
	v.sortDir = Asc
	return nil
}

// SetSort sets key and direction directly. An empty key clears the sort.
func (v *View[T]) SetSort(key string, dir Direction) error {
	if key != "" {
		if _, ok := v.schema.column(key); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, key)
		}
	}
	if dir != Desc {
		dir = Asc
	}
	v.sortKey = key
	v.sortDir = dir
	return nil
}

// ResetSort restores fetch order and goes back to the first page.
func (v *View[T]) ResetSort() {
	v.sortKey = ""
	v.sortDir = Asc
	v.page = 1
}

// Sort returns the sort key (empty when unsorted) and direction.
func (v *View[T]) Sort() (string, Direction) {
	return v.sortKey, v.sortDir
}

// Page returns the current page number, starting at 1.
func (v *View[T]) Page() int {
	return v.page
}

// PageSize returns the page size.
func (v *View[T]) PageSize() int {
	return v.pageSize
}

// SetPageSize changes the page size and goes back to the first page.
func (v *View[T]) SetPageSize(size int) error {
	if !slices.Contains(PageSizes, size) {
		return fmt.Errorf("%w: %d, expected one of %v", ErrInvalidPageSize, size, PageSizes)
	}
	v.pageSize = size
	v.page = 1
	return nil
}

// GoTo moves to page n. Pages past the end are allowed and show nothing.
func (v *View[T]) GoTo(n int) {
	v.page = max(n, 1)
}

// HasPrev reports whether a previous page exists.
func (v *View[T]) HasPrev() bool {
	return v.page > 1
}

// HasNext reports whether a next page exists.
func (v *View[T]) HasNext() bool {
	return v.page < v.TotalPages()
}

// Next moves forward one page if possible.
func (v *View[T]) Next() bool {
	if !v.HasNext() {
		return false
	}
	v.page++
	return true
}

// Prev moves back one page if possible.
func (v *View[T]) Prev() bool {
	if !v.HasPrev() {
		return false
	}
	v.page--
	return true
}

// Count returns the number of items left after search and filters.
func (v *View[T]) Count() int {
	return len(v.filtered())
}

// TotalPages returns ceil(Count / PageSize).
func (v *View[T]) TotalPages() int {
	return (v.Count() + v.pageSize - 1) / v.pageSize
}

// Rows returns the searched, filtered and sorted collection without paging.
func (v *View[T]) Rows() []T {
	rows := v.filtered()
	v.sort(rows)
	return rows
}

// PageRows returns the rows of the current page.
func (v *View[T]) PageRows() []T {
	rows := v.Rows()
	start := (v.page - 1) * v.pageSize
	if start >= len(rows) {
		return []T{}
	}
	end := min(start+v.pageSize, len(rows))
	return rows[start:end]
}

// Replace swaps the item with the same id for item, without merging.
// It reports whether the id was found.
func (v *View[T]) Replace(item T) bool {
	id := v.schema.ID(item)
	for i := range v.items {
		if v.schema.ID(v.items[i]) == id {
			v.items[i] = item
			return true
		}
	}
	return false
}

// Remove drops the item with the given id and reports whether it existed.
func (v *View[T]) Remove(id string) bool {
	before := len(v.items)
	v.items = slices.DeleteFunc(v.items, func(item T) bool { return v.schema.ID(item) == id })
	return len(v.items) != before
}

// Append adds item at the end of the source collection.
func (v *View[T]) Append(item T) {
	v.items = append(v.items, item)
}

func (v *View[T]) filtered() []T {
	term := strings.ToLower(v.search)

	out := make([]T, 0, len(v.items))
	for _, item := range v.items {
		if term != "" && !v.matches(item, term) {
			continue
		}
		if !v.keep(item) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (v *View[T]) matches(item T, term string) bool {
	if v.schema.Search == nil {
		return true
	}
	for _, field := range v.schema.Search(item) {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func (v *View[T]) keep(item T) bool {
	for _, f := range v.filters {
		if !f.keep(item) {
			return false
		}
	}
	return true
}

func (v *View[T]) sort(rows []T) {
	col, ok := v.schema.column(v.sortKey)
	if !ok {
		return
	}

	keys := make([]string, len(rows))
	idx := make([]int, len(rows))
	for i, row := range rows {
		idx[i] = i
		keys[i] = strings.ToLower(col.Value(row))
	}

	slices.SortStableFunc(idx, func(a, b int) int {
		c := strings.Compare(keys[a], keys[b])
		if v.sortDir == Desc {
			return -c
		}
		return c
	})

	sorted := make([]T, len(rows))
	for i, j := range idx {
		sorted[i] = rows[j]
	}
	copy(rows, sorted)
}
