// Package paginate provides a generic client-side page slicer shared by
// every list view (devices, users, telemetry rows).
package paginate

// Paginator slices an ordered collection into fixed-size pages. Pages are
// 1-indexed. The zero value is not usable; construct with New.
type Paginator[T any] struct {
	items       []T
	rowsPerPage int
	page        int
}

// New returns a Paginator positioned on page 1. rowsPerPage values below 1
// are raised to 1.
func New[T any](items []T, rowsPerPage int) *Paginator[T] {
	if rowsPerPage < 1 {
		rowsPerPage = 1
	}
	return &Paginator[T]{items: items, rowsPerPage: rowsPerPage, page: 1}
}

// Page returns the current 1-indexed page number.
func (p *Paginator[T]) Page() int {
	return p.page
}

// SetPage moves to page n verbatim. Out-of-range values are accepted and
// simply yield an empty PageData until corrected; callers that want
// clamping do it themselves.
func (p *Paginator[T]) SetPage(n int) {
	p.page = n
}

// TotalPages returns ceil(len(items)/rowsPerPage), floored at 1 so an empty
// collection still reports a single (empty) page.
func (p *Paginator[T]) TotalPages() int {
	n := (len(p.items) + p.rowsPerPage - 1) / p.rowsPerPage
	if n < 1 {
		n = 1
	}
	return n
}

// PageData returns the slice of items visible on the current page. Pages
// beyond the end of the collection yield an empty slice, never an error.
func (p *Paginator[T]) PageData() []T {
	start := (p.page - 1) * p.rowsPerPage
	if start < 0 || start >= len(p.items) {
		return nil
	}
	end := start + p.rowsPerPage
	if end > len(p.items) {
		end = len(p.items)
	}
	return p.items[start:end]
}

// SetItems replaces the source collection and resets to page 1, so a view
// never lands on a stale, possibly out-of-range page after a fresh fetch or
// filter change.
func (p *Paginator[T]) SetItems(items []T) {
	p.items = items
	p.page = 1
}
