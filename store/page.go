package store

import (
	"math"

	"github.com/arllen133/recipes/clause"
)

const (
	// DefaultPageSize is used when a Pageable carries no size.
	DefaultPageSize = 20
	// MaxPageSize caps the size of a single page.
	MaxPageSize = 2000
)

// Pageable describes a zero-based page request.
type Pageable struct {
	Page int
	Size int
	Sort []clause.OrderByColumn
}

// Normalized returns a copy with the size clamped to (0, MaxPageSize] and
// the page to [0, the last page whose offset fits in an int64].
func (p Pageable) Normalized() Pageable {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	if p.OffsetOverflows() {
		p.Page = int(math.MaxInt64 / int64(p.Size))
	}
	return p
}

// OffsetOverflows reports whether Page*Size does not fit in an int64.
func (p Pageable) OffsetOverflows() bool {
	return p.Size > 0 && int64(p.Page) > math.MaxInt64/int64(p.Size)
}

// Offset returns the number of rows preceding the page.
func (p Pageable) Offset() uint64 {
	return uint64(p.Page) * uint64(p.Size)
}

// Page is one slice of a result set together with the total element count.
type Page[T any] struct {
	Content []*T
	Total   int64
	Number  int
	Size    int
}

// TotalPages returns the number of pages needed for Total elements.
func (p *Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 1
	}
	size := int64(p.Size)
	n := p.Total / size
	if p.Total%size != 0 {
		n++
	}
	return int(n)
}

// HasNext reports whether a page follows this one.
func (p *Page[T]) HasNext() bool {
	return p.Number < p.TotalPages()-1
}

// HasPrevious reports whether a page precedes this one.
func (p *Page[T]) HasPrevious() bool {
	return p.Number > 0
}
