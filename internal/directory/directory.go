// Package directory defines the read-only contract of the external contact
// directory the smart-dial index is synchronized from.
package directory

import (
	"context"

	"github.com/feral-file/ff-smartdial/internal/domain"
)

// Directory is the external contact directory, queried by last-modified watermark.
// Every since argument and returned time is in unix milliseconds of the directory clock.
type Directory interface {
	// Now returns the current time of the directory clock
	Now(ctx context.Context) (int64, error)
	// DeletedContacts returns the contacts deleted after since
	DeletedContacts(ctx context.Context, since int64) (ResultSet[domain.DeletedContact], error)
	// UpdatedContactIDs returns the ids of the contacts modified after since
	UpdatedContactIDs(ctx context.Context, since int64) (ResultSet[int64], error)
	// UpdatedPhoneRows returns one row per phone number of every contact modified after since
	UpdatedPhoneRows(ctx context.Context, since int64) (ResultSet[domain.PhoneRow], error)
}

// ResultSet is a paged, forward-only result set.
//
//	for rs.Next(ctx) {
//		for _, item := range rs.Page() { ... }
//	}
//	if err := rs.Err(); err != nil { ... }
type ResultSet[T any] interface {
	// Next advances to the next page, returning false when the set is exhausted or failed
	Next(ctx context.Context) bool
	// Page returns the current page
	Page() []T
	// Err returns the error that stopped iteration, if any
	Err() error
	// Close releases the result set
	Close() error
}

// sliceResultSet pages over an in-memory slice
type sliceResultSet[T any] struct {
	items    []T
	pageSize int
	pos      int
	page     []T
	err      error
	closed   bool
}

// NewSliceResultSet returns a result set serving items in pages of pageSize
func NewSliceResultSet[T any](items []T, pageSize int) ResultSet[T] {
	if pageSize <= 0 {
		pageSize = len(items)
	}
	return &sliceResultSet[T]{items: items, pageSize: max(pageSize, 1)}
}

func (r *sliceResultSet[T]) Next(ctx context.Context) bool {
	if r.closed || r.err != nil {
		return false
	}
	if err := ctx.Err(); err != nil {
		r.err = err
		return false
	}
	if r.pos >= len(r.items) {
		r.page = nil
		return false
	}

	end := min(r.pos+r.pageSize, len(r.items))
	r.page = r.items[r.pos:end]
	r.pos = end
	return true
}

func (r *sliceResultSet[T]) Page() []T {
	return r.page
}

func (r *sliceResultSet[T]) Err() error {
	return r.err
}

func (r *sliceResultSet[T]) Close() error {
	r.closed = true
	r.page = nil
	return nil
}

// Collect drains a result set into a slice and closes it
func Collect[T any](ctx context.Context, rs ResultSet[T]) ([]T, error) {
	defer func() { _ = rs.Close() }()

	var items []T
	for rs.Next(ctx) {
		items = append(items, rs.Page()...)
	}
	if err := rs.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
