package workos

import (
	"context"
	"fmt"
	"iter"
)

// Order is the sort order of a list endpoint.
type Order string

// Sort orders.
const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// PaginationParams are the cursor parameters accepted by every list operation.
// Setting both Before and After is left to the server to reject.
type PaginationParams struct {
	Limit  int    `url:"limit,omitempty"  json:"limit,omitempty"`
	Before string `url:"before,omitempty" json:"before,omitempty"`
	After  string `url:"after,omitempty"  json:"after,omitempty"`
	Order  Order  `url:"order,omitempty"  json:"order,omitempty"`
}

// ListMetadata carries the neighbouring page cursors; nil means no page in that direction.
type ListMetadata struct {
	Before *string `json:"before" yaml:"before"`
	After  *string `json:"after"  yaml:"after"`
}

// Cursor returns the cursor for direction d, or "" when there is no further page.
func (m ListMetadata) Cursor(d Direction) string {
	cursor := m.After
	if d == Backward {
		cursor = m.Before
	}

	if cursor == nil {
		return ""
	}

	return *cursor
}

// List is one page of a cursor-paginated collection, in server order.
type List[T any] struct {
	Data         []T          `json:"data"          yaml:"data"`
	ListMetadata ListMetadata `json:"list_metadata" yaml:"list_metadata"`
}

// Direction selects which cursor a Pager follows.
type Direction int

const (
	// Forward follows list_metadata.after.
	Forward Direction = iota
	// Backward follows list_metadata.before.
	Backward
)

// PageFunc fetches one page given the pagination parameters to send.
type PageFunc[T any] func(ctx context.Context, page PaginationParams) (*List[T], error)

// Pager drives a sequential traversal over a list operation. A Pager is owned by a
// single traversal and is not safe for concurrent use.
type Pager[T any] struct {
	fetch     PageFunc[T]
	next      PaginationParams
	direction Direction
	done      bool
}

// NewPager creates a pager that starts at start and follows the cursor for direction.
func NewPager[T any](fetch PageFunc[T], start PaginationParams, direction Direction) *Pager[T] {
	return &Pager[T]{
		fetch:     fetch,
		next:      start,
		direction: direction,
	}
}

// HasNext reports whether another page may be requested.
func (p *Pager[T]) HasNext() bool {
	return !p.done
}

// Next fetches the next page. On error the position is unchanged so the same page
// can be requested again.
func (p *Pager[T]) Next(ctx context.Context) (*List[T], error) {
	if p.done {
		return nil, ErrNoMorePages
	}

	list, err := p.fetch(ctx, p.next)
	if err != nil {
		return nil, err
	}

	sent := p.next.After
	if p.direction == Backward {
		sent = p.next.Before
	}

	// A cursor equal to the one just sent would request the same page forever.
	cursor := list.ListMetadata.Cursor(p.direction)
	if cursor == "" || cursor == sent {
		p.done = true

		return list, nil
	}

	if p.direction == Backward {
		p.next.Before = cursor
		p.next.After = ""
	} else {
		p.next.After = cursor
		p.next.Before = ""
	}

	return list, nil
}

// All yields every item of the remaining pages. Iteration stops after the first error.
func (p *Pager[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for p.HasNext() {
			list, err := p.Next(ctx)
			if err != nil {
				var zero T

				yield(zero, err)

				return
			}

			for _, item := range list.Data {
				if !yield(item, nil) {
					return
				}
			}
		}
	}
}

// CollectAll traverses every page from start in direction and returns the items in
// traversal order.
func CollectAll[T any](ctx context.Context, fetch PageFunc[T], start PaginationParams, direction Direction) ([]T, error) {
	pager := NewPager(fetch, start, direction)

	var items []T

	for pager.HasNext() {
		list, err := pager.Next(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetching page: %w", err)
		}

		items = append(items, list.Data...)
	}

	return items, nil
}
