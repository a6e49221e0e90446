// Package pagination implements page-based over-fetch pagination.
//
// Paginate asks the caller for one item more than the page size. If that
// extra item arrives there is another page; it is dropped before returning.
// No count query is ever issued, so Total is the number of items observed up
// to and including the current page, not a grand total.
package pagination

import "github.com/samirrijal/dongne/internal/core/domain"

// FetchFunc returns up to n items for the current page window.
type FetchFunc[T any] func(n int) ([]T, error)

// Offset returns the number of items that precede page.
func Offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

// Paginate calls fetch once with limit+1 and builds the page from the result.
// Errors from fetch are returned unchanged. page is 1-indexed; values below 1
// are treated as 1.
func Paginate[T any](fetch FetchFunc[T], page, limit int) (domain.Page[T], error) {
	if page < 1 {
		page = 1
	}
	if limit < 0 {
		limit = 0
	}

	items, err := fetch(limit + 1)
	if err != nil {
		return domain.Page[T]{}, err
	}

	hasNext := len(items) > limit
	if hasNext {
		items = items[:limit]
	}
	if items == nil {
		items = []T{}
	}

	return domain.Page[T]{
		Items:   items,
		Page:    page,
		Limit:   limit,
		Total:   Offset(page, limit) + len(items),
		HasNext: hasNext,
		HasPrev: page > 1,
	}, nil
}

// Window slices an in-memory result for page. It returns at most n items
// starting at the page offset, suitable as the body of a FetchFunc when the
// full candidate set is already loaded.
func Window[T any](all []T, page, limit, n int) []T {
	start := Offset(page, limit)
	if start >= len(all) {
		return nil
	}
	end := start + n
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}
