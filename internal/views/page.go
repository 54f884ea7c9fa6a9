package views

// PageSize is the number of records shown per page.
const PageSize = 24

// Page is one pagination window over a filtered list.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
	TotalItems int `json:"totalItems"`
}

// TotalPages returns ceil(n/size), never less than 1.
func TotalPages(n, size int) int {
	if size <= 0 {
		size = PageSize
	}
	pages := (n + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage pins a 1-based page number into [1, TotalPages(n, size)].
func ClampPage(page, n, size int) int {
	if page < 1 {
		return 1
	}
	if last := TotalPages(n, size); page > last {
		return last
	}
	return page
}

// Paginate returns the window [(page-1)*size, page*size) of items after
// clamping page into the valid range.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = PageSize
	}
	page = ClampPage(page, len(items), size)

	start := (page - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}

	window := make([]T, end-start)
	copy(window, items[start:end])

	return Page[T]{
		Items:      window,
		Page:       page,
		PageSize:   size,
		TotalPages: TotalPages(len(items), size),
		TotalItems: len(items),
	}
}

// Map converts the items of a page, keeping its bookkeeping.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	items := make([]U, len(p.Items))
	for i, it := range p.Items {
		items[i] = fn(it)
	}
	return Page[U]{
		Items:      items,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
		TotalItems: p.TotalItems,
	}
}
