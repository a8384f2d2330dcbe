package viewer

import "github.com/uhyunpark/dexbook/pkg/orders"

// PageSize is the number of rows per list on one page.
const PageSize = 10

// TotalPages counts pages for a book. Both lists are paged together, so the
// longer list sets the bound. An empty book still has one page.
func TotalPages(book *orders.Book) int {
	if book == nil {
		return 1
	}
	n := max(len(book.BuyOrders), len(book.SellOrders))
	if n == 0 {
		return 1
	}
	return (n + PageSize - 1) / PageSize
}

// PageSlice returns items [(page-1)*PageSize, page*PageSize) clamped to the list.
// Pages past the end yield an empty slice, never a panic.
func PageSlice(list []orders.Order, page int) []orders.Order {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * PageSize
	if start >= len(list) {
		return []orders.Order{}
	}
	end := min(start+PageSize, len(list))
	return list[start:end]
}
