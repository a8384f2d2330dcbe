package viewer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uhyunpark/dexbook/pkg/orders"
)

func makeOrders(n int, exchange string) []orders.Order {
	out := make([]orders.Order, n)
	for i := range out {
		out[i] = orders.Order{SellAmount: fmt.Sprint(i + 1), BuyAmount: "1", Exchange: exchange}
	}
	return out
}

func TestPageSlice(t *testing.T) {
	tests := []struct {
		n, page   int
		wantStart int
		wantLen   int
	}{
		{n: 0, page: 1, wantLen: 0},
		{n: 7, page: 1, wantStart: 0, wantLen: 7},
		{n: 12, page: 1, wantStart: 0, wantLen: 10},
		{n: 12, page: 2, wantStart: 10, wantLen: 2},
		{n: 20, page: 2, wantStart: 10, wantLen: 10},
		{n: 12, page: 3, wantLen: 0},
		{n: 12, page: 0, wantStart: 0, wantLen: 10},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d/page=%d", tt.n, tt.page), func(t *testing.T) {
			list := makeOrders(tt.n, "orca")
			got := PageSlice(list, tt.page)
			assert.Len(t, got, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, list[tt.wantStart:tt.wantStart+tt.wantLen], got)
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		buys, sells, want int
	}{
		{0, 0, 1},
		{10, 0, 1},
		{11, 0, 2},
		{12, 3, 2},
		{3, 25, 3},
		{30, 30, 3},
	}
	for _, tt := range tests {
		book := &orders.Book{BuyOrders: makeOrders(tt.buys, "a"), SellOrders: makeOrders(tt.sells, "b")}
		assert.Equal(t, tt.want, TotalPages(book), "buys=%d sells=%d", tt.buys, tt.sells)
	}
	assert.Equal(t, 1, TotalPages(nil))
}
