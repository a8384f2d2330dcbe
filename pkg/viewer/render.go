package viewer

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/uhyunpark/dexbook/pkg/orders"
)

// Render writes the view as plain text: the signed message, both order tables, the
// page indicator, and which controls are enabled.
func Render(w io.Writer, s State) {
	if s.Message != "" {
		fmt.Fprintf(w, "Message\n\n%s\n\n", s.Message)
	}
	if s.Err != nil {
		fmt.Fprintf(w, "Error: %s\n\n", describeError(s.Err))
	}
	if s.Book == nil {
		return
	}

	renderTable(w, "Buy Orders", s.BuyPage)
	renderTable(w, "Sell Orders", s.SellPage)

	total := TotalPages(s.Book)
	fmt.Fprintf(w, "Page %d of %d   %s %s [refresh] [trade]\n", s.Page, total,
		control("back", s.Page > 1), control("next", s.Page < total))
}

func renderTable(w io.Writer, title string, list []orders.Order) {
	fmt.Fprintf(w, "%s\n", title)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Sell Amount\tBuy Amount\tPrice\tExchange\t")
	for _, o := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", o.SellAmount, o.BuyAmount, o.Price().StringFixed(6), o.Exchange)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func control(name string, enabled bool) string {
	if enabled {
		return "[" + name + "]"
	}
	return "(" + name + ")"
}

func describeError(err error) string {
	var perr *ProxyError
	switch {
	case errors.As(err, &perr):
		return perr.Message
	case errors.Is(err, ErrSigning):
		return "the wallet did not sign the message"
	case errors.Is(err, ErrMalformedResponse):
		return "the server sent an unexpected response"
	case errors.Is(err, ErrTransport):
		return "could not reach the server"
	default:
		return err.Error()
	}
}
