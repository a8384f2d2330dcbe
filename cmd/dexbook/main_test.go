package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uhyunpark/dexbook/pkg/crypto"
	"github.com/uhyunpark/dexbook/pkg/orders"
	"github.com/uhyunpark/dexbook/pkg/viewer"
)

type staticFetcher struct{ book *orders.Book }

func (f staticFetcher) Get(context.Context, string) (*orders.Book, error) { return f.book, nil }

func newTestSession(t *testing.T) (*viewer.Viewer, crypto.Wallet) {
	t.Helper()
	wallet, err := crypto.GenerateEd25519Key()
	require.NoError(t, err)
	book := &orders.Book{
		BuyOrders:  []orders.Order{{SellAmount: "100", BuyAmount: "2", Exchange: "raydium"}},
		SellOrders: []orders.Order{},
	}
	return viewer.New(staticFetcher{book: book}, nil, nil, nil), wallet
}

func TestRunReturnsOnCancelWhileReading(t *testing.T) {
	v, wallet := newTestSession(t)

	// Nothing is ever written, so the reader stays blocked like an idle terminal.
	in, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		run(ctx, in, io.Discard, v, wallet)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestRunCommands(t *testing.T) {
	v, wallet := newTestSession(t)
	var out bytes.Buffer

	in := strings.NewReader("get\naddress TokenABC\nconnect\nget\ntrade\nquit\nget\n")
	run(context.Background(), in, &out, v, wallet)

	text := out.String()
	assert.Contains(t, text, "Please enter a token address and connect your wallet")
	assert.Contains(t, text, "Connected "+crypto.EncodeBase58(wallet.PublicKey()))
	assert.Contains(t, text, "Buy Orders")
	assert.Contains(t, text, "raydium")
	assert.Contains(t, text, "Trading is not available in this client.")
	assert.Equal(t, 1, strings.Count(text, "Buy Orders"), "input after quit is ignored")
}

func TestRunEndOfInput(t *testing.T) {
	v, wallet := newTestSession(t)
	run(context.Background(), strings.NewReader("next\n"), io.Discard, v, wallet)
}
