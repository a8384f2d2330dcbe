package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/uhyunpark/dexbook/params"
	"github.com/uhyunpark/dexbook/pkg/crypto"
	"github.com/uhyunpark/dexbook/pkg/storage"
	"github.com/uhyunpark/dexbook/pkg/util"
	"github.com/uhyunpark/dexbook/pkg/viewer"
)

const help = `commands:
  address <token>   set the token address
  connect           connect the configured wallet
  connect readonly  connect without message signing
  disconnect        disconnect the wallet
  get | refresh     sign and fetch limit orders
  next | back       change page
  trade             open the trade view
  quit`

func main() {
	cfg := params.LoadFromEnv("")

	// Logs go to LOG_FILE only so they do not interleave with the tables.
	logger, err := util.NewFileOnlyLogger(cfg.LogFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	store, err := storage.NewPebbleStore(cfg.Viewer.StorePath)
	if err != nil {
		log.Fatalf("open store %s: %v", cfg.Viewer.StorePath, err)
	}
	defer store.Close()

	wallet, err := crypto.NewWallet(cfg.Viewer.WalletKind, cfg.Viewer.WalletKey)
	if err != nil {
		log.Fatalf("wallet: %v", err)
	}

	client := viewer.NewProxyClient(cfg.Viewer.ProxyURL, &http.Client{Timeout: cfg.Viewer.RequestTimeout})
	v := viewer.New(client, store, util.RealClock{}, sugar)

	if last, err := v.Restore(); err != nil {
		sugar.Warnw("restore_wallet_failed", "err", err)
	} else if last != "" {
		fmt.Printf("Last wallet: %s\n", last)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run(ctx, os.Stdin, os.Stdout, v, wallet)
}

// readLines feeds lines from r into the returned channel and closes it at EOF.
// The reader goroutine may outlive the caller when r never returns.
func readLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

// run drives the prompt until quit, end of input, or ctx is cancelled. Cancelling
// ctx returns immediately even while a line is still being read.
func run(ctx context.Context, in io.Reader, out io.Writer, v *viewer.Viewer, wallet crypto.Wallet) {
	fmt.Fprintln(out, "DEX-Book")
	fmt.Fprintln(out, help)

	lines := readLines(in)
	for {
		fmt.Fprint(out, "> ")
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return
		case l, ok := <-lines:
			if !ok {
				return
			}
			line = l
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "address":
			if len(fields) < 2 {
				fmt.Fprintln(out, "usage: address <token>")
				continue
			}
			v.SetAddress(fields[1])
		case "connect":
			if len(fields) > 1 && fields[1] == "readonly" {
				v.Connect(crypto.ReadOnlyWallet{Key: wallet.PublicKey()})
			} else {
				v.Connect(wallet)
			}
			fmt.Fprintf(out, "Connected %s\n", crypto.EncodeBase58(wallet.PublicKey()))
		case "disconnect":
			v.Disconnect()
		case "get", "refresh":
			err := v.Fetch(ctx)
			if errors.Is(err, viewer.ErrMissingAddress) || errors.Is(err, viewer.ErrWalletNotConnected) {
				fmt.Fprintln(out, "Please enter a token address and connect your wallet")
				continue
			}
			viewer.Render(out, v.Snapshot())
		case "next":
			if v.Next() {
				viewer.Render(out, v.Snapshot())
			}
		case "back":
			if v.Back() {
				viewer.Render(out, v.Snapshot())
			}
		case "trade":
			fmt.Fprintln(out, "Trading is not available in this client.")
		case "quit", "exit":
			return
		default:
			fmt.Fprintln(out, help)
		}
	}
}
