package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/uhyunpark/dexbook/pkg/crypto"
	"github.com/uhyunpark/dexbook/pkg/orders"
	"github.com/uhyunpark/dexbook/pkg/storage"
	"github.com/uhyunpark/dexbook/pkg/util"
)

// WalletKey is the store key holding the last connected wallet's base58 public key.
const WalletKey = "wallet"

var (
	ErrMissingAddress     = errors.New("please enter a token address")
	ErrWalletNotConnected = errors.New("please connect your wallet")
	ErrSigning            = errors.New("signing message failed")
	// ErrStale is returned by a fetch superseded by a newer one. Its result is discarded.
	ErrStale = errors.New("superseded by a newer request")
)

// OrderFetcher is the proxy as the viewer sees it.
type OrderFetcher interface {
	Get(ctx context.Context, path string) (*orders.Book, error)
}

// State is a snapshot of what the view renders.
type State struct {
	Address   string
	Book      *orders.Book
	BuyPage   []orders.Order
	SellPage  []orders.Order
	Message   string
	Page      int
	Err       error
	Connected bool
}

type Viewer struct {
	client OrderFetcher
	store  storage.KeyValueStore
	clock  util.Clock
	logger *zap.SugaredLogger

	mu      sync.Mutex
	wallet  crypto.Wallet
	address string
	book    *orders.Book
	buy     []orders.Order
	sell    []orders.Order
	message string
	page    int
	err     error

	gen    uint64
	cancel context.CancelFunc
}

func New(client OrderFetcher, store storage.KeyValueStore, clock util.Clock, logger *zap.SugaredLogger) *Viewer {
	if clock == nil {
		clock = util.RealClock{}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if store == nil {
		store = storage.NewMemoryStore()
	}
	return &Viewer{client: client, store: store, clock: clock, logger: logger, page: 1}
}

func (v *Viewer) SetAddress(address string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.address = address
}

// Connect attaches a wallet. A wallet that does not implement crypto.MessageSigner
// fetches without a signature.
func (v *Viewer) Connect(w crypto.Wallet) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.wallet = w
}

func (v *Viewer) Disconnect() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.wallet = nil
}

// Restore re-writes a previously stored wallet key and returns it, or "" if none.
func (v *Viewer) Restore() (string, error) {
	raw, ok, err := v.store.Get(WalletKey)
	if err != nil || !ok {
		return "", err
	}
	if err := v.store.Set(WalletKey, raw); err != nil {
		return "", err
	}
	var key string
	if err := json.Unmarshal([]byte(raw), &key); err != nil {
		return "", fmt.Errorf("stored wallet: %w", err)
	}
	return key, nil
}

// Fetch signs an attestation for the current address and loads the first page of
// the book. Missing input fails before any network call. A fetch started later
// cancels this one; a superseded fetch returns ErrStale and leaves state alone.
func (v *Viewer) Fetch(ctx context.Context) error {
	v.mu.Lock()
	address, wallet := v.address, v.wallet
	if address == "" {
		v.mu.Unlock()
		return ErrMissingAddress
	}
	if wallet == nil {
		v.mu.Unlock()
		return ErrWalletNotConnected
	}
	v.gen++
	gen := v.gen
	if v.cancel != nil {
		v.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	now := v.clock.Now()
	v.mu.Unlock()
	defer cancel()

	msg := crypto.BuildAttestation(address, now)
	pub := crypto.EncodeBase58(wallet.PublicKey())

	var sig string
	if signer, ok := wallet.(crypto.MessageSigner); ok {
		raw, err := signer.SignMessage([]byte(msg))
		if err != nil {
			v.logger.Warnw("sign_message_failed", "address", address, "err", err)
			return v.fail(gen, fmt.Errorf("%w: %v", ErrSigning, err))
		}
		sig = crypto.EncodeBase58(raw)
	}

	book, err := v.client.Get(ctx, OrdersPath(address, pub, sig))
	if err != nil {
		return v.fail(gen, err)
	}

	v.mu.Lock()
	if gen != v.gen {
		v.mu.Unlock()
		v.logger.Debugw("fetch_orders_stale", "address", address, "gen", gen)
		return ErrStale
	}
	v.book = book
	v.page = 1
	v.buy = PageSlice(book.BuyOrders, 1)
	v.sell = PageSlice(book.SellOrders, 1)
	v.message = msg
	v.err = nil
	v.mu.Unlock()

	stored, _ := json.Marshal(pub)
	if err := v.store.Set(WalletKey, string(stored)); err != nil {
		v.logger.Warnw("store_wallet_failed", "err", err)
	}
	return nil
}

func (v *Viewer) fail(gen uint64, err error) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		return ErrStale
	}
	v.err = err
	v.logger.Warnw("fetch_orders_failed", "address", v.address, "err", err)
	return err
}

func (v *Viewer) CanBack() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page > 1
}

func (v *Viewer) CanNext() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.canNextLocked()
}

func (v *Viewer) canNextLocked() bool {
	return v.book != nil && v.page < TotalPages(v.book)
}

// Next moves forward one page. It reports false and does nothing on the last page.
func (v *Viewer) Next() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.canNextLocked() {
		return false
	}
	v.setPageLocked(v.page + 1)
	return true
}

// Back moves back one page. It reports false and does nothing on page 1.
func (v *Viewer) Back() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.page <= 1 {
		return false
	}
	v.setPageLocked(v.page - 1)
	return true
}

func (v *Viewer) setPageLocked(page int) {
	v.page = page
	v.buy = PageSlice(v.book.BuyOrders, page)
	v.sell = PageSlice(v.book.SellOrders, page)
}

func (v *Viewer) Snapshot() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return State{
		Address:   v.address,
		Book:      v.book,
		BuyPage:   v.buy,
		SellPage:  v.sell,
		Message:   v.message,
		Page:      v.page,
		Err:       v.err,
		Connected: v.wallet != nil,
	}
}
