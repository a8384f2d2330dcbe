package orders

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleBook = `{"buyOrders":[{"SellAmount":"100","BuyAmount":"1.5","Exchange":"raydium"}],"sellOrders":[{"SellAmount":"2","BuyAmount":"150","Exchange":"orca"}]}`

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "TokenABC.json"), []byte(sampleBook), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Broken.json"), []byte(`{"buyOrders":[]}`), 0o644))

	src := &FileSource{Dir: dir}

	book, err := src.GetOrders(context.Background(), "TokenABC")
	require.NoError(t, err)
	assert.Equal(t, "raydium", book.BuyOrders[0].Exchange)
	assert.Equal(t, "orca", book.SellOrders[0].Exchange)

	_, err = src.GetOrders(context.Background(), "Missing")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "not found", err.Error())

	_, err = src.GetOrders(context.Background(), "../etc/passwd")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = src.GetOrders(context.Background(), "Broken")
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestHTTPSource(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/orders/TokenABC":
			w.Write([]byte(sampleBook))
		case "/orders/Missing":
			w.WriteHeader(http.StatusNotFound)
		case "/orders/Boom":
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"error":"aggregator offline"}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer upstream.Close()

	src := NewHTTPSource(upstream.URL+"/", upstream.Client())

	book, err := src.GetOrders(context.Background(), "TokenABC")
	require.NoError(t, err)
	assert.Len(t, book.BuyOrders, 1)

	_, err = src.GetOrders(context.Background(), "Missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = src.GetOrders(context.Background(), "Boom")
	require.Error(t, err)
	assert.Equal(t, "aggregator offline", err.Error())

	_, err = src.GetOrders(context.Background(), "Other")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

type mapCache struct {
	mu      sync.Mutex
	entries map[string]string
	getErr  error
	sets    int
}

func (c *mapCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return "", c.getErr
	}
	v, ok := c.entries[key]
	if !ok {
		return "", ErrCacheMiss
	}
	return v, nil
}

func (c *mapCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	c.sets++
	return nil
}

type countingSource struct {
	calls int
	book  *Book
	err   error
}

func (s *countingSource) GetOrders(context.Context, string) (*Book, error) {
	s.calls++
	return s.book, s.err
}

func TestCachedSource(t *testing.T) {
	inner := &countingSource{book: &Book{
		BuyOrders:  []Order{{SellAmount: "1", BuyAmount: "2", Exchange: "orca"}},
		SellOrders: []Order{},
	}}
	cache := &mapCache{entries: map[string]string{}}
	src := &CachedSource{Source: inner, Cache: cache, TTL: time.Second, Logger: zap.NewNop().Sugar()}

	first, err := src.GetOrders(context.Background(), "TokenABC")
	require.NoError(t, err)
	second, err := src.GetOrders(context.Background(), "TokenABC")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls, "second call served from cache")
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.sets)
}

func TestCachedSourceFallsThrough(t *testing.T) {
	inner := &countingSource{err: ErrNotFound}
	cache := &mapCache{entries: map[string]string{}, getErr: errors.New("connection refused")}
	src := &CachedSource{Source: inner, Cache: cache, TTL: time.Second, Logger: zap.NewNop().Sugar()}

	_, err := src.GetOrders(context.Background(), "TokenABC")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 0, cache.sets, "errors are not cached")
}
