package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when a source has no book for the address.
var ErrNotFound = errors.New("not found")

// Source retrieves the aggregated order book for a token address.
type Source interface {
	GetOrders(ctx context.Context, address string) (*Book, error)
}

// HTTPSource forwards to an upstream aggregator at BaseURL/orders/{address}.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPSource(baseURL string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{BaseURL: strings.TrimRight(baseURL, "/"), Client: client}
}

func (s *HTTPSource) GetOrders(ctx context.Context, address string) (*Book, error) {
	endpoint := s.BaseURL + "/orders/" + url.PathEscape(address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return nil, errors.New(e.Error)
		}
		return nil, fmt.Errorf("upstream returned %s", resp.Status)
	}

	return decodeBook(body)
}

// FileSource serves books from Dir/<address>.json. It stands in for the
// aggregator during development.
type FileSource struct {
	Dir string
}

func (s *FileSource) GetOrders(ctx context.Context, address string) (*Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// Reject anything that would escape Dir.
	if address != filepath.Base(address) || strings.HasPrefix(address, ".") {
		return nil, ErrNotFound
	}

	body, err := os.ReadFile(filepath.Join(s.Dir, address+".json"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeBook(body)
}

func decodeBook(body []byte) (*Book, error) {
	var book Book
	if err := json.Unmarshal(body, &book); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := book.Validate(); err != nil {
		return nil, err
	}
	return &book, nil
}
