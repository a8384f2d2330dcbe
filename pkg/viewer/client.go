package viewer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/uhyunpark/dexbook/pkg/orders"
)

var (
	// ErrTransport covers failures to reach the proxy or read its body.
	ErrTransport = errors.New("proxy request failed")
	// ErrMalformedResponse is a body that does not match the response schema.
	ErrMalformedResponse = orders.ErrMalformed
)

// ProxyError is an error body returned by the proxy.
type ProxyError struct {
	Status  int
	Message string
}

func (e *ProxyError) Error() string {
	return fmt.Sprintf("proxy returned %d: %s", e.Status, e.Message)
}

// OrdersPath builds the proxy path. The signed form is used only when both the
// wallet key and signature are present.
func OrdersPath(address, walletPublicKey, signature string) string {
	p := "/api/v1/getOrders/" + url.PathEscape(address)
	if walletPublicKey != "" && signature != "" {
		p += "/" + url.PathEscape(walletPublicKey) + "/" + url.PathEscape(signature)
	}
	return p
}

type ProxyClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewProxyClient(baseURL string, client *http.Client) *ProxyClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &ProxyClient{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: client}
}

// Get issues the request and parses the body at the boundary. A non-2xx status with
// an error body is *ProxyError; anything unparseable is ErrMalformedResponse.
func (c *ProxyClient) Get(ctx context.Context, path string) (*orders.Book, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	env, err := orders.DecodeEnvelope(body)
	if err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &ProxyError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return nil, err
	}
	if env.Error != "" {
		return nil, &ProxyError{Status: resp.StatusCode, Message: env.Error}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ProxyError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return env.Response, nil
}
