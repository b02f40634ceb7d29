package commercesdk

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Client is a client for the Turfa Bazar commerce backend. It provides the
// unauthenticated account operations and the bearer-token checkout, order and
// cart operations the storefront needs.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Limiter paces outbound requests so a misbehaving timer loop cannot
	// hammer the backend. Nil disables pacing.
	Limiter *rate.Limiter
}

// New creates a new commerce backend client with a conservative request
// budget of 10 req/s with bursts of 20.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		Limiter: rate.NewLimiter(rate.Limit(10), 20),
	}
}
