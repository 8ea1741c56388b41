package hcloud

import (
	"net/http"
	"time"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/capacityhunt/internal/provider"
)

// Client implements provider.Transport using the Hetzner Cloud API.
type Client struct {
	client *hcloud.Client
}

var _ provider.Transport = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*clientOptions)

type clientOptions struct {
	endpoint string
	timeout  time.Duration
	version  string
}

// WithEndpoint overrides the API endpoint (useful for testing).
func WithEndpoint(endpoint string) ClientOption {
	return func(o *clientOptions) {
		o.endpoint = endpoint
	}
}

// WithTimeout bounds each API call. Zero means no bound.
func WithTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithVersion sets the application version reported in the User-Agent.
func WithVersion(v string) ClientOption {
	return func(o *clientOptions) {
		o.version = v
	}
}

// NewClient creates a new Client with optional configuration.
//
// The library's own retry handler is disabled: every Send issues exactly one
// create call and throttling is reported back as a response.
func NewClient(token string, opts ...ClientOption) *Client {
	o := &clientOptions{version: "dev"}
	for _, opt := range opts {
		opt(o)
	}

	hcOpts := []hcloud.ClientOption{
		hcloud.WithToken(token),
		hcloud.WithApplication("capacityhunt", o.version),
		hcloud.WithHTTPClient(&http.Client{Timeout: o.timeout}),
		hcloud.WithRetryOpts(hcloud.RetryOpts{MaxRetries: 0}),
	}
	if o.endpoint != "" {
		hcOpts = append(hcOpts, hcloud.WithEndpoint(o.endpoint))
	}

	return &Client{client: hcloud.NewClient(hcOpts...)}
}

// Name implements provider.Transport.
func (c *Client) Name() string {
	return "Hetzner Cloud"
}
