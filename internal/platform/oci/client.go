package oci

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/oracle/oci-go-sdk/v65/common"

	"github.com/imamik/capacityhunt/internal/config"
	"github.com/imamik/capacityhunt/internal/provider"
)

// EndpointTemplate is the LaunchInstance endpoint of the Core Services API.
const EndpointTemplate = "https://iaas.%s.oraclecloud.com/20160918/instances/"

// maxBodySize bounds how much of a response is read. Larger bodies are an error.
const maxBodySize = 1 << 20

// Client implements provider.Transport for Oracle Cloud.
type Client struct {
	endpoint   string
	signer     common.HTTPRequestSigner
	httpClient *http.Client
}

var _ provider.Transport = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithEndpoint overrides the regional endpoint (useful for testing).
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithSigner replaces the request signer.
func WithSigner(s common.HTTPRequestSigner) ClientOption {
	return func(c *Client) {
		c.signer = s
	}
}

// NewClient reads the private key and builds a signing client for cfg.Region.
func NewClient(cfg config.OCI, timeout time.Duration, opts ...ClientOption) (*Client, error) {
	// #nosec G304
	key, err := os.ReadFile(cfg.KeyFile)
	if err != nil {
		return nil, &config.Error{Field: "OCI_KEY_FILE_PATH", Err: fmt.Errorf("failed to read private key: %w", err)}
	}

	var passphrase *string
	if cfg.KeyPassphrase != "" {
		passphrase = common.String(cfg.KeyPassphrase)
	}

	configProvider := common.NewRawConfigurationProvider(cfg.Tenancy, cfg.User, cfg.Region, cfg.Fingerprint, string(key), passphrase)
	if _, err := configProvider.PrivateRSAKey(); err != nil {
		return nil, &config.Error{Field: "OCI_KEY_FILE_PATH", Err: fmt.Errorf("failed to parse private key: %w", err)}
	}

	c := &Client{
		endpoint:   fmt.Sprintf(EndpointTemplate, cfg.Region),
		signer:     common.DefaultRequestSigner(configProvider),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name implements provider.Transport.
func (c *Client) Name() string {
	return "Oracle Cloud"
}

// Endpoint returns the URL requests are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Send posts payload to the LaunchInstance endpoint.
// Any HTTP status is a response; network, signing and oversized-body failures are errors.
func (c *Client) Send(ctx context.Context, payload []byte) (*provider.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Length", strconv.Itoa(len(payload)))
	req.Header.Set("Date", time.Now().UTC().Format(http.TimeFormat))

	if err := c.signer.Sign(req); err != nil {
		return nil, fmt.Errorf("failed to sign request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("response body with status %d exceeds %d bytes", resp.StatusCode, maxBodySize)
	}

	return &provider.Response{StatusCode: resp.StatusCode, Body: body}, nil
}
