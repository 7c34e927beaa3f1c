package fehres

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// EnvFehresURL names the environment variable holding the backend base URL.
const EnvFehresURL = "FEHRES_URL"

// Client is the main client for the Fehres backend API.
//
// Example usage:
//
//	client, err := fehres.NewClient(fehres.WithBaseURL("http://localhost:8000/api/v1"))
//	if err != nil { ... }
//
//	resp, err := client.Data.Process(ctx, 1, &fehres.ProcessRequest{DoReset: 1})
//
// The base URL may also be supplied as a resolver function so settings
// changes apply to the next call:
//
//	client, _ := fehres.NewClient(fehres.WithBaseURLFunc(store.APIURL))
type Client struct {
	baseURL      string
	resolveURL   func() string
	doer         HTTPDoer
	logger       *slog.Logger
	http         *httpClient
	Data         *DataResource
	Index        *IndexResource
	Prescription *PrescriptionResource
}

// Option is a function that configures the Client.
type Option func(*Client) error

// WithBaseURL sets a fixed base URL for the backend API.
func WithBaseURL(url string) Option {
	return func(c *Client) error {
		c.baseURL = strings.TrimRight(url, "/")
		return nil
	}
}

// WithBaseURLFunc sets a resolver called on every request to obtain the
// current base URL. Takes precedence over WithBaseURL.
func WithBaseURLFunc(resolve func() string) Option {
	return func(c *Client) error {
		c.resolveURL = resolve
		return nil
	}
}

// WithHTTPDoer sets a custom HTTP doer (for testing).
func WithHTTPDoer(doer HTTPDoer) Option {
	return func(c *Client) error {
		c.doer = doer
		return nil
	}
}

// WithLogger sets a structured logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// NewClient creates a new Fehres backend client.
//
// If no base URL is configured, it is read from the FEHRES_URL environment
// variable.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.resolveURL == nil {
		if c.baseURL == "" {
			c.baseURL = strings.TrimRight(os.Getenv(EnvFehresURL), "/")
		}
		if c.baseURL == "" {
			return nil, &ConfigurationError{
				Message: "backend URL not configured. Either pass WithBaseURL option or set " + EnvFehresURL + " environment variable",
			}
		}
		fixed := c.baseURL
		c.resolveURL = func() string { return fixed }
	}

	c.http = newHTTPClient(c.resolveURL, c.doer, c.logger)
	c.Data = newDataResource(c.http)
	c.Index = newIndexResource(c.http)
	c.Prescription = newPrescriptionResource(c.http)

	return c, nil
}

// BaseURL returns the base URL currently in effect.
func (c *Client) BaseURL() string {
	return c.resolveURL()
}

// Health checks backend availability via GET / and returns the app banner.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.http.get(ctx, "/", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
