package figma

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/tidwall/gjson"
	"github.com/v0xg/clickflow/internal/design"
)

// DefaultBaseURL is the public Figma REST endpoint.
const DefaultBaseURL = "https://api.figma.com"

// Client talks to the Figma REST API for a single file.
type Client struct {
	baseURL    string
	token      string
	fileKey    string
	httpClient *http.Client
	logger     *slog.Logger
	timeout    time.Duration
	retries    uint64
	initial    time.Duration
}

// Option configures the Client during construction.
type Option func(*Client) error

// New creates a Client for the file identified by fileKey.
// The token is sent in the X-Figma-Token header on API calls.
func New(token, fileKey string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("figma: token is required")
	}
	if fileKey == "" {
		return nil, fmt.Errorf("figma: file key is required")
	}

	c := &Client{
		baseURL:    DefaultBaseURL,
		token:      token,
		fileKey:    fileKey,
		httpClient: &http.Client{},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout:    30 * time.Second,
		retries:    3,
		initial:    500 * time.Millisecond,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// WithBaseURL points the client at another API host.
func WithBaseURL(u string) Option {
	return func(c *Client) error {
		if u == "" {
			return fmt.Errorf("figma: empty base URL")
		}
		c.baseURL = strings.TrimSuffix(u, "/")
		return nil
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		c.httpClient = hc
		return nil
	}
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) error {
		c.logger = l
		return nil
	}
}

// WithTimeout bounds every single request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		c.timeout = d
		return nil
	}
}

// WithRetry sets how many times a failed render or download is retried and
// the first backoff interval.
func WithRetry(retries uint64, initial time.Duration) Option {
	return func(c *Client) error {
		c.retries = retries
		if initial > 0 {
			c.initial = initial
		}
		return nil
	}
}

// FetchDocument downloads the file and decodes its node tree.
// It is not retried; callers treat its failure as fatal.
func (c *Client) FetchDocument(ctx context.Context) (*design.Document, error) {
	endpoint := fmt.Sprintf("%s/v1/files/%s", c.baseURL, url.PathEscape(c.fileKey))
	body, err := c.get(ctx, "fetch document", endpoint, true)
	if err != nil {
		return nil, err
	}
	doc, err := design.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	return doc, nil
}

// RenderNode asks Figma to render a node as PNG and returns the image URL.
// An empty URL with a nil error means Figma could not render the node.
func (c *Client) RenderNode(ctx context.Context, nodeID string) (string, error) {
	q := url.Values{}
	q.Set("ids", nodeID)
	q.Set("format", "png")
	endpoint := fmt.Sprintf("%s/v1/images/%s?%s", c.baseURL, url.PathEscape(c.fileKey), q.Encode())

	var imageURL string
	err := c.retry(ctx, func() error {
		body, err := c.get(ctx, "render node", endpoint, true)
		if err != nil {
			return err
		}
		res := gjson.ParseBytes(body)
		if msg := res.Get("err"); msg.Exists() && msg.Type != gjson.Null {
			return &APIError{Operation: "render node", StatusCode: http.StatusOK, Message: msg.String()}
		}
		imageURL = res.Get("images." + gjson.Escape(nodeID)).String()
		return nil
	})
	return imageURL, err
}

// Download fetches the raw bytes behind an image URL. Render URLs are
// pre-signed, so no token is sent.
func (c *Client) Download(ctx context.Context, imageURL string) ([]byte, error) {
	if imageURL == "" {
		return nil, fmt.Errorf("download: empty URL")
	}
	var data []byte
	err := c.retry(ctx, func() error {
		body, err := c.get(ctx, "download", imageURL, false)
		if err != nil {
			return err
		}
		data = body
		return nil
	})
	return data, err
}

// retry runs op with exponential backoff, giving up at once on errors that
// cannot succeed on a second attempt.
func (c *Client) retry(ctx context.Context, op func() error) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.initial
	b := backoff.WithContext(backoff.WithMaxRetries(eb, c.retries), ctx)

	attempt := func() error {
		err := op()
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		c.logger.DebugContext(ctx, "retrying request", "error", err, "wait", wait)
	}
	return backoff.RetryNotify(attempt, b, notify)
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	return true
}

// get performs one GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, operation, endpoint string, auth bool) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", operation, err)
	}
	if auth {
		req.Header.Set("X-Figma-Token", c.token)
	}

	c.logger.DebugContext(ctx, "API request", "operation", operation, "url", redact(endpoint))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: do request: %w", operation, err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "API response", "operation", operation, "status", resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", operation, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(operation, resp.StatusCode, body)
	}
	return body, nil
}

// redact drops the query string, which carries signatures on image URLs.
func redact(endpoint string) string {
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		return endpoint[:i]
	}
	return endpoint
}
