package crawler

import (
	"context"
	"io"
	"mime"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
	"golang.org/x/xerrors"
)

var _ URLGetter = (*HTTPGetter)(nil)

// GetterConfig holds the settings of HTTPGetter.
type GetterConfig struct {
	UserAgent string
	Timeout   time.Duration

	// RequestsPerSecond caps the request rate. Zero disables the limit.
	RequestsPerSecond float64

	// MaxBodySize truncates response bodies. Zero disables the limit.
	MaxBodySize int64

	// Transport overrides http.DefaultTransport.
	Transport http.RoundTripper
}

// HTTPGetter issues GET requests with a fixed user agent and timeout.
type HTTPGetter struct {
	client      *http.Client
	userAgent   string
	limiter     *rate.Limiter
	maxBodySize int64
}

// NewHTTPGetter returns an HTTPGetter configured with cfg.
func NewHTTPGetter(cfg GetterConfig) *HTTPGetter {
	h := &HTTPGetter{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		userAgent:   cfg.UserAgent,
		maxBodySize: cfg.MaxBodySize,
	}
	if cfg.RequestsPerSecond > 0 {
		h.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return h
}

// Get fetches url after waiting for the rate limiter, capping the body at
// the configured size.
func (h *HTTPGetter) Get(ctx context.Context, url string) (*http.Response, error) {
	if h.limiter != nil {
		if err := h.limiter.Wait(ctx); err != nil {
			return nil, xerrors.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}

	res, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	if h.maxBodySize > 0 {
		res.Body = &limitedBody{Reader: io.LimitReader(res.Body, h.maxBodySize), Closer: res.Body}
	}
	return res, nil
}

type limitedBody struct {
	io.Reader
	io.Closer
}

// decodedBody returns the body of res transcoded to UTF-8 when the
// response declares another charset.
func decodedBody(res *http.Response) io.Reader {
	_, params, err := mime.ParseMediaType(res.Header.Get("Content-Type"))
	if err != nil || params["charset"] == "" {
		return res.Body
	}
	enc, name := charset.Lookup(params["charset"])
	if enc == nil || name == "utf-8" {
		return res.Body
	}
	return enc.NewDecoder().Reader(res.Body)
}
