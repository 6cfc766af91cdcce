// Package specify is a client for the Specify ad-serving API.
package specify

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"adview/internal/config"
	"adview/internal/model"

	"github.com/cockroachdb/errors"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// PublisherKeyHeader carries the publisher credential on every request.
const PublisherKeyHeader = "X-Publisher-Key"

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Server serves ad content for a wallet address. A nil content with a nil
// error means no ad is available for the wallet.
type Server interface {
	Serve(ctx context.Context, walletAddress string) (*model.AdContent, error)
}

// Client implements Server over HTTP.
type Client struct {
	rest          *resty.Client
	authenticated bool
}

// Option customizes a Client.
type Option func(*options)

type options struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// WithHTTPClient makes the client send requests through hc.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithLogger routes resty's diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

type serveRequest struct {
	WalletAddress string `json:"walletAddress"`
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field"`
}

func (e *apiError) text() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// New returns a client authenticated with cfg's publisher key. A client
// built without a key fails every Serve call with an AuthenticationError and
// sends nothing.
func New(cfg config.Config, opts ...Option) *Client {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	var rest *resty.Client
	if o.httpClient != nil {
		rest = resty.NewWithClient(o.httpClient)
	} else {
		rest = resty.New()
	}
	rest.SetBaseURL(cfg.APIURL).
		SetTimeout(cfg.Timeout).
		SetHeader(PublisherKeyHeader, cfg.PublisherKey).
		SetHeader("Accept", "application/json").
		SetLogger(o.logger.Sugar())

	return &Client{rest: rest, authenticated: cfg.PublisherKey != ""}
}

// ValidateAddress checks that address is a 0x-prefixed 20-byte hex address.
func ValidateAddress(address string) error {
	if !addressPattern.MatchString(address) {
		return &ValidationError{Field: "walletAddress", Message: "invalid wallet address format"}
	}
	return nil
}

// Serve fetches ad content for walletAddress.
func (c *Client) Serve(ctx context.Context, walletAddress string) (*model.AdContent, error) {
	if !c.authenticated {
		return nil, &AuthenticationError{Message: config.ErrMissingPublisherKey.Error()}
	}
	if err := ValidateAddress(walletAddress); err != nil {
		return nil, err
	}

	var content model.AdContent
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(serveRequest{WalletAddress: walletAddress}).
		SetResult(&content).
		SetError(&apiError{}).
		Post("/ads")
	if err != nil {
		return nil, errors.Wrap(err, "serve request")
	}

	status := resp.StatusCode()
	switch {
	case status == http.StatusNoContent, status == http.StatusNotFound:
		return nil, nil
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return nil, &AuthenticationError{StatusCode: status, Message: errorText(resp)}
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		msg := errorText(resp)
		if msg == "" {
			msg = "invalid wallet address format"
		}
		field := "walletAddress"
		if e, ok := resp.Error().(*apiError); ok && e.Field != "" {
			field = e.Field
		}
		return nil, &ValidationError{Field: field, Message: msg}
	case resp.IsError():
		if msg := errorText(resp); msg != "" {
			return nil, errors.Newf("ad server returned %d: %s", status, msg)
		}
		return nil, errors.Newf("ad server returned %d", status)
	}

	if body := strings.TrimSpace(string(resp.Body())); body == "" || body == "null" {
		return nil, nil
	}
	// resty only decodes JSON bodies into the result.
	if !resty.IsJSONType(resp.Header().Get("Content-Type")) {
		return nil, errors.Newf("ad server returned %d: unexpected body", status)
	}
	return &content, nil
}

func errorText(resp *resty.Response) string {
	if e, ok := resp.Error().(*apiError); ok {
		if text := e.text(); text != "" {
			return text
		}
	}
	return strings.TrimSpace(string(resp.Body()))
}
