package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wave-client/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Options configures a Client.
type Options struct {
	// Origin is the scheme and host a relative Base is resolved against.
	Origin string
	// Base is the configured API base, relative ("/api") or absolute.
	Base string
	// Timeout of 0 leaves the transport default.
	Timeout time.Duration
}

// Client calls the wave backend. It never retries, caches or de-duplicates;
// every method issues exactly one request.
type Client struct {
	httpClient *resty.Client
	root       *url.URL
	logger     *zap.Logger
}

// NewClient creates a Client.
func NewClient(opts Options, logger *zap.Logger) (*Client, error) {
	origin, err := url.Parse(strings.TrimSpace(opts.Origin))
	if err != nil {
		return nil, fmt.Errorf("invalid api origin %q: %w", opts.Origin, err)
	}
	if origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("invalid api origin %q: scheme and host required", opts.Origin)
	}
	base, err := url.Parse(strings.TrimSpace(opts.Base))
	if err != nil {
		return nil, fmt.Errorf("invalid api base %q: %w", opts.Base, err)
	}
	root := origin.ResolveReference(base)
	root.RawQuery = ""
	root.Fragment = ""

	httpClient := resty.New().
		SetRetryCount(0).
		SetLogger(logger.Sugar())
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}

	return &Client{
		httpClient: httpClient,
		root:       root,
		logger:     logger,
	}, nil
}

// URL returns the absolute URL for the route segments, e.g. URL("forum", "posts").
// Each segment is escaped as a single path element.
func (c *Client) URL(segments ...string) string {
	return c.endpoint(segments...).String()
}

func (c *Client) endpoint(segments ...string) *url.URL {
	var parts []string
	for _, s := range strings.Split(c.root.Path, "/") {
		if s != "" {
			parts = append(parts, s)
		}
	}
	// every route lives under <base>/api; a base that already ends in api
	// would otherwise double it
	parts = append(parts, "api")
	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}

	collapsed := parts[:0]
	for _, p := range parts {
		if p == "api" && len(collapsed) > 0 && collapsed[len(collapsed)-1] == "api" {
			continue
		}
		collapsed = append(collapsed, p)
	}

	escaped := make([]string, len(collapsed))
	for i, p := range collapsed {
		escaped[i] = url.PathEscape(p)
	}

	u := *c.root
	u.RawPath = "/" + strings.Join(escaped, "/")
	u.Path = "/" + strings.Join(collapsed, "/")
	return &u
}

var errNotPresent = errors.New("not present")

// call describes one request.
type call struct {
	method string
	route  []string
	body   any
	// json marks requests that send Content-Type: application/json.
	json  bool
	token string
	// identity marks endpoints that fall back to ?deviceId= without a token.
	identity bool
	deviceID string
}

func (c *Client) do(ctx context.Context, in call) ([]byte, string, error) {
	u := c.endpoint(in.route...)
	path := u.EscapedPath()

	req := c.httpClient.R().SetContext(ctx)
	if in.json {
		req.SetHeader("Content-Type", "application/json")
	}
	if in.token != "" {
		req.SetAuthToken(in.token)
	} else if in.identity {
		req.SetQueryParam("deviceId", in.deviceID)
	}
	if in.body != nil {
		body, err := encodeBody(in.body)
		if err != nil {
			return nil, path, fmt.Errorf("%s %s: encode body: %w", in.method, path, err)
		}
		req.SetBody(body)
	}

	resp, err := req.Execute(in.method, u.String())
	if err != nil {
		c.logger.Debug("API request failed",
			zap.String("method", in.method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, path, &NetworkError{Method: in.method, Path: path, Err: err}
	}

	c.logger.Debug("API request",
		zap.String("method", in.method),
		zap.String("path", path),
		zap.Int("status_code", resp.StatusCode()),
	)

	if !resp.IsSuccess() {
		return nil, path, &StatusError{
			Method:     in.method,
			Path:       path,
			StatusCode: resp.StatusCode(),
			Body:       strings.TrimSpace(string(resp.Body())),
		}
	}
	return resp.Body(), path, nil
}

// encodeBody marshals without HTML escaping so user text goes over the wire as typed.
func encodeBody(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// object performs the call and decodes a JSON object.
func (c *Client) object(ctx context.Context, in call) (models.Object, error) {
	body, path, err := c.do(ctx, in)
	if err != nil {
		return nil, err
	}
	var out models.Object
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &DecodeError{Method: in.method, Path: path, Err: err}
	}
	return out, nil
}

// into performs the call and decodes the whole body into dst.
func (c *Client) into(ctx context.Context, in call, dst any) error {
	body, path, err := c.do(ctx, in)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return &DecodeError{Method: in.method, Path: path, Err: err}
	}
	return nil
}

// field performs the call and decodes one required top-level field into dst.
// An absent field is an error; an explicit null leaves dst at its zero value.
func (c *Client) field(ctx context.Context, in call, name string, dst any) error {
	body, path, err := c.do(ctx, in)
	if err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return &DecodeError{Method: in.method, Path: path, Err: err}
	}
	raw, ok := fields[name]
	if !ok {
		return &DecodeError{Method: in.method, Path: path, Field: name, Err: errNotPresent}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &DecodeError{Method: in.method, Path: path, Field: name, Err: err}
	}
	return nil
}

func post(route []string, body any, token string) call {
	return call{method: http.MethodPost, route: route, body: body, json: true, token: token}
}
