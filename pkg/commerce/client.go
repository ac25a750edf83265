package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/blackboxinc/storefront-backend/pkg/config"
	pkgerrors "github.com/blackboxinc/storefront-backend/pkg/errors"
	"github.com/blackboxinc/storefront-backend/pkg/logger"
)

var errBaseURLRequired = errors.New("commerce base url is required")

// Client talks to the upstream commerce platform. Every response travels in
// the platform envelope {code, message, data}; the client unwraps it once so
// callers only ever see the payload.
type Client struct {
	baseURL *url.URL
	httpc   *http.Client
	logg    *logger.Logger
}

// New builds a client against the configured base URL.
func New(cfg config.CommerceConfig, logg *logger.Logger) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errBaseURLRequired
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing commerce base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("commerce base url %q must be absolute", raw)
	}
	return &Client{
		baseURL: parsed,
		httpc:   &http.Client{Timeout: cfg.Timeout},
		logg:    logg,
	}, nil
}

// Get performs a GET against path and unmarshals the envelope's data field
// into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	data, err := c.do(ctx, http.MethodGet, path, query, "", nil)
	if err != nil {
		return err
	}
	return unmarshalData(data, out)
}

// Post performs a POST with a JSON body and unmarshals the envelope's data
// field into out when out is non-nil. The raw data is returned either way so
// shape-sensitive callers can decide the outcome themselves.
func (c *Client) Post(ctx context.Context, path, bearer string, body any, out any) (json.RawMessage, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
		}
	}
	data, err := c.do(ctx, http.MethodPost, path, nil, bearer, &buf)
	if err != nil {
		return nil, err
	}
	if out != nil {
		if err := unmarshalData(data, out); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, bearer string, body io.Reader) (json.RawMessage, error) {
	target := *c.baseURL
	target.Path = strings.TrimRight(target.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if query != nil {
		target.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upstream request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call commerce api")
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode commerce envelope")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("commerce api returned status %d", resp.StatusCode)
		}
		return nil, pkgerrors.New(pkgerrors.CodeDependency, msg).WithDetails(map[string]any{
			"status": resp.StatusCode,
			"code":   env.Code,
			"path":   path,
		})
	}

	return env.Data, nil
}

func unmarshalData(data json.RawMessage, out any) error {
	if len(data) == 0 || string(data) == "null" {
		return pkgerrors.New(pkgerrors.CodeDependency, "commerce api returned empty data")
	}
	if err := json.Unmarshal(data, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode commerce payload")
	}
	return nil
}
