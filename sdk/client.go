// Package sdk is the Go client for the Viah API. Besides typed endpoint
// helpers it carries the client-side policies the web app relies on: a query
// cache, the vendor-grouped inbox and the optimistic dashboard reorder.
package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// Request is one API call as seen by a Transport
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
	Token  string
}

// Response is the standard API envelope
type Response struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Transport performs a Request and decodes the envelope. Non-2xx statuses
// that still carry an envelope (409 duplicate vendor, 401) are not errors at
// this level.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Client is the SDK client for the Viah API
type Client struct {
	baseURL    string
	httpClient *client.Client
	transport  Transport
	token      string
}

// ClientOption is a function to configure the client
type ClientOption func(*Client)

// WithHertzClient sets a custom Hertz client for the default transport
func WithHertzClient(httpClient *client.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTransport replaces the HTTP transport
func WithTransport(t Transport) ClientOption {
	return func(c *Client) {
		c.transport = t
	}
}

// WithToken sets the authentication token
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// NewClient creates a new SDK client. baseURL is the server root, e.g.
// http://localhost:8080; the /api prefix is added per call.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	c := &Client{baseURL: baseURL}
	for _, opt := range opts {
		opt(c)
	}

	if c.transport == nil {
		if c.httpClient == nil {
			httpClient, err := client.NewClient(
				client.WithDialTimeout(10*time.Second),
				client.WithClientReadTimeout(30*time.Second),
				client.WithWriteTimeout(30*time.Second),
			)
			if err != nil {
				return nil, fmt.Errorf("failed to create http client: %w", err)
			}
			c.httpClient = httpClient
		}
		c.transport = &hertzTransport{baseURL: baseURL, httpClient: c.httpClient}
	}
	return c, nil
}

// MustNewClient creates a new SDK client and panics on error
func MustNewClient(baseURL string, opts ...ClientOption) *Client {
	c, err := NewClient(baseURL, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// SetToken sets the authentication token
func (c *Client) SetToken(token string) {
	c.token = token
}

// GetToken returns the current token
func (c *Client) GetToken() string {
	return c.token
}

// BaseURL returns the server root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do runs one call. On a nonzero code the data, if any, is still decoded
// into result so callers can surface the conflicting resource.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, result interface{}) error {
	resp, err := c.transport.Do(ctx, &Request{
		Method: method,
		Path:   "/api" + path,
		Query:  query,
		Body:   body,
		Token:  c.token,
	})
	if err != nil {
		return err
	}

	if result != nil && len(resp.Data) > 0 && string(resp.Data) != "null" {
		if err := json.Unmarshal(resp.Data, result); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	if resp.Code != CodeSuccess {
		return &Error{Code: resp.Code, Msg: resp.Msg}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result interface{}) error {
	return c.do(ctx, consts.MethodGet, path, query, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, consts.MethodPost, path, nil, body, result)
}

func (c *Client) put(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, consts.MethodPut, path, nil, body, result)
}

func (c *Client) patch(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, consts.MethodPatch, path, nil, body, result)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, consts.MethodDelete, path, nil, nil, nil)
}

// hertzTransport sends JSON requests with the Hertz HTTP client
type hertzTransport struct {
	baseURL    string
	httpClient *client.Client
}

func (t *hertzTransport) Do(ctx context.Context, r *Request) (*Response, error) {
	reqURL := t.baseURL + r.Path
	if len(r.Query) > 0 {
		reqURL += "?" + r.Query.Encode()
	}

	req := &protocol.Request{}
	resp := &protocol.Response{}

	req.SetMethod(r.Method)
	req.SetRequestURI(reqURL)
	if r.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.Token)
	}

	if r.Body != nil {
		jsonBody, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.SetBody(jsonBody)
	}

	if err := t.httpClient.Do(ctx, req, resp); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	var apiResp Response
	if err := json.Unmarshal(resp.Body(), &apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: status=%d, error=%w", resp.StatusCode(), err)
	}
	return &apiResp, nil
}
