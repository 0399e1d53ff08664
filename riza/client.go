package riza

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/riza-io/riza-mcp/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultBaseURL = "https://api.riza.io"
	DefaultTimeout = 30 * time.Second
	// APIKeyEnv is consulted when no key is supplied explicitly.
	APIKeyEnv = "RIZA_API_KEY"

	maxErrorBody = 4 << 10
)

// Client talks to the Riza REST API.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	observer   *telemetry.Observer
}

// Option customises a Client.
type Option func(c *Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithAPIKey sets the bearer token; an empty key keeps the environment default.
func WithAPIKey(apiKey string) Option {
	return func(c *Client) {
		if apiKey != "" {
			c.apiKey = apiKey
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout sets the per-call deadline; zero keeps the default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithObserver records spans and metrics for each call.
func WithObserver(observer *telemetry.Observer) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// New creates a client. The API key defaults to $RIZA_API_KEY.
func New(options ...Option) *Client {
	ret := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     os.Getenv(APIKeyEnv),
		timeout:    DefaultTimeout,
		httpClient: &http.Client{},
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// CreateTool registers new tool code with the remote service.
func (c *Client) CreateTool(ctx context.Context, params *CreateToolParams) (*Tool, error) {
	if params == nil {
		params = &CreateToolParams{}
	}
	if err := params.Validate(); err != nil {
		return nil, &RemoteServiceError{Op: "create_tool", Err: err}
	}
	ret := &Tool{}
	if err := c.do(ctx, "create_tool", http.MethodPost, "/v1/tools", params, ret, attribute.String("tool_name", params.Name)); err != nil {
		return nil, err
	}
	return ret, nil
}

// GetTool fetches a tool by id.
func (c *Client) GetTool(ctx context.Context, id string) (*Tool, error) {
	if id == "" {
		return nil, &RemoteServiceError{Op: "get_tool", Err: errors.New("tool id was empty")}
	}
	ret := &Tool{}
	if err := c.do(ctx, "get_tool", http.MethodGet, "/v1/tools/"+url.PathEscape(id), nil, ret, attribute.String("tool_id", id)); err != nil {
		return nil, err
	}
	return ret, nil
}

// UpdateTool changes an existing tool and returns its new revision.
func (c *Client) UpdateTool(ctx context.Context, id string, params *UpdateToolParams) (*Tool, error) {
	if id == "" {
		return nil, &RemoteServiceError{Op: "update_tool", Err: errors.New("tool id was empty")}
	}
	if params == nil {
		params = &UpdateToolParams{}
	}
	ret := &Tool{}
	if err := c.do(ctx, "update_tool", http.MethodPost, "/v1/tools/"+url.PathEscape(id), params, ret, attribute.String("tool_id", id)); err != nil {
		return nil, err
	}
	return ret, nil
}

// ExecuteTool runs a tool with the supplied input. A non-zero exit code is not
// an error here; callers inspect ExecuteToolResult.Failed.
func (c *Client) ExecuteTool(ctx context.Context, id string, params *ExecuteToolParams) (*ExecuteToolResult, error) {
	if id == "" {
		return nil, &RemoteServiceError{Op: "execute_tool", Err: errors.New("tool id was empty")}
	}
	if params == nil {
		params = &ExecuteToolParams{}
	}
	if params.Input == nil {
		params.Input = map[string]interface{}{}
	}
	ret := &ExecuteToolResult{}
	if err := c.do(ctx, "execute_tool", http.MethodPost, "/v1/tools/"+url.PathEscape(id)+"/execute", params, ret, attribute.String("tool_id", id)); err != nil {
		return nil, err
	}
	return ret, nil
}

// ExecuteCode runs an ad-hoc script.
func (c *Client) ExecuteCode(ctx context.Context, params *ExecuteCodeParams) (*ExecuteCodeResult, error) {
	if params == nil || params.Code == "" {
		return nil, &RemoteServiceError{Op: "execute_code", Err: errors.New("code was empty")}
	}
	if params.Language == "" {
		params.Language = DefaultLanguage
	}
	ret := &ExecuteCodeResult{}
	if err := c.do(ctx, "execute_code", http.MethodPost, "/v1/execute", params, ret, attribute.String("language", string(params.Language))); err != nil {
		return nil, err
	}
	return ret, nil
}

// ListTools returns every tool visible to the API key.
func (c *Client) ListTools(ctx context.Context) ([]*Tool, error) {
	ret := &listToolsResponse{}
	if err := c.do(ctx, "list_tools", http.MethodGet, "/v1/tools", nil, ret); err != nil {
		return nil, err
	}
	return ret.Tools, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}, attrs ...attribute.KeyValue) (err error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	ctx, finish := c.observer.Start(ctx, op, attrs...)
	defer func() { finish(err) }()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &RemoteServiceError{Op: op, Message: "failed to encode request", Err: err}
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &RemoteServiceError{Op: op, Message: "failed to create request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RemoteServiceError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &RemoteServiceError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}
	if out == nil {
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RemoteServiceError{Op: op, StatusCode: resp.StatusCode, Message: "failed to decode response", Err: err}
	}
	return nil
}

// errorMessage extracts the message from an API error body, falling back to the raw text.
func errorMessage(data []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return fmt.Sprintf("%.200s", strings.TrimSpace(string(data)))
}
