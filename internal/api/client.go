package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Makepad-fr/tada/internal/model"
)

// Default values
const (
	DefaultBaseURL = "https://jsonplaceholder.typicode.com"
	DefaultLimit   = 20
	DefaultTimeout = 10 * time.Second
)

// Config contains HTTP client configuration.
type Config struct {
	BaseURL string
	Limit   int // cap on todos kept from a fetch; 0 keeps everything
	Timeout time.Duration

	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
	Logger     *log.Logger
}

// Client implements Service over HTTP+JSON. It does not retry.
type Client struct {
	config  Config
	client  *http.Client
	logger  *log.Logger
	schemas *schemas
}

var _ Service = (*Client)(nil)

// NewClient creates a client for the todo collection at cfg.BaseURL.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", cfg.BaseURL, err)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	sch, err := compileSchemas()
	if err != nil {
		return nil, err
	}

	return &Client{
		config:  cfg,
		client:  client,
		logger:  logger,
		schemas: sch,
	}, nil
}

// FetchAll returns the first Limit todos of the collection.
func (c *Client) FetchAll(ctx context.Context) ([]model.Todo, error) {
	var todos []model.Todo
	if err := c.do(ctx, http.MethodGet, "/todos", nil, ErrFetch, c.schemas.list, &todos); err != nil {
		return nil, err
	}
	if c.config.Limit > 0 && len(todos) > c.config.Limit {
		todos = todos[:c.config.Limit]
	}
	return todos, nil
}

// Create posts fields and returns the todo with its server-assigned id.
func (c *Client) Create(ctx context.Context, fields model.Patch) (model.Todo, error) {
	var todo model.Todo
	if err := c.do(ctx, http.MethodPost, "/todos", fields, ErrCreate, c.schemas.todo, &todo); err != nil {
		return model.Todo{}, err
	}
	return todo, nil
}

// Update puts fields to the todo and returns the server's copy.
func (c *Client) Update(ctx context.Context, id model.ID, fields model.Patch) (model.Todo, error) {
	var todo model.Todo
	if err := c.do(ctx, http.MethodPut, todoPath(id), fields, ErrUpdate, c.schemas.todo, &todo); err != nil {
		return model.Todo{}, err
	}
	return todo, nil
}

// Delete removes the todo. The response body is ignored.
func (c *Client) Delete(ctx context.Context, id model.ID) error {
	return c.do(ctx, http.MethodDelete, todoPath(id), nil, ErrDelete, nil, nil)
}

func todoPath(id model.ID) string {
	return "/todos/" + url.PathEscape(id.String())
}

// do sends one request. Transport errors are returned unchanged; a non-2xx
// status or a body that does not match schema yields failure.
func (c *Client) do(ctx context.Context, method, path string, body any, failure error, schema *jsonschema.Schema, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "method", method, "path", path, "err", err)
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug("response", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		c.logger.Warn("unexpected status", "method", method, "path", path, "status", resp.StatusCode)
		return failure
	}
	if out == nil {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if schema != nil {
		if err := validate(schema, data); err != nil {
			c.logger.Warn("invalid response", "method", method, "path", path, "err", err)
			return failure
		}
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.logger.Warn("decode response", "method", method, "path", path, "err", err)
		return failure
	}
	return nil
}
