// Package dummyjson implements the service.Service interface over the
// dummyjson-style REST todos API.
package dummyjson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"todos/internal/logging"
	"todos/internal/metrics"
	"todos/internal/service"
)

// DefaultBaseURL is the public dummyjson endpoint.
const DefaultBaseURL = "https://dummyjson.com/"

// maxBodySize caps how much of a response body is read.
const maxBodySize = 4 << 20

// wireTask is the JSON shape of a single todo.
type wireTask struct {
	ID        int    `json:"id"`
	Todo      string `json:"todo"`
	Completed bool   `json:"completed"`
	UserID    int    `json:"userId"`
}

// wireList is the JSON shape of GET /todos.
type wireList struct {
	Todos []wireTask `json:"todos"`
	Total int        `json:"total"`
	Skip  int        `json:"skip"`
	Limit int        `json:"limit"`
}

func toWire(t service.Task) wireTask {
	return wireTask{ID: t.ID, Todo: t.Text, Completed: t.Completed, UserID: t.OwnerID}
}

func fromWire(w wireTask) service.Task {
	return service.Task{ID: w.ID, Text: w.Todo, Completed: w.Completed, OwnerID: w.UserID}
}

// Client implements service.Service over HTTP.
type Client struct {
	base             *url.URL
	http             *http.Client
	newTaskCompleted bool
}

// Option configures a Client.
type Option func(*Client)

// WithNewTaskCompleted sets the completion flag sent for new tasks.
func WithNewTaskCompleted(completed bool) Option {
	return func(c *Client) {
		c.newTaskCompleted = completed
	}
}

// New creates a client for baseURL using httpClient.
// A nil httpClient means http.DefaultClient.
func New(baseURL string, httpClient *http.Client, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL: %q", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	c := &Client{
		base:             base,
		http:             httpClient,
		newTaskCompleted: service.DefaultNewTaskCompleted,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListTasks returns one page of tasks in server order.
func (c *Client) ListTasks(ctx context.Context, limit, skip int) ([]service.Task, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("skip", strconv.Itoa(skip))

	var resp wireList
	if err := c.do(ctx, service.OpList, http.MethodGet, "todos", q, nil, listSchema, &resp); err != nil {
		return nil, err
	}

	result := make([]service.Task, 0, len(resp.Todos))
	for _, w := range resp.Todos {
		result = append(result, fromWire(w))
	}
	return result, nil
}

// CreateTask submits a new task and returns the server's record.
func (c *Client) CreateTask(ctx context.Context, text string) (service.Task, error) {
	body := toWire(service.NewTask(text, c.newTaskCompleted))

	var resp wireTask
	if err := c.do(ctx, service.OpCreate, http.MethodPost, "todos/add", nil, body, taskSchema, &resp); err != nil {
		return service.Task{}, err
	}
	return fromWire(resp), nil
}

// UpdateTask replaces the task with the given id and returns the server's copy.
func (c *Client) UpdateTask(ctx context.Context, id int, task service.Task) (service.Task, error) {
	var resp wireTask
	if err := c.do(ctx, service.OpUpdate, http.MethodPut, "todos/"+strconv.Itoa(id), nil, toWire(task), taskSchema, &resp); err != nil {
		return service.Task{}, err
	}
	return fromWire(resp), nil
}

// DeleteTask deletes a task. The response body is ignored.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	return c.do(ctx, service.OpDelete, http.MethodDelete, "todos/"+strconv.Itoa(id), nil, nil, nil, nil)
}

// do performs one request. A nil schema skips validation; a nil out skips decoding.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, in any, schema *jsonschema.Schema, out any) (err error) {
	start := time.Now()
	reqID := uuid.NewString()
	logger := logging.From(ctx).With("op", op, "request_id", reqID)

	defer func() {
		metrics.ObserveRequest(op, err, time.Since(start))
		if err != nil {
			logger.Debug("request failed", "err", err, "duration", time.Since(start))
		}
	}()

	u := c.base.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &service.NetworkError{Op: op, Err: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return &service.NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-Id", reqID)

	logger.Debug("request", "method", method, "url", u.String())

	resp, err := c.http.Do(req)
	if err != nil {
		return &service.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &service.NetworkError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	logger.Debug("response", "status", resp.StatusCode, "bytes", len(data), "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &service.NetworkError{Op: op, StatusCode: resp.StatusCode}
	}

	if schema != nil {
		if err := validate(schema, data); err != nil {
			return &service.NetworkError{Op: op, StatusCode: resp.StatusCode, Err: err}
		}
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &service.NetworkError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %v", ErrMalformedResponse, err)}
		}
	}
	return nil
}
