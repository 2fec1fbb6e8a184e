// Package googletasks implements the service.Service interface using Google Tasks API.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"todos/internal/config"
	"todos/internal/logging"
	"todos/internal/metrics"
	"todos/internal/service"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks requested per API page.
	PageSize = 100

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// Client implements service.Service using Google Tasks API.
type Client struct {
	svc              *tasks.Service
	listID           string
	newTaskCompleted bool
	ids              *handles
}

// OAuthConfig reads oauth_client.json from the config directory.
func OAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}
	return oauthConfig, nil
}

// LoadToken reads the stored OAuth token.
func LoadToken(cfg *config.Config) (*oauth2.Token, error) {
	if !cfg.HasToken() {
		return nil, service.ErrNotLoggedIn
	}
	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}
	return &token, nil
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist. httpClient is the base
// client the OAuth transport wraps; nil means http.DefaultClient.
func New(ctx context.Context, cfg *config.Config, httpClient *http.Client) (*Client, error) {
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	token, err := LoadToken(cfg)
	if err != nil {
		return nil, err
	}

	if httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	}

	// Token source refreshes automatically.
	authClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, token))

	c, err := NewWithHTTPClient(ctx, authClient, cfg.TaskList)
	if err != nil {
		return nil, err
	}
	c.newTaskCompleted = cfg.NewTaskCompleted
	return c, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, listID string, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	if listID == "" {
		listID = DefaultListID
	}
	return &Client{
		svc:              svc,
		listID:           listID,
		newTaskCompleted: service.DefaultNewTaskCompleted,
		ids:              newHandles(),
	}, nil
}

// ListTasks returns tasks [skip, skip+limit) in API order, walking pages as
// needed. Completed and hidden tasks are included.
func (c *Client) ListTasks(ctx context.Context, limit, skip int) (result []service.Task, err error) {
	defer observe(ctx, service.OpList, time.Now(), &err)

	want := skip + limit
	var all []*tasks.Task
	call := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false)

	errDone := errors.New("enough tasks")
	err = call.Pages(ctx, func(resp *tasks.Tasks) error {
		all = append(all, resp.Items...)
		if limit > 0 && len(all) >= want {
			return errDone
		}
		return nil
	})
	if err != nil && !errors.Is(err, errDone) {
		return nil, wrapError(service.OpList, err)
	}
	err = nil

	if skip >= len(all) {
		return []service.Task{}, nil
	}
	end := len(all)
	if limit > 0 && want < end {
		end = want
	}
	result = make([]service.Task, 0, end-skip)
	for _, t := range all[skip:end] {
		result = append(result, c.toTask(t))
	}
	return result, nil
}

// CreateTask inserts a task at the top of the list.
func (c *Client) CreateTask(ctx context.Context, text string) (task service.Task, err error) {
	defer observe(ctx, service.OpCreate, time.Now(), &err)

	created, err := c.svc.Tasks.Insert(c.listID, &tasks.Task{
		Title:  text,
		Status: status(c.newTaskCompleted),
	}).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(service.OpCreate, err)
	}
	return c.toTask(created), nil
}

// UpdateTask patches the title and status of a task.
func (c *Client) UpdateTask(ctx context.Context, id int, task service.Task) (updated service.Task, err error) {
	defer observe(ctx, service.OpUpdate, time.Now(), &err)

	remoteID, ok := c.ids.remote(id)
	if !ok {
		return service.Task{}, unknownID(service.OpUpdate, id)
	}

	patch := &tasks.Task{
		Title:  task.Text,
		Status: status(task.Completed),
	}
	if !task.Completed {
		// Reopening needs an explicit null completion time.
		patch.NullFields = []string{"Completed"}
	}

	got, err := c.svc.Tasks.Patch(c.listID, remoteID, patch).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(service.OpUpdate, err)
	}
	return c.toTask(got), nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id int) (err error) {
	defer observe(ctx, service.OpDelete, time.Now(), &err)

	remoteID, ok := c.ids.remote(id)
	if !ok {
		return unknownID(service.OpDelete, id)
	}
	if err := c.svc.Tasks.Delete(c.listID, remoteID).Context(ctx).Do(); err != nil {
		return wrapError(service.OpDelete, err)
	}
	c.ids.forget(id)
	return nil
}

func (c *Client) toTask(t *tasks.Task) service.Task {
	return service.Task{
		ID:        c.ids.local(t.Id),
		Text:      t.Title,
		Completed: t.Status == statusCompleted,
		OwnerID:   service.PlaceholderOwnerID,
	}
}

func status(completed bool) string {
	if completed {
		return statusCompleted
	}
	return statusNeedsAction
}

func observe(ctx context.Context, op string, start time.Time, errp *error) {
	metrics.ObserveRequest(op, *errp, time.Since(start))
	logging.From(ctx).Debug("google tasks call", "op", op, "duration", time.Since(start), "err", *errp)
}

func unknownID(op string, id int) error {
	return &service.NetworkError{Op: op, StatusCode: http.StatusNotFound, Err: fmt.Errorf("unknown task id %d", id)}
}

// wrapError converts API errors into NetworkError with user-friendly messages.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		ne := &service.NetworkError{Op: op, StatusCode: apiErr.Code}
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			ne.Err = errors.New("token expired or revoked (run: todos login)")
		case http.StatusNotFound:
			ne.Err = errors.New("not found")
		}
		return ne
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &service.NetworkError{Op: op, Err: fmt.Errorf("request timed out: %w", err)}
	}
	return &service.NetworkError{Op: op, Err: err}
}
