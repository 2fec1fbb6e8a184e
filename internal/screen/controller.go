// Package screen implements the single-screen controller that keeps the local
// task list in sync with the remote service.
//
// User actions produce Jobs. A Job performs the network call and may run on
// any goroutine; the Completion it returns must be passed to Apply by the
// goroutine that owns the screen. Apply is the only place the task list
// changes.
package screen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"todos/internal/logging"
	"todos/internal/metrics"
	"todos/internal/service"
	"todos/internal/tasklist"
)

// User-visible messages.
const (
	MsgFetchFailed  = "Error fetching todos"
	MsgAddFailed    = "Error adding task"
	MsgUpdateFailed = "Error updating todo"
	MsgDeleteFailed = "Error deleting todo"
	MsgEmptyText    = "Task cannot be empty"
)

// DefaultLimit is the page size of a fetch.
const DefaultLimit = 30

// ErrClosed is returned by Apply after Close.
var ErrClosed = errors.New("screen closed")

// View receives refresh signals and transient messages.
type View interface {
	// Refresh redraws the smallest region covering the change.
	Refresh(change tasklist.Change)
	// SetBusy shows or hides the busy indicator.
	SetBusy(busy bool)
	// Notify shows a transient message.
	Notify(msg string)
}

// RowActions is the capability handed to list rows.
type RowActions interface {
	OnDelete(row int, task service.Task) Job
	OnToggle(row int, task service.Task, completed bool) Job
}

// Job performs one remote call and reports its outcome.
type Job func() Completion

// Completion is the outcome of a Job, applied with Controller.Apply.
type Completion interface {
	apply(c *Controller) error
}

// Controller owns the task list for one screen.
type Controller struct {
	svc    service.Service
	view   View
	list   *tasklist.List
	logger *log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	limit int
	skip  int

	busy   bool
	closed bool
}

var _ RowActions = (*Controller)(nil)

// Option configures a Controller.
type Option func(*Controller)

// WithPage sets the limit and skip used by Fetch.
func WithPage(limit, skip int) Option {
	return func(c *Controller) {
		c.limit = limit
		c.skip = skip
	}
}

// WithLogger sets the logger. Defaults to the logger carried by the context.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// New creates a controller whose jobs run under ctx. Close cancels them.
func New(ctx context.Context, svc service.Service, view View, opts ...Option) *Controller {
	c := &Controller{
		svc:    svc,
		view:   view,
		list:   tasklist.New(),
		logger: logging.From(ctx),
		limit:  DefaultLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ctx, c.cancel = context.WithCancel(logging.WithLogger(ctx, c.logger))
	return c
}

// Len returns the number of tasks held.
func (c *Controller) Len() int {
	return c.list.Len()
}

// At returns the task at row.
func (c *Controller) At(row int) service.Task {
	return c.list.At(row)
}

// Tasks returns a copy of the task list.
func (c *Controller) Tasks() []service.Task {
	return c.list.Tasks()
}

// Busy reports whether a fetch is pending.
func (c *Controller) Busy() bool {
	return c.busy
}

// Close cancels in-flight jobs. Later completions are dropped.
func (c *Controller) Close() {
	c.closed = true
	c.cancel()
}

// Apply applies a completion to the task list and notifies the view.
// It returns the action's error, or ErrClosed after Close.
func (c *Controller) Apply(done Completion) error {
	if done == nil {
		return nil
	}
	if c.closed {
		return ErrClosed
	}
	err := done.apply(c)
	metrics.SetListLength(c.list.Len())
	return err
}

// Fetch shows the busy indicator and returns a job reading the configured page.
func (c *Controller) Fetch() Job {
	c.busy = true
	c.view.SetBusy(true)

	ctx, svc, limit, skip := c.ctx, c.svc, c.limit, c.skip
	return func() Completion {
		tasks, err := svc.ListTasks(ctx, limit, skip)
		return fetched{tasks: tasks, err: err}
	}
}

// Add returns a job creating a task with text.
// Blank text is rejected with a message and a nil job.
func (c *Controller) Add(text string) Job {
	text = strings.TrimSpace(text)
	if text == "" {
		c.view.Notify(MsgEmptyText)
		return nil
	}

	ctx, svc := c.ctx, c.svc
	return func() Completion {
		task, err := svc.CreateTask(ctx, text)
		return added{task: task, err: err}
	}
}

// OnToggle returns a job setting the completion flag of the task shown at row.
func (c *Controller) OnToggle(row int, task service.Task, completed bool) Job {
	ctx, svc := c.ctx, c.svc
	id := task.ID
	submitted := task.WithCompleted(completed)
	return func() Completion {
		got, err := svc.UpdateTask(ctx, id, submitted)
		return updated{row: row, id: id, task: got, err: err}
	}
}

// OnDelete returns a job deleting the task shown at row.
func (c *Controller) OnDelete(row int, task service.Task) Job {
	ctx, svc := c.ctx, c.svc
	id := task.ID
	return func() Completion {
		err := svc.DeleteTask(ctx, id)
		return deleted{row: row, id: id, err: err}
	}
}

func (c *Controller) fail(msg string, err error) error {
	c.logger.Warn(msg, "err", err)
	c.view.Notify(fmt.Sprintf("%s: %v", msg, err))
	return err
}

// lookup resolves row/id and logs when the row hint no longer matches.
func (c *Controller) lookup(action string, row, id int) bool {
	m := c.list.Lookup(row, id)
	switch {
	case m.Index < 0:
		c.logger.Warn("task no longer in list", "action", action, "id", id, "row", row)
		return false
	case m.Ambiguous:
		c.logger.Warn("duplicate task id in list", "action", action, "id", id, "row", row, "index", m.Index)
	case m.StaleRow:
		c.logger.Warn("task moved since action started", "action", action, "id", id, "row", row, "index", m.Index)
	}
	return true
}

type fetched struct {
	tasks []service.Task
	err   error
}

func (f fetched) apply(c *Controller) error {
	c.busy = false
	c.view.SetBusy(false)
	if f.err != nil {
		return c.fail(MsgFetchFailed, f.err)
	}
	c.view.Refresh(c.list.Replace(f.tasks))
	return nil
}

type added struct {
	task service.Task
	err  error
}

func (a added) apply(c *Controller) error {
	if a.err != nil {
		return c.fail(MsgAddFailed, a.err)
	}
	c.view.Refresh(c.list.Append(a.task))
	return nil
}

type updated struct {
	row  int
	id   int
	task service.Task
	err  error
}

func (u updated) apply(c *Controller) error {
	if u.err != nil {
		return c.fail(MsgUpdateFailed, u.err)
	}
	if !c.lookup("update", u.row, u.id) {
		return nil
	}
	if change, ok := c.list.Set(u.row, u.id, u.task); ok {
		c.view.Refresh(change)
	}
	return nil
}

type deleted struct {
	row int
	id  int
	err error
}

func (d deleted) apply(c *Controller) error {
	if d.err != nil {
		return c.fail(MsgDeleteFailed, d.err)
	}
	if !c.lookup("delete", d.row, d.id) {
		return nil
	}
	if change, ok := c.list.Remove(d.row, d.id); ok {
		c.view.Refresh(change)
	}
	return nil
}
