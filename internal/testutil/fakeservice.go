// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"todos/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []service.Task
	nextID int

	// FixedCreateID, when non-zero, is returned as the id of every created
	// task, like the public dummyjson server does.
	FixedCreateID int

	// NewTaskCompleted is the completion flag of created tasks.
	NewTaskCompleted bool

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	// Call counters
	ListCalls   int
	CreateCalls int
	UpdateCalls int
	DeleteCalls int

	// LastList records the limit/skip of the most recent ListTasks call.
	LastLimit int
	LastSkip  int
}

// NewFakeService creates a FakeService holding tasks in order.
func NewFakeService(tasks ...service.Task) *FakeService {
	f := &FakeService{NewTaskCompleted: service.DefaultNewTaskCompleted}
	f.tasks = append(f.tasks, tasks...)
	for _, t := range tasks {
		if t.ID > f.nextID {
			f.nextID = t.ID
		}
	}
	return f
}

// AddTask adds a task to the fake's server-side list.
func (f *FakeService) AddTask(id int, text string, completed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{ID: id, Text: text, Completed: completed, OwnerID: service.PlaceholderOwnerID})
	if id > f.nextID {
		f.nextID = id
	}
}

// Tasks returns a copy of the server-side list.
func (f *FakeService) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, limit, skip int) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	f.LastLimit, f.LastSkip = limit, skip
	if f.ListErr != nil {
		return nil, f.ListErr
	}

	if skip >= len(f.tasks) {
		return []service.Task{}, nil
	}
	end := len(f.tasks)
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	out := make([]service.Task, end-skip)
	copy(out, f.tasks[skip:end])
	return out, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, text string) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	if f.CreateErr != nil {
		return service.Task{}, f.CreateErr
	}

	task := service.NewTask(text, f.NewTaskCompleted)
	if f.FixedCreateID != 0 {
		task.ID = f.FixedCreateID
	} else {
		f.nextID++
		task.ID = f.nextID
	}
	f.tasks = append(f.tasks, task)
	return task, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id int, task service.Task) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	if f.UpdateErr != nil {
		return service.Task{}, f.UpdateErr
	}

	task.ID = id
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i] = task
			return task, nil
		}
	}
	return service.Task{}, &service.NetworkError{Op: service.OpUpdate, StatusCode: 404}
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	if f.DeleteErr != nil {
		return f.DeleteErr
	}

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return &service.NetworkError{Op: service.OpDelete, StatusCode: 404}
}
