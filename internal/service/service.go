// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for remote task operations.
// Every backend (REST, Google Tasks) implements it; the controller and
// commands never import a backend package directly.
//
// All methods return *NetworkError on failure.
type Service interface {
	// ListTasks returns one page of tasks in server order (no client-side sorting).
	ListTasks(ctx context.Context, limit, skip int) ([]Task, error)

	// CreateTask submits a new task built by NewTask and returns the
	// server-assigned record.
	CreateTask(ctx context.Context, text string) (Task, error)

	// UpdateTask replaces all fields of the task with the given id and returns
	// the server's copy.
	UpdateTask(ctx context.Context, id int, task Task) (Task, error)

	// DeleteTask deletes a task by id.
	DeleteTask(ctx context.Context, id int) error
}
