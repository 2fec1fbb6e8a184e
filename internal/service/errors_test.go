package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestNetworkError_Message(t *testing.T) {
	tests := []struct {
		err  *NetworkError
		want string
	}{
		{&NetworkError{Op: OpList, StatusCode: 500}, "list: HTTP 500 Internal Server Error"},
		{&NetworkError{Op: OpCreate, Err: errors.New("connection refused")}, "create: connection refused"},
		{&NetworkError{Op: OpUpdate, StatusCode: 200, Err: errors.New("malformed response")}, "update: HTTP 200 OK: malformed response"},
		{&NetworkError{Op: OpDelete}, "delete: request failed"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestIsNetworkError_Wrapped(t *testing.T) {
	err := fmt.Errorf("fetch: %w", &NetworkError{Op: OpList, Err: context.Canceled})
	if !IsNetworkError(err) {
		t.Error("expected wrapped NetworkError to be detected")
	}
	if !errors.Is(err, context.Canceled) {
		t.Error("expected NetworkError to unwrap to its cause")
	}
	if IsNetworkError(errors.New("plain")) {
		t.Error("plain error should not be a NetworkError")
	}
}

func TestNewTask_Defaults(t *testing.T) {
	task := NewTask("Buy milk", DefaultNewTaskCompleted)
	if task.ID != 0 {
		t.Errorf("expected ID 0, got %d", task.ID)
	}
	if !task.Completed {
		t.Error("expected new task to be completed by default")
	}
	if task.OwnerID != PlaceholderOwnerID {
		t.Errorf("expected owner %d, got %d", PlaceholderOwnerID, task.OwnerID)
	}
	if flipped := task.WithCompleted(false); flipped.Completed || !task.Completed {
		t.Error("WithCompleted should return a modified copy")
	}
}
