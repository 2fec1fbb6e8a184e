package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// FakeTodo is the wire shape served by FakeServer.
type FakeTodo struct {
	ID        int    `json:"id"`
	Todo      string `json:"todo"`
	Completed bool   `json:"completed"`
	UserID    int    `json:"userId"`
}

// RecordedRequest is one request seen by FakeServer.
type RecordedRequest struct {
	Method    string
	Path      string
	Query     string
	Body      string
	RequestID string
}

// FakeServer is an httptest server emulating the dummyjson todos API.
type FakeServer struct {
	*httptest.Server

	mu       sync.Mutex
	todos    []FakeTodo
	requests []RecordedRequest

	// AddID is the id assigned to added todos.
	AddID int

	// Status, when non-zero, is returned for every request with an empty body.
	Status int

	// RawBody, when non-empty, replaces every successful response body.
	RawBody string
}

// NewFakeServer starts a FakeServer seeded with todos. It is closed on test cleanup.
func NewFakeServer(t *testing.T, todos ...FakeTodo) *FakeServer {
	t.Helper()

	fs := &FakeServer{AddID: len(todos) + 1}
	fs.todos = append(fs.todos, todos...)

	r := chi.NewRouter()
	r.Use(fs.record, fs.inject)
	r.Get("/todos", fs.list)
	r.Post("/todos/add", fs.add)
	r.Put("/todos/{id}", fs.update)
	r.Delete("/todos/{id}", fs.remove)

	fs.Server = httptest.NewServer(r)
	t.Cleanup(fs.Close)
	return fs
}

// Requests returns the requests seen so far.
func (fs *FakeServer) Requests() []RecordedRequest {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([]RecordedRequest, len(fs.requests))
	copy(out, fs.requests)
	return out
}

// Todos returns the server-side todos.
func (fs *FakeServer) Todos() []FakeTodo {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([]FakeTodo, len(fs.todos))
	copy(out, fs.todos)
	return out
}

func (fs *FakeServer) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		fs.mu.Lock()
		fs.requests = append(fs.requests, RecordedRequest{
			Method:    r.Method,
			Path:      r.URL.Path,
			Query:     r.URL.RawQuery,
			Body:      string(body),
			RequestID: r.Header.Get("X-Request-Id"),
		})
		fs.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (fs *FakeServer) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		status, raw := fs.Status, fs.RawBody
		fs.mu.Unlock()

		if status != 0 {
			w.WriteHeader(status)
			return
		}
		if raw != "" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, raw)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (fs *FakeServer) list(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))

	fs.mu.Lock()
	defer fs.mu.Unlock()

	page := []FakeTodo{}
	if skip < len(fs.todos) {
		end := len(fs.todos)
		if limit > 0 && skip+limit < end {
			end = skip + limit
		}
		page = append(page, fs.todos[skip:end]...)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"todos": page,
		"total": len(fs.todos),
		"skip":  skip,
		"limit": len(page),
	})
}

func (fs *FakeServer) add(w http.ResponseWriter, r *http.Request) {
	var todo FakeTodo
	if err := json.NewDecoder(r.Body).Decode(&todo); err != nil {
		http.Error(w, `{"message":"bad body"}`, http.StatusBadRequest)
		return
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	todo.ID = fs.AddID
	fs.todos = append(fs.todos, todo)
	writeJSON(w, http.StatusCreated, todo)
}

func (fs *FakeServer) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"message":"bad id"}`, http.StatusBadRequest)
		return
	}
	var todo FakeTodo
	if err := json.NewDecoder(r.Body).Decode(&todo); err != nil {
		http.Error(w, `{"message":"bad body"}`, http.StatusBadRequest)
		return
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	for i, t := range fs.todos {
		if t.ID == id {
			todo.ID = id
			fs.todos[i] = todo
			writeJSON(w, http.StatusOK, todo)
			return
		}
	}
	http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
}

func (fs *FakeServer) remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"message":"bad id"}`, http.StatusBadRequest)
		return
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	for i, t := range fs.todos {
		if t.ID == id {
			fs.todos = append(fs.todos[:i], fs.todos[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]any{
				"id":        t.ID,
				"todo":      t.Todo,
				"completed": t.Completed,
				"userId":    t.UserID,
				"isDeleted": true,
			})
			return
		}
	}
	http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
