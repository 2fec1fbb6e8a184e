// Package main is the entry point for the todos CLI.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"todos/internal/backend/dummyjson"
	"todos/internal/backend/googletasks"
	"todos/internal/cli"
	"todos/internal/commands"
	"todos/internal/config"
	"todos/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, newService)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// newService builds the backend named in the config.
func newService(ctx context.Context, cfg *config.Config) (service.Service, error) {
	client := &http.Client{Timeout: cfg.RequestTimeout}

	switch cfg.Backend {
	case config.BackendDummyJSON:
		svc, err := dummyjson.New(cfg.BaseURL, client, dummyjson.WithNewTaskCompleted(cfg.NewTaskCompleted))
		if err != nil {
			return nil, err
		}
		return svc, nil
	case config.BackendGoogleTasks:
		svc, err := googletasks.New(ctx, cfg, client)
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("unknown backend: %q", cfg.Backend)
	}
}
