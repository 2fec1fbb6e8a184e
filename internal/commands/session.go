package commands

import (
	"context"
	"fmt"
	"io"

	"todos/internal/config"
	"todos/internal/exitcode"
	"todos/internal/screen"
	"todos/internal/service"
	"todos/internal/tasklist"
)

// cliView reports controller messages on stderr. There is nothing to redraw.
type cliView struct {
	errOut io.Writer
}

func (v cliView) Refresh(tasklist.Change) {}

func (v cliView) SetBusy(bool) {}

func (v cliView) Notify(msg string) {
	fmt.Fprintf(v.errOut, "error: %s\n", msg)
}

// pageFlags are the --limit/--skip flags shared by row-addressing commands.
type pageFlags struct {
	limit int
	skip  int
}

// controller builds a screen controller for one command run.
// A zero limit means the configured page size.
func (p pageFlags) controller(ctx context.Context, cfg *config.Config, svc service.Service, errOut io.Writer) (*screen.Controller, error) {
	limit := p.limit
	if limit == 0 {
		limit = cfg.PageSize
	}
	if limit < 1 {
		return nil, fmt.Errorf("invalid limit: %d", p.limit)
	}
	if p.skip < 0 {
		return nil, fmt.Errorf("invalid skip: %d", p.skip)
	}
	return screen.New(ctx, svc, cliView{errOut: errOut}, screen.WithPage(limit, p.skip)), nil
}

// run runs job inline and applies its completion.
// The controller has already reported failures on stderr.
func run(ctrl *screen.Controller, job screen.Job) int {
	if job == nil {
		return exitcode.UserError
	}
	if err := ctrl.Apply(job()); err != nil {
		return exitcode.BackendError
	}
	return exitcode.Success
}

// fetchPage loads the page rows refer to.
func fetchPage(ctx context.Context, cfg *config.Config, svc service.Service, p pageFlags, errOut io.Writer) (*screen.Controller, int) {
	ctrl, err := p.controller(ctx, cfg, svc, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, exitcode.UserError
	}
	if code := run(ctrl, ctrl.Fetch()); code != exitcode.Success {
		ctrl.Close()
		return nil, code
	}
	return ctrl, exitcode.Success
}
