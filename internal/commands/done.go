package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todos/internal/config"
	"todos/internal/exitcode"
	"todos/internal/service"
)

func init() {
	Register(&DoneCmd{})
	Register(&UndoneCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct {
	page pageFlags
}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark tasks completed" }
func (c *DoneCmd) Usage() string     { return "todos done [--limit <n>] [--skip <n>] <n...>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {
	registerPageFlags(fs, &c.page)
}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runToggle(ctx, cfg, svc, c.page, true, args, out, errOut)
}

// UndoneCmd implements the undone command.
type UndoneCmd struct {
	page pageFlags
}

func (c *UndoneCmd) Name() string      { return "undone" }
func (c *UndoneCmd) Aliases() []string { return []string{"reopen"} }
func (c *UndoneCmd) Synopsis() string  { return "Mark tasks not completed" }
func (c *UndoneCmd) Usage() string     { return "todos undone [--limit <n>] [--skip <n>] <n...>" }
func (c *UndoneCmd) NeedsAuth() bool   { return true }

func (c *UndoneCmd) RegisterFlags(fs *flag.FlagSet) {
	registerPageFlags(fs, &c.page)
}

func (c *UndoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runToggle(ctx, cfg, svc, c.page, false, args, out, errOut)
}

// runToggle is the shared implementation for done and undone.
func runToggle(ctx context.Context, cfg *config.Config, svc service.Service, page pageFlags, completed bool, args []string, out, errOut io.Writer) int {
	refs, err := ParseTaskRefs(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	ctrl, code := fetchPage(ctx, cfg, svc, page, errOut)
	if ctrl == nil {
		return code
	}
	defer ctrl.Close()

	if code := checkRange(refs, ctrl.Len(), errOut); code != exitcode.Success {
		return code
	}

	for _, ref := range refs {
		row := ref - 1
		if code := run(ctrl, ctrl.OnToggle(row, ctrl.At(row), completed)); code != exitcode.Success {
			return code
		}
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// checkRange rejects rows past the end of the fetched page before any call.
func checkRange(refs []int, n int, errOut io.Writer) int {
	for _, ref := range refs {
		if ref > n {
			fmt.Fprintf(errOut, "error: task number out of range: %d\n", ref)
			return exitcode.UserError
		}
	}
	return exitcode.Success
}
