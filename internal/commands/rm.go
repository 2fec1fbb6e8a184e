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
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	page pageFlags
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete tasks" }
func (c *RmCmd) Usage() string     { return "todos rm [--limit <n>] [--skip <n>] <n...>" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	registerPageFlags(fs, &c.page)
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	refs, err := ParseTaskRefs(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	ctrl, code := fetchPage(ctx, cfg, svc, c.page, errOut)
	if ctrl == nil {
		return code
	}
	defer ctrl.Close()

	if code := checkRange(refs, ctrl.Len(), errOut); code != exitcode.Success {
		return code
	}

	for _, ref := range descending(refs) {
		row := ref - 1
		if code := run(ctrl, ctrl.OnDelete(row, ctrl.At(row))); code != exitcode.Success {
			return code
		}
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
