package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todos/internal/config"
	"todos/internal/exitcode"
	"todos/internal/output"
	"todos/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `todos` (no args) and `todos list`.
type ListCmd struct {
	page pageFlags
}

// SetPage sets limit and skip (for testing).
func (c *ListCmd) SetPage(limit, skip int) {
	c.page = pageFlags{limit: limit, skip: skip}
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "todos list [--limit <n>] [--skip <n>]" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	registerPageFlags(fs, &c.page)
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	ctrl, code := fetchPage(ctx, cfg, svc, c.page, errOut)
	if ctrl == nil {
		return code
	}
	defer ctrl.Close()

	if ctrl.Len() == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	output.FormatTasks(out, 1, ctrl.Tasks())
	return exitcode.Success
}

func registerPageFlags(fs *flag.FlagSet, p *pageFlags) {
	fs.IntVar(&p.limit, "limit", 0, "")
	fs.IntVar(&p.skip, "skip", 0, "")
}
