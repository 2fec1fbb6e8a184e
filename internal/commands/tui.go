package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"todos/internal/config"
	"todos/internal/exitcode"
	"todos/internal/logging"
	"todos/internal/metrics"
	"todos/internal/service"
	"todos/internal/ui"
)

func init() {
	Register(&TuiCmd{})
}

// TuiCmd implements the interactive screen.
type TuiCmd struct {
	page pageFlags
}

func (c *TuiCmd) Name() string      { return "tui" }
func (c *TuiCmd) Aliases() []string { return []string{"ui"} }
func (c *TuiCmd) Synopsis() string  { return "Open the interactive task screen" }
func (c *TuiCmd) Usage() string     { return "todos tui [--limit <n>] [--skip <n>]" }
func (c *TuiCmd) NeedsAuth() bool   { return true }

func (c *TuiCmd) RegisterFlags(fs *flag.FlagSet) {
	registerPageFlags(fs, &c.page)
}

func (c *TuiCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	limit := c.page.limit
	if limit == 0 {
		limit = cfg.PageSize
	}
	if limit < 1 || c.page.skip < 0 {
		fmt.Fprintln(errOut, "error: invalid --limit or --skip")
		return exitcode.UserError
	}

	// The alternate screen owns the terminal; logs go to a file or nowhere.
	logger, closeLog, err := tuiLogger(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	defer closeLog()
	ctx = logging.WithLogger(ctx, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, logger); err != nil {
				logger.Error("metrics server stopped", "addr", cfg.MetricsAddr, "err", err)
			}
		}()
	}

	if err := ui.Run(ctx, svc, ui.Options{Limit: limit, Skip: c.page.skip}); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}

func tuiLogger(cfg *config.Config) (*log.Logger, func(), error) {
	if !cfg.Debug {
		return logging.Discard(), func() {}, nil
	}
	if err := cfg.EnsureDir(); err != nil {
		return nil, nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := logging.New(f, logging.Options{
		Level:           log.DebugLevel,
		Formatter:       logging.ParseFormatter(cfg.LogFormat),
		ReportTimestamp: true,
	})
	return logger, func() { f.Close() }, nil
}
