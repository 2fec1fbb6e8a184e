// Package ui provides the interactive terminal screen.
package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"todos/internal/output"
	"todos/internal/screen"
	"todos/internal/service"
	"todos/internal/tasklist"
)

// ToastDuration is how long a transient message stays on screen.
const ToastDuration = 4 * time.Second

// chromeLines is the number of lines View uses around the task rows.
const chromeLines = 6

// Options configures the screen.
type Options struct {
	Limit int
	Skip  int
}

// completionMsg carries a finished job back to the update loop.
type completionMsg struct {
	done screen.Completion
}

type clearToastMsg struct {
	seq int
}

// Model is the bubbletea model for the task screen. It is the controller's
// View; all controller calls happen inside Init and Update.
type Model struct {
	ctrl *screen.Controller
	rows screen.RowActions

	cursor int
	offset int
	height int

	adding   bool
	input    []rune
	showHelp bool

	busy     bool
	toast    string
	toastSeq int

	// cmds collects commands requested by View callbacks during one Update.
	cmds []tea.Cmd
}

var _ screen.View = (*Model)(nil)

// New creates the model and its controller. Jobs run under ctx.
func New(ctx context.Context, svc service.Service, opts Options) *Model {
	m := &Model{}
	var ctrlOpts []screen.Option
	if opts.Limit > 0 {
		ctrlOpts = append(ctrlOpts, screen.WithPage(opts.Limit, opts.Skip))
	}
	m.ctrl = screen.New(ctx, svc, m, ctrlOpts...)
	m.rows = m.ctrl
	return m
}

// Close cancels in-flight jobs.
func (m *Model) Close() {
	m.ctrl.Close()
}

// Refresh implements screen.View.
func (m *Model) Refresh(change tasklist.Change) {
	switch change.Op {
	case tasklist.OpReset:
		m.clampCursor()
	case tasklist.OpRemove:
		if change.Index < m.cursor {
			m.cursor--
		}
		m.clampCursor()
	case tasklist.OpInsert, tasklist.OpChange:
		// Rows above the cursor keep their positions.
	}
}

// SetBusy implements screen.View.
func (m *Model) SetBusy(busy bool) {
	m.busy = busy
}

// Notify implements screen.View.
func (m *Model) Notify(msg string) {
	m.toastSeq++
	m.toast = msg
	seq := m.toastSeq
	m.cmds = append(m.cmds, tea.Tick(ToastDuration, func(time.Time) tea.Msg {
		return clearToastMsg{seq: seq}
	}))
}

func (m *Model) Init() tea.Cmd {
	return m.run(m.ctrl.Fetch())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.clampCursor()
	case completionMsg:
		// Errors are already shown through Notify; ErrClosed means we are quitting.
		_ = m.ctrl.Apply(msg.done)
	case clearToastMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
	case tea.KeyMsg:
		if m.adding {
			cmd = m.updateInput(msg)
		} else {
			cmd = m.updateBrowse(msg)
		}
	}

	cmds := append(m.cmds, cmd)
	m.cmds = nil
	return m, tea.Batch(cmds...)
}

func (m *Model) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "q":
		m.ctrl.Close()
		return tea.Quit
	case "j", "down":
		m.cursor++
		m.clampCursor()
	case "k", "up":
		m.cursor--
		m.clampCursor()
	case "g", "home":
		m.cursor = 0
		m.clampCursor()
	case "G", "end":
		m.cursor = m.ctrl.Len() - 1
		m.clampCursor()
	case " ", "space", "x":
		if m.ctrl.Len() == 0 {
			return nil
		}
		task := m.ctrl.At(m.cursor)
		return m.run(m.rows.OnToggle(m.cursor, task, !task.Completed))
	case "d":
		if m.ctrl.Len() == 0 {
			return nil
		}
		return m.run(m.rows.OnDelete(m.cursor, m.ctrl.At(m.cursor)))
	case "a":
		m.adding = true
		m.input = nil
	case "r":
		return m.run(m.ctrl.Fetch())
	case "?":
		m.showHelp = !m.showHelp
	}
	return nil
}

func (m *Model) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.ctrl.Close()
		return tea.Quit
	case tea.KeyEsc:
		m.adding = false
		m.input = nil
	case tea.KeyEnter:
		text := string(m.input)
		m.adding = false
		m.input = nil
		return m.run(m.ctrl.Add(text))
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	}
	return nil
}

// run turns a job into a command whose result comes back as completionMsg.
func (m *Model) run(job screen.Job) tea.Cmd {
	if job == nil {
		return nil
	}
	return func() tea.Msg {
		return completionMsg{done: job()}
	}
}

func (m *Model) clampCursor() {
	n := m.ctrl.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	rows := m.visibleRows()
	if rows <= 0 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	if m.offset > n-rows {
		m.offset = max(n-rows, 0)
	}
}

// visibleRows returns how many task rows fit, or 0 if the height is unknown.
func (m *Model) visibleRows() int {
	if m.height == 0 {
		return 0
	}
	return max(m.height-chromeLines, 1)
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Todos"))
	if m.busy {
		b.WriteString("  " + busyStyle.Render("loading..."))
	}
	b.WriteString("\n\n")

	if m.showHelp {
		b.WriteString(helpText)
		return b.String()
	}

	m.writeRows(&b)
	b.WriteString("\n")

	if m.adding {
		b.WriteString(inputStyle.Render("New task: "+string(m.input)+"_") + "\n")
	}
	if m.toast != "" {
		b.WriteString(toastStyle.Render(m.toast) + "\n")
	}
	b.WriteString(footerStyle.Render("a add  x toggle  d delete  r refresh  ? help  q quit"))
	return b.String()
}

func (m *Model) writeRows(b *strings.Builder) {
	n := m.ctrl.Len()
	if n == 0 {
		if !m.busy {
			b.WriteString("  no tasks\n")
		}
		return
	}

	end := n
	if rows := m.visibleRows(); rows > 0 && m.offset+rows < n {
		end = m.offset + rows
	}
	for i := m.offset; i < end; i++ {
		task := m.ctrl.At(i)
		text := output.NormalizeText(task.Text)
		if task.Completed {
			text = doneStyle.Render(text)
		}
		line := fmt.Sprintf("%s %s", output.Mark(task.Completed), text)
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> ") + line + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
}

const helpText = `  j/k, arrows   move
  space, x      toggle completed
  d             delete
  a             add (enter submits, esc cancels)
  r             refresh
  ?             close help
  q, ctrl+c     quit
`

// IsTTY reports whether f is a terminal.
func IsTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run shows the screen until the user quits or ctx is cancelled.
func Run(ctx context.Context, svc service.Service, opts Options) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	m := New(ctx, svc, opts)
	defer m.Close()

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
