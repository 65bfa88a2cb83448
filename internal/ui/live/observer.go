// Package live renders generation progress as a full-screen console UI.
package live

import (
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"corpusgen/internal/runner"
)

// Controller runs the live UI and implements runner.Observer.
type Controller struct {
	events    chan runner.Event
	program   *tea.Program
	done      chan struct{}
	closeOnce sync.Once
}

// Start launches a live UI controller that writes to stdout.
func Start(stdout io.Writer, opts Options) *Controller {
	if stdout == nil {
		stdout = os.Stdout
	}
	events := make(chan runner.Event, 256)
	model := NewModel(events, opts)
	program := tea.NewProgram(model, tea.WithOutput(stdout), tea.WithAltScreen())
	controller := &Controller{
		events:  events,
		program: program,
		done:    make(chan struct{}),
	}
	go func() {
		_ = program.Start()
		close(controller.done)
	}()
	return controller
}

// Close signals the UI to stop.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		close(c.events)
	})
}

// Wait blocks until the UI has exited.
func (c *Controller) Wait() {
	if c == nil {
		return
	}
	<-c.done
}

// Observe forwards a pipeline event to the UI without blocking the caller.
func (c *Controller) Observe(event runner.Event) {
	if c == nil {
		return
	}
	select {
	case c.events <- event:
	default:
	}
	if event.Type == runner.EventRunEnd {
		c.Close()
	}
}
