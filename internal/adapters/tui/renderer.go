// Package tui renders build progress as a live target list with the output of
// the most recently started target underneath.
package tui

import (
	"bytes"
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/vrog/internal/ui/output"
	"go.trai.ch/zerr"
)

// Renderer implements ports.Renderer on a bubbletea program. Each session
// starts a program on OnPlanEmit and Stop ends it, so one Renderer serves
// every rebuild in watch mode.
type Renderer struct {
	out  io.Writer
	opts []tea.ProgramOption

	mu      sync.Mutex
	program *tea.Program
	model   *Model
	done    chan error
}

// NewRenderer creates a Renderer drawing to w, or to stderr when w is nil.
// opts are applied after the defaults.
func NewRenderer(w io.Writer, opts ...tea.ProgramOption) *Renderer {
	if w == nil {
		w = os.Stderr
	}
	lipgloss.SetColorProfile(output.Profile(w))

	return &Renderer{out: w, opts: opts}
}

// OnPlanEmit starts a session for the plan.
func (r *Renderer) OnPlanEmit(targets []string, root string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.program == nil {
		r.startLocked()
	}
	r.program.Send(MsgPlan{Targets: targets, Root: root})
}

// OnTaskStart forwards task start events to the program.
func (r *Renderer) OnTaskStart(spanID, name string, startTime time.Time) {
	r.send(MsgTargetStart{SpanID: spanID, Name: name, StartTime: startTime})
}

// OnTaskLog forwards task output to the program.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.send(MsgTargetLog{SpanID: spanID, Data: bytes.Clone(data)})
}

// OnTaskComplete forwards task completion events to the program.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.send(MsgTargetComplete{SpanID: spanID, EndTime: endTime, Err: err})
}

// Stop finishes the session and waits for the final frame. It does nothing
// when no session is running.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.program == nil {
		return nil
	}
	r.program.Send(MsgFinish{})
	err := <-r.done
	r.program = nil
	if err != nil {
		return zerr.Wrap(err, "terminal UI failed")
	}
	return nil
}

// Model returns the model of the current or most recent session.
func (r *Renderer) Model() *Model {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.model
}

func (r *Renderer) send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.program != nil {
		r.program.Send(msg)
	}
}

func (r *Renderer) startLocked() {
	opts := append([]tea.ProgramOption{
		tea.WithOutput(r.out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	}, r.opts...)

	r.model = NewModel()
	r.program = tea.NewProgram(r.model, opts...)
	r.done = make(chan error, 1)

	program, done := r.program, r.done
	go func() {
		_, err := program.Run()
		done <- err
	}()
}
