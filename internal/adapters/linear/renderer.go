// Package linear renders build progress as prefixed, chronological lines.
package linear

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/muesli/termenv"
	"go.trai.ch/vrog/internal/ui/output"
	"go.trai.ch/vrog/internal/ui/style"
)

// palette holds the colors task prefixes are drawn from.
var palette = []termenv.ANSIColor{
	termenv.ANSICyan,
	termenv.ANSIMagenta,
	termenv.ANSIBlue,
	termenv.ANSIYellow,
	termenv.ANSIBrightCyan,
	termenv.ANSIBrightMagenta,
	termenv.ANSIBrightBlue,
	termenv.ANSIBrightGreen,
}

// Renderer implements ports.Renderer. Task output goes to stdout one complete
// line at a time, prefixed with the target name; lifecycle lines go to stderr.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	out    *termenv.Output

	mu    sync.Mutex
	tasks map[string]*task
}

type task struct {
	name    string
	started time.Time
	prefix  string
	pending bytes.Buffer
}

// NewRenderer creates a Renderer. Nil writers default to os.Stdout and os.Stderr.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout: stdout,
		stderr: stderr,
		out:    output.New(stderr),
		tasks:  make(map[string]*task),
	}
}

// OnPlanEmit prints how many targets the session may visit.
func (r *Renderer) OnPlanEmit(targets []string, root string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.stderr, "%s %s: %d target(s) in plan\n",
		r.out.String(style.Dot).Foreground(r.out.Color(string(style.Iris))), root, len(targets))
}

// OnTaskStart prints that a target is being rebuilt.
func (r *Renderer) OnTaskStart(spanID, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := &task{
		name:    name,
		started: startTime,
		prefix:  r.out.String("[" + name + "]").Foreground(colorFor(name)).String(),
	}
	r.tasks[spanID] = t

	_, _ = fmt.Fprintf(r.stderr, "%s %s rebuilding\n", t.prefix, style.Arrow)
}

// OnTaskLog prints every complete line in data. A trailing partial line is
// held until it is completed or the task ends.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[spanID]
	if !ok {
		return
	}

	t.pending.Write(data)
	for {
		i := bytes.IndexByte(t.pending.Bytes(), '\n')
		if i < 0 {
			return
		}
		line := t.pending.Next(i + 1)
		r.printLineLocked(t, line)
	}
}

// OnTaskComplete flushes held output and prints how the task ended.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[spanID]
	if !ok {
		return
	}
	delete(r.tasks, spanID)
	r.flushLocked(t)

	elapsed := endTime.Sub(t.started).Round(time.Millisecond)
	if err != nil {
		mark := r.out.String(style.Cross).Foreground(r.out.Color(string(style.Red)))
		_, _ = fmt.Fprintf(r.stderr, "%s %s failed after %v: %v\n", t.prefix, mark, elapsed, err)
		return
	}
	mark := r.out.String(style.Check).Foreground(r.out.Color(string(style.Green)))
	_, _ = fmt.Fprintf(r.stderr, "%s %s done in %v\n", t.prefix, mark, elapsed)
}

// Stop prints output still held for unfinished tasks.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tasks {
		r.flushLocked(t)
	}
	return nil
}

func (r *Renderer) flushLocked(t *task) {
	if t.pending.Len() == 0 {
		return
	}
	r.printLineLocked(t, t.pending.Bytes())
	t.pending.Reset()
}

func (r *Renderer) printLineLocked(t *task, line []byte) {
	line = bytes.TrimRight(line, "\r\n")
	if len(line) == 0 {
		_, _ = fmt.Fprintf(r.stdout, "%s\n", t.prefix)
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "%s %s\n", t.prefix, line)
}

// colorFor picks a stable palette color for a target name.
func colorFor(name string) termenv.Color {
	return palette[xxhash.Sum64String(name)%uint64(len(palette))]
}
