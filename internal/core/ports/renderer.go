package ports

import "time"

// Renderer presents build progress. It decouples telemetry collection from
// presentation so the same span stream can drive different outputs.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// OnPlanEmit is called once per build session with the targets that may be visited.
	OnPlanEmit(targets []string, root string)

	// OnTaskStart is called when work on a target begins.
	OnTaskStart(spanID, name string, startTime time.Time)

	// OnTaskLog is called when a task emits output. data may hold partial lines.
	OnTaskLog(spanID string, data []byte)

	// OnTaskComplete is called when work on a target ends; err is nil on success.
	OnTaskComplete(spanID string, endTime time.Time, err error)

	// Stop flushes any buffered output.
	Stop() error
}

// OutputMode selects how build progress is presented.
type OutputMode string

const (
	// OutputAuto picks the TUI on an interactive terminal and linear output elsewhere.
	OutputAuto OutputMode = "auto"
	// OutputTUI draws a live target list with the running target's output.
	OutputTUI OutputMode = "tui"
	// OutputLinear prints one line per event, suitable for logs and CI.
	OutputLinear OutputMode = "linear"
)

// Display is the Renderer the application drives. Its presentation is chosen
// before each build.
type Display interface {
	Renderer

	// SetMode picks the presentation for the next build.
	SetMode(mode OutputMode)
}
