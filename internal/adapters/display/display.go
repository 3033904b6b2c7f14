// Package display picks the renderer a build session is shown with.
package display

import (
	"sync"
	"time"

	"go.trai.ch/vrog/internal/core/ports"
)

// Display implements ports.Display by forwarding every event to the renderer
// chosen by the last SetMode.
type Display struct {
	linear ports.Renderer
	tui    ports.Renderer
	detect func() ports.OutputMode

	mu     sync.Mutex
	active ports.Renderer
}

// New returns a Display that starts in linear mode. detect resolves
// ports.OutputAuto; nil means DetectMode.
func New(linear, tui ports.Renderer, detect func() ports.OutputMode) *Display {
	if detect == nil {
		detect = DetectMode
	}
	return &Display{
		linear: linear,
		tui:    tui,
		detect: detect,
		active: linear,
	}
}

// SetMode picks the renderer for the next session.
func (d *Display) SetMode(mode ports.OutputMode) {
	if mode == ports.OutputAuto || mode == "" {
		mode = d.detect()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if mode == ports.OutputTUI {
		d.active = d.tui
		return
	}
	d.active = d.linear
}

// OnPlanEmit implements ports.Renderer.
func (d *Display) OnPlanEmit(targets []string, root string) {
	d.current().OnPlanEmit(targets, root)
}

// OnTaskStart implements ports.Renderer.
func (d *Display) OnTaskStart(spanID, name string, startTime time.Time) {
	d.current().OnTaskStart(spanID, name, startTime)
}

// OnTaskLog implements ports.Renderer.
func (d *Display) OnTaskLog(spanID string, data []byte) {
	d.current().OnTaskLog(spanID, data)
}

// OnTaskComplete implements ports.Renderer.
func (d *Display) OnTaskComplete(spanID string, endTime time.Time, err error) {
	d.current().OnTaskComplete(spanID, endTime, err)
}

// Stop implements ports.Renderer.
func (d *Display) Stop() error {
	return d.current().Stop()
}

func (d *Display) current() ports.Renderer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}
