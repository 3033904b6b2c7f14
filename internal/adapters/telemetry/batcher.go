// Package telemetry records build work as OpenTelemetry spans and forwards it to a renderer.
package telemetry

import (
	"bytes"
	"sync"
	"time"

	"go.trai.ch/zerr"
)

const (
	// DefaultBatchSize is the number of buffered bytes that forces a flush.
	DefaultBatchSize = 4096
	// DefaultBatchInterval is the longest output is held before it is flushed.
	DefaultBatchInterval = 50 * time.Millisecond
)

// errBatcherClosed is returned by Write after Close.
var errBatcherClosed = zerr.New("log batcher is closed")

// Batcher coalesces task output into larger chunks. Data is flushed when the
// buffer reaches its size limit, when the oldest buffered byte is older than the
// interval, or on Close. Flushes happen in write order.
type Batcher struct {
	size     int
	interval time.Duration
	flush    func([]byte)

	mu     sync.Mutex
	buf    bytes.Buffer
	timer  *time.Timer
	closed bool
}

// NewBatcher returns a Batcher calling flush with each batch. Non-positive
// limits select the defaults.
func NewBatcher(size int, interval time.Duration, flush func([]byte)) *Batcher {
	if size <= 0 {
		size = DefaultBatchSize
	}
	if interval <= 0 {
		interval = DefaultBatchInterval
	}
	return &Batcher{size: size, interval: interval, flush: flush}
}

// Write buffers p.
func (b *Batcher) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, errBatcherClosed
	}

	b.buf.Write(p)
	if b.buf.Len() >= b.size {
		b.flushLocked()
		return len(p), nil
	}
	if b.timer == nil {
		b.timer = time.AfterFunc(b.interval, b.Flush)
	}
	return len(p), nil
}

// Flush hands any buffered data to the flush callback.
func (b *Batcher) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.flushLocked()
}

// Close flushes what is left. Later writes fail.
func (b *Batcher) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	b.flushLocked()
	return nil
}

func (b *Batcher) flushLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	if b.buf.Len() == 0 {
		return
	}

	data := bytes.Clone(b.buf.Bytes())
	b.buf.Reset()
	if b.flush != nil {
		b.flush(data)
	}
}
