package telemetry_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/vrog/internal/adapters/telemetry"
)

type collector struct {
	mu      sync.Mutex
	batches []string
}

func (c *collector) flush(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batches = append(c.batches, string(data))
}

func (c *collector) get() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.batches...)
}

func TestBatcher_FlushOnSize(t *testing.T) {
	c := &collector{}
	b := telemetry.NewBatcher(5, time.Hour, c.flush)
	defer func() { _ = b.Close() }()

	_, err := b.Write([]byte("123"))
	require.NoError(t, err)
	assert.Empty(t, c.get())

	n, err := b.Write([]byte("456"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"123456"}, c.get())
}

func TestBatcher_FlushOnInterval(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := &collector{}
		b := telemetry.NewBatcher(1024, 50*time.Millisecond, c.flush)
		defer func() { _ = b.Close() }()

		_, err := b.Write([]byte("cc -c main.c\n"))
		require.NoError(t, err)

		time.Sleep(49 * time.Millisecond)
		synctest.Wait()
		assert.Empty(t, c.get())

		time.Sleep(time.Millisecond)
		synctest.Wait()
		assert.Equal(t, []string{"cc -c main.c\n"}, c.get())

		_, err = b.Write([]byte("second"))
		require.NoError(t, err)
		time.Sleep(50 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, []string{"cc -c main.c\n", "second"}, c.get())
	})
}

func TestBatcher_CloseFlushesAndRejectsWrites(t *testing.T) {
	c := &collector{}
	b := telemetry.NewBatcher(0, 0, c.flush)

	_, err := b.Write([]byte("tail"))
	require.NoError(t, err)
	require.NoError(t, b.Close())
	assert.Equal(t, []string{"tail"}, c.get())

	_, err = b.Write([]byte("late"))
	require.Error(t, err)
	require.NoError(t, b.Close())
	assert.Equal(t, []string{"tail"}, c.get())
}

func TestBatcher_ExplicitFlushEmpty(t *testing.T) {
	c := &collector{}
	b := telemetry.NewBatcher(0, 0, c.flush)
	defer func() { _ = b.Close() }()

	b.Flush()
	assert.Empty(t, c.get())
}
