package tui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/vrog/internal/adapters/tui"
)

func TestVterm_ViewShowsTail(t *testing.T) {
	t.Parallel()

	vt := tui.NewVterm()
	vt.SetWidth(40)
	vt.SetHeight(2)

	_, err := vt.Write([]byte("first\r\nsecond\r\nthird"))
	require.NoError(t, err)

	assert.Equal(t, 3, vt.UsedHeight())
	view := vt.View()
	assert.NotContains(t, view, "first")
	assert.Contains(t, view, "second")
	assert.Contains(t, view, "third")
}

func TestVterm_Bounds(t *testing.T) {
	t.Parallel()

	vt := tui.NewVterm()
	vt.SetHeight(0)
	vt.SetWidth(-5)

	assert.Equal(t, 1, vt.Height)
	assert.Equal(t, 1, vt.Width)
	assert.Empty(t, vt.View())
}
