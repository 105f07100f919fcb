package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinallyContextBalance(t *testing.T) {
	f := newFinallyContext()
	f.enter()
	f.enter()
	f.leave()
	require.Error(t, f.close())
	f.leave()
	require.NoError(t, f.close())
	assert.Panics(t, f.leave)
}

func TestFinallyContextLabels(t *testing.T) {
	f := newFinallyContext()
	assert.Equal(t, "break_outer", f.label("break", "outer"))
	assert.Equal(t, "continue_outer", f.label("continue", "outer"))
	assert.Equal(t, "break_outer_1", f.label("break", "outer"))
	assert.Equal(t, "break_outer_2", f.label("break", "outer"))

	g := newFinallyContext()
	assert.Equal(t, "break_outer", g.label("break", "outer"), "labels are per method")
}
