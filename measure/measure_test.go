package measure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/richline/layout"
)

func TestOpenTypeMeasure(t *testing.T) {
	m, err := NewOpenType(Options{Size: 12, DPI: 72})
	require.NoError(t, err)
	defer m.Close()

	w1, h := m.Measure("a", false, false, false)
	w2, _ := m.Measure("aa", false, false, false)
	assert.Greater(t, w1, 0.0)
	assert.InDelta(t, 2*w1, w2, 0.5)
	assert.Greater(t, h, 0.0)

	empty, eh := m.Measure("", false, false, true)
	assert.Equal(t, 0.0, empty)
	assert.Equal(t, h, eh)

	bold, _ := m.Measure("Wide words", true, false, false)
	regular, _ := m.Measure("Wide words", false, false, false)
	assert.NotEqual(t, regular, bold)
}

func TestOpenTypeScalesWithSize(t *testing.T) {
	small, err := NewOpenType(Options{Size: 10})
	require.NoError(t, err)
	large, err := NewOpenType(Options{Size: 20})
	require.NoError(t, err)

	ws, hs := small.Measure("Hello", false, false, false)
	wl, hl := large.Measure("Hello", false, false, false)
	assert.InDelta(t, 2*ws, wl, 1)
	assert.InDelta(t, 2*hs, hl, 1)
}

func TestOpenTypeLeftBearing(t *testing.T) {
	m, err := NewOpenType(Options{Size: 48, DPI: 72})
	require.NoError(t, err)

	with, _ := m.Measure("W", false, false, false)
	without, _ := m.Measure("W", false, false, true)
	// 左侧空白可正可负，但不会超过字形本身的宽度
	assert.InDelta(t, with, without, with/2)
}

func TestOpenTypeWrapsLines(t *testing.T) {
	m, err := NewOpenType(Options{})
	require.NoError(t, err)

	res, err := layout.Build("The quick brown fox jumps over the lazy dog", layout.BuildOptions{
		Measurer: m,
		MaxWidth: 80,
		Wrap:     true,
		Markup:   true,
	})
	require.NoError(t, err)
	require.Greater(t, len(res.Lines), 1)
	for _, l := range res.Lines {
		assert.NotEmpty(t, l.Runs)
	}
}

func TestCells(t *testing.T) {
	c := NewCells(false)
	w, h := c.Measure("abc", false, false, true)
	assert.Equal(t, 3.0, w)
	assert.Equal(t, 1.0, h)

	w, _ = c.Measure("日本", false, false, false)
	assert.Equal(t, 4.0, w)

	var zero Cells
	w, _ = zero.Measure("ab", true, true, false)
	assert.Equal(t, 2.0, w)

	res, err := layout.Build("aaa bbb ccc", layout.BuildOptions{Measurer: c, MaxWidth: 7, Wrap: true, Markup: true})
	require.NoError(t, err)
	require.Len(t, res.Lines, 2)
	assert.Equal(t, "aaa bbb ", res.Lines[0].Text())
	assert.Equal(t, "ccc", res.Lines[1].Text())
}
