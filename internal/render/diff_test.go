package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffRowsMarksNewRowsAsChanged(t *testing.T) {
	prior := []string{"a"}
	next := []renderedRow{{plain: "a"}, {plain: "b"}}
	changed := diffRows(prior, next)
	assert.Equal(t, []bool{false, true}, changed)
}

func TestDiffRowsMarksByteIdenticalRowUnchanged(t *testing.T) {
	prior := []string{"hello", "world"}
	next := []renderedRow{{plain: "hello"}, {plain: "WORLD"}}
	changed := diffRows(prior, next)
	assert.Equal(t, []bool{false, true}, changed)
}

func TestCommonChangedSpanFullRepaintWhenPriorEmpty(t *testing.T) {
	start, end, ok := commonChangedSpan("", "hello")
	assert.True(t, ok)
	assert.Equal(t, 0, start)
	assert.Equal(t, 5, end)
}

func TestCommonChangedSpanNoOpWhenBothEmpty(t *testing.T) {
	_, _, ok := commonChangedSpan("", "")
	assert.False(t, ok)
}

func TestCommonChangedSpanNarrowsToChangedSuffix(t *testing.T) {
	start, end, ok := commonChangedSpan("hello world", "hello there")
	assert.True(t, ok)
	assert.True(t, start >= 5, "the shared \"hello \" prefix should not be reported as changed")
	assert.True(t, end <= 11)
}

func TestCommonChangedSpanIdenticalStringsReportNoChange(t *testing.T) {
	_, _, ok := commonChangedSpan("same", "same")
	assert.False(t, ok)
}
