package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestContentHeight(t *testing.T) {
	assert.Equal(t, 22, NewLayout(80, 24).ContentHeight())
	assert.Equal(t, 0, NewLayout(80, 1).ContentHeight())
}

func TestRenderHeaderFillsWidth(t *testing.T) {
	l := NewLayout(60, 24)
	header := l.RenderHeader("Webmail [2 new]", "idle")

	assert.Contains(t, header, "Webmail [2 new]")
	assert.Contains(t, header, "idle")
	assert.Equal(t, 60, lipgloss.Width(header))
}

func TestRenderStatusBarPrefersError(t *testing.T) {
	l := NewLayout(60, 24)

	bar := l.RenderStatusBar("q quit", "")
	assert.Contains(t, bar, "q quit")

	bar = l.RenderStatusBar("q quit", "send failed: connection refused")
	assert.Contains(t, bar, "send failed")
	assert.False(t, strings.Contains(bar, "q quit"))
}
