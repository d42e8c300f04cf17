package vterm

import (
	"strings"
	"testing"
)

func TestPaneFeedBasicOutput(t *testing.T) {
	p := NewPane(80, 24, 0)
	defer p.Close()

	p.Feed([]byte("hello world"))
	out := string(p.Render())
	if !strings.Contains(out, "hello world") {
		t.Errorf("render missing basic output, got:\n%s", out)
	}
}

func TestPaneScrollbackCapture(t *testing.T) {
	p := NewPane(80, 10, 0)
	defer p.Close()

	for range 50 {
		p.Feed([]byte("line\r\n"))
	}

	if got := p.ScrollbackLen(); got != 41 {
		t.Errorf("scrollback len = %d, want 41", got)
	}
}

func TestPaneSwapGridIsolatesScreens(t *testing.T) {
	p := NewPane(80, 10, 0)
	defer p.Close()

	p.Feed([]byte("primary text"))
	p.SwapGrid() // now on alternate
	p.Feed([]byte("alternate text"))

	altRender := string(p.Render())
	if !strings.Contains(altRender, "alternate text") {
		t.Errorf("alternate render missing its own text: %s", altRender)
	}
	if strings.Contains(altRender, "primary text") {
		t.Errorf("alternate render leaked primary text: %s", altRender)
	}

	p.SwapGrid() // back to primary
	primaryRender := string(p.Render())
	if !strings.Contains(primaryRender, "primary text") {
		t.Errorf("primary render missing its own text after swap back: %s", primaryRender)
	}
	if strings.Contains(primaryRender, "alternate text") {
		t.Errorf("primary render leaked alternate text: %s", primaryRender)
	}
}

func TestPaneSwapOnlyPrimaryAccumulatesScrollback(t *testing.T) {
	p := NewPane(80, 5, 0)
	defer p.Close()

	p.SwapGrid() // alternate current
	for range 20 {
		p.Feed([]byte("x\r\n"))
	}
	if got := p.ScrollbackLen(); got != 0 {
		t.Errorf("alternate writes should not grow primary scrollback, got %d", got)
	}
}

func TestPaneResize(t *testing.T) {
	p := NewPane(80, 24, 0)
	defer p.Close()
	p.Resize(100, 30)
	if p.cols != 100 || p.rows != 30 {
		t.Errorf("Resize did not update dims: %d x %d", p.cols, p.rows)
	}
}
