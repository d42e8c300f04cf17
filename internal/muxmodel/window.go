package muxmodel

import "github.com/ehrlich-b/ctrlmux/internal/muxproto"

// Window implements muxproto.Window. Layout is stored verbatim rather than
// parsed into a pane geometry tree: this core never needs to lay out panes
// itself (the remote is authoritative for screen content), only to display
// whichever pane is active, so the stored layout string is purely
// informational (see DESIGN.md).
type Window struct {
	name       string
	layout     string
	cols, rows int
	panes      []*Pane
	active     muxproto.Pane
	redraws    int
	closed     bool
}

// NewWindow creates a window of the given cell size.
func NewWindow(cols, rows int) *Window {
	return &Window{cols: cols, rows: rows}
}

func (w *Window) SetName(name string) { w.name = name }

// SetLayout stores the remote's layout string. Always succeeds: a malformed
// layout string degrades to "no known layout" rather than a hard error,
// since nothing downstream depends on parsing it (see DESIGN.md).
func (w *Window) SetLayout(layout string) error {
	w.layout = layout
	return nil
}

func (w *Window) InitLayout() {}

func (w *Window) Redraw() { w.redraws++ }

func (w *Window) AddPane(historyLimit int) muxproto.Pane {
	p := NewPane(w.cols, w.rows, historyLimit)
	w.panes = append(w.panes, p)
	return p
}

func (w *Window) SetActivePane(p muxproto.Pane) { w.active = p }

func (w *Window) ActivePane() muxproto.Pane { return w.active }

func (w *Window) Close() {
	w.closed = true
	for _, p := range w.panes {
		p.Kill()
	}
}

// Name and Layout expose the window's current display state to the
// surrounding UI.
func (w *Window) Name() string   { return w.name }
func (w *Window) Layout() string { return w.layout }

// Winlink implements muxproto.Winlink.
type Winlink struct {
	window *Window
	index  int
}

func (l *Winlink) Window() muxproto.Window { return l.window }
func (l *Winlink) Index() int              { return l.index }
