// Package muxmodel is the concrete multiplexer collaborator implementation
// (§6) backing the muxproto engine: Session, Window, Winlink and Pane are
// thin wrappers around internal/vterm's screen pair, wired together the way
// a real attach client would wire them to an on-screen render surface.
package muxmodel

import (
	"io"
	"net"

	"github.com/ehrlich-b/ctrlmux/internal/vterm"
)

// Pane implements muxproto.Pane, pairing a vterm.Pane (the actual terminal
// emulation) with the bidirectional byte pipe §4.7 step 6 describes: one end
// is handed back as InputSink for the Output Router and Input Bridge to
// drive; the other (Render) end is read by whatever paints the local
// screen.
type Pane struct {
	screen *vterm.Pane

	sink   net.Conn // Remote's end (Output Router writes, Input Bridge reads)
	render net.Conn // surrounding UI's end

	active bool
	killed bool
}

// NewPane allocates a pane's screen and its byte pipe.
func NewPane(cols, rows, historyLimit int) *Pane {
	render, sink := net.Pipe()
	return &Pane{
		screen: vterm.NewPane(cols, rows, historyLimit),
		sink:   sink,
		render: render,
	}
}

// InputSink returns the Remote-facing end of the byte pipe (§3, §6 "Byte
// pipe").
func (p *Pane) InputSink() io.ReadWriteCloser { return &pipeEnd{p.sink} }

// RenderEnd returns the UI-facing end of the byte pipe, for whatever
// terminal surface displays this pane.
func (p *Pane) RenderEnd() net.Conn { return p.render }

// Feed writes decoded bytes to the pane's current grid (§4.4, §4.8).
func (p *Pane) Feed(data []byte) { p.screen.Feed(data) }

// SwapGrid exchanges the pane's current grid between primary and alternate
// screen (§4.8).
func (p *Pane) SwapGrid() { p.screen.SwapGrid() }

// SetCursor restores a recorded cursor position (§4.8).
func (p *Pane) SetCursor(x, y int) { p.screen.SetCursor(x, y) }

// SetActive marks this pane as its window's active pane.
func (p *Pane) SetActive() { p.active = true }

// Kill tears down the pane's screen and byte pipe (§4.4 %window-close
// cascade).
func (p *Pane) Kill() {
	if p.killed {
		return
	}
	p.killed = true
	p.screen.Close()
	p.render.Close()
}

// Resize changes the pane's screen dimensions, e.g. on a local terminal
// resize.
func (p *Pane) Resize(cols, rows int) { p.screen.Resize(cols, rows) }

// Render returns the pane's current visible contents for an initial paint.
func (p *Pane) Render() []byte { return p.screen.Render() }

// pipeEnd adapts net.Conn to the plain io.ReadWriteCloser the muxproto.Pane
// interface expects, hiding the deadline methods that are irrelevant here.
type pipeEnd struct {
	net.Conn
}
