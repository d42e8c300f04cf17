// Package muxtest provides fakes for the muxproto collaborator interfaces
// (§6) so muxproto's own tests can drive the protocol engine without the
// real muxmodel/vterm implementation.
package muxtest

import (
	"fmt"
	"io"
	"net"

	"github.com/ehrlich-b/ctrlmux/internal/muxproto"
)

// Pane is a fake muxproto.Pane. Fed bytes and cursor moves are recorded for
// assertions; InputSink is a real net.Pipe so the Input Bridge and Output
// Router can be exercised end to end.
type Pane struct {
	local, remote net.Conn

	Active  bool
	Killed  bool
	Fed     [][]byte
	Swaps   int
	CursorX int
	CursorY int
}

// NewPane creates a Pane with a live bidirectional pipe.
func NewPane() *Pane {
	local, remote := net.Pipe()
	return &Pane{local: local, remote: remote}
}

func (p *Pane) InputSink() io.ReadWriteCloser { return p.remote }

// LocalEnd is the surrounding multiplexer's end of the pipe, for tests to
// read rendered output from or write keystrokes into.
func (p *Pane) LocalEnd() net.Conn { return p.local }

func (p *Pane) Feed(data []byte) {
	cp := append([]byte(nil), data...)
	p.Fed = append(p.Fed, cp)
}

func (p *Pane) SwapGrid()          { p.Swaps++ }
func (p *Pane) SetCursor(x, y int) { p.CursorX, p.CursorY = x, y }
func (p *Pane) SetActive()         { p.Active = true }
func (p *Pane) Kill()              { p.Killed = true }

// Window is a fake muxproto.Window.
type Window struct {
	Name       string
	Layout     string
	LayoutErr  error
	InitCalled bool
	Redraws    int
	Panes      []*Pane
	Active     muxproto.Pane
}

func NewWindow() *Window { return &Window{} }

func (w *Window) SetName(name string)      { w.Name = name }
func (w *Window) SetLayout(l string) error { w.Layout = l; return w.LayoutErr }
func (w *Window) InitLayout()              { w.InitCalled = true }
func (w *Window) Redraw()                  { w.Redraws++ }

func (w *Window) AddPane(historyLimit int) muxproto.Pane {
	p := NewPane()
	w.Panes = append(w.Panes, p)
	return p
}

func (w *Window) SetActivePane(p muxproto.Pane) { w.Active = p }
func (w *Window) ActivePane() muxproto.Pane     { return w.Active }
func (w *Window) Close()                        {}

// Winlink is a fake muxproto.Winlink.
type Winlink struct {
	Win muxproto.Window
	Idx int
}

func (l *Winlink) Window() muxproto.Window { return l.Win }
func (l *Winlink) Index() int              { return l.Idx }

// Session is a fake muxproto.Session.
type Session struct {
	Name        string
	Destroyed   bool
	NotifyOnDie bool
	Current     muxproto.Winlink
	Redraws     int
}

func NewSession(name string) *Session { return &Session{Name: name} }

func (s *Session) ID() string { return s.Name }

func (s *Session) SetCurrentWindow(w muxproto.Winlink) { s.Current = w }
func (s *Session) CurrentWindow() muxproto.Winlink     { return s.Current }
func (s *Session) Destroy(notify bool) {
	s.Destroyed = true
	s.NotifyOnDie = notify
}
func (s *Session) Redraw() { s.Redraws++ }

// Factory is a fake muxproto.Factory recording every object it creates.
type Factory struct {
	HistoryLimit int
	Sessions     []*Session
	Windows      []*Window
	Winlinks     []*Winlink
}

func NewFactory(defaultHistoryLimit int) *Factory {
	return &Factory{HistoryLimit: defaultHistoryLimit}
}

func (f *Factory) NewSession(name, cwd string, environ map[string]string, term string) muxproto.Session {
	s := NewSession(name)
	f.Sessions = append(f.Sessions, s)
	return s
}

func (f *Factory) NewWindow(sx, sy int) muxproto.Window {
	w := NewWindow()
	f.Windows = append(f.Windows, w)
	return w
}

func (f *Factory) AddWinlink(sess muxproto.Session, index int, w muxproto.Window) muxproto.Winlink {
	l := &Winlink{Win: w, Idx: index}
	f.Winlinks = append(f.Winlinks, l)
	return l
}

func (f *Factory) DefaultHistoryLimit() int { return f.HistoryLimit }

// LogSink is a fake muxproto.LogSink recording formatted lines.
type LogSink struct {
	Lines []string
}

func (s *LogSink) Logf(format string, args ...any) {
	s.Lines = append(s.Lines, fmt.Sprintf(format, args...))
}

// Transport is a fake muxproto.Transport recording every write.
type Transport struct {
	Written []byte
	Flushes int
	Closed  bool
	WriteErr error
}

func (t *Transport) Write(data []byte) error {
	if t.WriteErr != nil {
		return t.WriteErr
	}
	t.Written = append(t.Written, data...)
	return nil
}

func (t *Transport) Flush() error {
	t.Flushes++
	return nil
}

func (t *Transport) Close() error {
	t.Closed = true
	return nil
}
