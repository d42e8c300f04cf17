package muxmodel

import "github.com/ehrlich-b/ctrlmux/internal/muxproto"

// Factory implements muxproto.Factory, constructing the concrete
// Session/Window/Winlink/Pane types above.
type Factory struct {
	defaultHistoryLimit int

	// OnRedraw, if set, is attached to every Session this factory creates
	// (see Session.OnRedraw).
	OnRedraw func()
}

// NewFactory creates a Factory. defaultHistoryLimit backs
// Factory.DefaultHistoryLimit (§6 "Options: get_number(\"history-limit\")").
func NewFactory(defaultHistoryLimit int) *Factory {
	return &Factory{defaultHistoryLimit: defaultHistoryLimit}
}

func (f *Factory) NewSession(name, cwd string, environ map[string]string, term string) muxproto.Session {
	s := NewSession(name, cwd, environ, term)
	s.OnRedraw = f.OnRedraw
	return s
}

func (f *Factory) NewWindow(sx, sy int) muxproto.Window {
	return NewWindow(sx, sy)
}

func (f *Factory) AddWinlink(sess muxproto.Session, index int, w muxproto.Window) muxproto.Winlink {
	window, _ := w.(*Window)
	return &Winlink{window: window, index: index}
}

func (f *Factory) DefaultHistoryLimit() int { return f.defaultHistoryLimit }
