package muxmodel

import "github.com/ehrlich-b/ctrlmux/internal/muxproto"

// Session implements muxproto.Session.
type Session struct {
	name    string
	cwd     string
	environ map[string]string
	term    string

	current   muxproto.Winlink
	destroyed bool
	redraws   int

	// OnRedraw, if set, notifies the surrounding UI that the session's
	// visible state changed; it fires on every Redraw call (e.g. after a
	// bootstrap commit).
	OnRedraw func()
}

// NewSession creates a session mirror. It takes no id: this client never
// originates session ids, and ID reports the session name.
func NewSession(name, cwd string, environ map[string]string, term string) *Session {
	return &Session{name: name, cwd: cwd, environ: environ, term: term}
}

func (s *Session) ID() string { return s.name }

func (s *Session) SetCurrentWindow(w muxproto.Winlink) { s.current = w }

func (s *Session) CurrentWindow() muxproto.Winlink { return s.current }

func (s *Session) Destroy(notify bool) {
	s.destroyed = true
}

func (s *Session) Redraw() {
	s.redraws++
	if s.OnRedraw != nil {
		s.OnRedraw()
	}
}

// Environ exposes the session's captured environment, e.g. for a debug
// pane listing.
func (s *Session) Environ() map[string]string { return s.environ }
