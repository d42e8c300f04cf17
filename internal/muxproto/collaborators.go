package muxproto

import "io"

// This file defines the external collaborator API the core consumes (§6).
// Implementations live outside this package — internal/muxmodel provides a
// self-contained one backed by internal/vterm, and internal/muxtest
// provides fakes for unit tests. The core never constructs these types
// itself; it only calls the interfaces below.

// LogSink is the in-app debug pane (§3 "a logging sink"): a second
// destination for the human-readable lines Remote itself logs (transport
// write failures, model misses in window events). Lines logged by the
// Assembler, Dispatcher, Bootstrap and OutputRouter go only to the
// structured logger, not to the LogSink.
type LogSink interface {
	Logf(format string, args ...any)
}

// Pane is the surrounding multiplexer's pane object (§6 "Pane"), folding in
// the Terminal-input-parser and Grid collaborators: in this port a pane
// owns its own terminal emulation directly rather than routing through a
// separate indirection (see DESIGN.md).
type Pane interface {
	// InputSink is the Remote's end of a bidirectional byte pipe (§3, §6
	// "Byte pipe"). The Input Bridge reads typed keystrokes from it; the
	// Output Router writes decoded %output bytes into it so the pane's own
	// end renders them identically to locally-spawned pane output.
	InputSink() io.ReadWriteCloser

	// Feed writes decoded bytes to whichever grid is current (§4.4, §4.8).
	Feed(data []byte)

	// SwapGrid exchanges the current grid between primary and alternate
	// screen (§4.8 history replay).
	SwapGrid()

	// SetCursor restores a recorded cursor position (§4.8).
	SetCursor(x, y int)

	// SetActive marks this pane as its window's active pane.
	SetActive()

	// Kill tears down the pane's resources (§4.4 %window-close cascade).
	Kill()
}

// Window is a window inside a session (§6 "Window").
type Window interface {
	SetName(name string)
	// SetLayout parses and applies a stored tmux layout string (§4.6 step
	// 4's "window listing" fields).
	SetLayout(layout string) error
	// InitLayout is called once, for the first pane added to the window
	// (§4.7 step 4).
	InitLayout()
	Redraw()
	// AddPane creates and inserts a new pane with the given scrollback
	// limit (§4.7 step 3).
	AddPane(historyLimit int) Pane
	SetActivePane(p Pane)
	ActivePane() Pane
	// Close tombstones the window (§4.4 %window-close, §3 tombstone).
	Close()
}

// Winlink links a window into a session at an index (§6 "Winlink").
type Winlink interface {
	Window() Window
	Index() int
}

// Session is the attached remote session's local mirror (§6 "Session").
type Session interface {
	ID() string
	SetCurrentWindow(w Winlink)
	CurrentWindow() Winlink
	// Destroy tears down the session; notify controls whether the
	// surrounding multiplexer announces the destruction (§6 "destroy with
	// a notify flag").
	Destroy(notify bool)
	Redraw()
}

// Factory constructs multiplexer objects during bootstrap (§4.6, §4.7). It
// is the one collaborator surface not tied to a specific session/window/
// pane instance.
type Factory interface {
	// NewSession creates a session with the given name, working directory,
	// environment and terminal type (§6 "Session: create with
	// (id-or-null, name, cwd, environ, options, term)"). No id is passed:
	// the local mirror is created without one.
	NewSession(name, cwd string, environ map[string]string, term string) Session

	// NewWindow creates a window of the given cell size (§6 "Window:
	// create (sx, sy, xpixel, ypixel)"); only the cell size is passed, no
	// pixel dimensions.
	NewWindow(sx, sy int) Window

	// AddWinlink inserts w into sess at index, returning the link (§6
	// "Winlink: add at index; set session; set window").
	AddWinlink(sess Session, index int, w Window) Winlink

	// DefaultHistoryLimit returns the global "history-limit" option (§6
	// "Options: ... get_number(\"history-limit\")"), used when a pane
	// listing row's own history_limit field is absent or zero.
	DefaultHistoryLimit() int
}
