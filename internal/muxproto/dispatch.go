package muxproto

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"
)

// Dispatcher classifies a %-prefixed line by prefix, parses its arguments,
// and invokes the matching notification handler (§4.4). Handlers are set by
// Remote at construction time; any left nil are treated as a no-op for
// that event.
type Dispatcher struct {
	log   *slog.Logger
	Model *Model

	OnOutput              func(paneID uint32, data []byte)
	OnSessionChanged       func(sessionID uint32, name string)
	OnWindowPaneChanged    func(windowID, paneID uint32)
	OnWindowClose          func(windowID uint32)
	OnSessionWindowChanged func(sessionID, windowID uint32)
	OnExit                 func()
}

// NewDispatcher creates a Dispatcher bound to a model, logging through log.
func NewDispatcher(model *Model, log *slog.Logger) *Dispatcher {
	return &Dispatcher{log: log, Model: model}
}

// Dispatch attempts each pattern of §4.4's table in order; the first match
// wins. Unparseable or unrecognized %-prefixed lines are logged and
// ignored (§7 "Dispatch error").
func (d *Dispatcher) Dispatch(line []byte) {
	verb, rest := splitVerb(line)
	switch verb {
	case "%output":
		d.dispatchOutput(rest, false)
	case "%extended-output":
		d.dispatchOutput(rest, true)
	case "%session-changed":
		d.dispatchSessionChanged(rest)
	case "%pane-mode-changed":
		// No-op in this core.
	case "%window-renamed", "%unlinked-window-renamed":
		// No-op in this core.
	case "%session-renamed":
		// No-op.
	case "%client-session-changed":
		// No-op.
	case "%window-pane-changed":
		d.dispatchWindowPaneChanged(rest)
	case "%window-close":
		d.dispatchWindowClose(rest)
	case "%unlinked-window-close":
		// No-op.
	case "%window-add", "%unlinked-window-add":
		// No-op: full add deferred to next full bootstrap (§9 open question).
	case "%session-window-changed":
		d.dispatchSessionWindowChanged(rest)
	case "%sessions-changed":
		// No-op.
	case "%exit":
		if d.OnExit != nil {
			d.OnExit()
		}
	default:
		d.logf("unrecognized event: %q", line)
	}
}

// dispatchOutput handles "%output %P <data>" and
// "%extended-output %P <age> : <data>" (age ignored, §4.4).
func (d *Dispatcher) dispatchOutput(rest []byte, extended bool) {
	fields := bytes.SplitN(rest, []byte(" "), 2)
	if len(fields) < 2 {
		d.logf("malformed output event: %q", rest)
		return
	}
	paneID, ok := parseSigilID(fields[0], '%')
	if !ok {
		d.logf("malformed pane id in output event: %q", fields[0])
		return
	}
	data := fields[1]
	if extended {
		// "<age> : <data>" — parse and discard age, keep payload after ": ".
		parts := bytes.SplitN(data, []byte(" : "), 2)
		if len(parts) != 2 {
			d.logf("malformed extended-output event: %q", rest)
			return
		}
		if _, err := strconv.ParseUint(string(parts[0]), 10, 64); err != nil {
			d.logf("malformed extended-output age: %q", parts[0])
			return
		}
		data = parts[1]
	}
	if d.OnOutput != nil {
		d.OnOutput(paneID, data)
	}
}

func (d *Dispatcher) dispatchSessionChanged(rest []byte) {
	fields := bytes.SplitN(rest, []byte(" "), 2)
	if len(fields) < 1 {
		d.logf("malformed session-changed event: %q", rest)
		return
	}
	sessionID, ok := parseSigilID(fields[0], '$')
	if !ok {
		d.logf("malformed session id in session-changed event: %q", fields[0])
		return
	}
	name := ""
	if len(fields) == 2 {
		name = string(fields[1])
	}
	if d.OnSessionChanged != nil {
		d.OnSessionChanged(sessionID, name)
	}
}

func (d *Dispatcher) dispatchWindowPaneChanged(rest []byte) {
	fields := bytes.Fields(rest)
	if len(fields) < 2 {
		d.logf("malformed window-pane-changed event: %q", rest)
		return
	}
	windowID, ok1 := parseSigilID(fields[0], '@')
	paneID, ok2 := parseSigilID(fields[1], '%')
	if !ok1 || !ok2 {
		d.logf("malformed ids in window-pane-changed event: %q", rest)
		return
	}
	if d.OnWindowPaneChanged != nil {
		d.OnWindowPaneChanged(windowID, paneID)
	}
}

func (d *Dispatcher) dispatchWindowClose(rest []byte) {
	fields := bytes.Fields(rest)
	if len(fields) < 1 {
		d.logf("malformed window-close event: %q", rest)
		return
	}
	windowID, ok := parseSigilID(fields[0], '@')
	if !ok {
		d.logf("malformed window id in window-close event: %q", fields[0])
		return
	}
	if d.OnWindowClose != nil {
		d.OnWindowClose(windowID)
	}
}

func (d *Dispatcher) dispatchSessionWindowChanged(rest []byte) {
	fields := bytes.Fields(rest)
	if len(fields) < 2 {
		d.logf("malformed session-window-changed event: %q", rest)
		return
	}
	sessionID, ok1 := parseSigilID(fields[0], '$')
	windowID, ok2 := parseSigilID(fields[1], '@')
	if !ok1 || !ok2 {
		d.logf("malformed ids in session-window-changed event: %q", rest)
		return
	}
	if d.OnSessionWindowChanged != nil {
		d.OnSessionWindowChanged(sessionID, windowID)
	}
}

func (d *Dispatcher) logf(format string, args ...any) {
	if d.log != nil {
		d.log.Warn("dispatch: " + fmt.Sprintf(format, args...))
	}
}

// parseSigilID strips the leading sigil byte (e.g. '%', '@', '$') and
// parses the remainder as an unsigned integer (§4.6 "Pane line syntax").
func parseSigilID(field []byte, sigil byte) (uint32, bool) {
	if len(field) < 2 || field[0] != sigil {
		return 0, false
	}
	n, err := strconv.ParseUint(string(field[1:]), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}
