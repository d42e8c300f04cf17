package muxproto

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"
)

const paneListFormat = "#{window_id}\t#{window_index}\t#{window_width}\t#{window_height}\t" +
	"#{pane_id}\t#{pane_index}\t#{pane_active}\t#{cursor_x}\t#{cursor_y}\t#{history_limit}"

const windowListFormat = "#{window_id}\t#{window_name}\t#{window_layout}\t#{window_flags}\t#{window_active}"

// envEntry is one bootstrap environment record (§4.6 "Env line syntax").
// Cleared hidden vars are kept as hidden-and-empty rather than deleted, per
// original_source/remote.c's environ_set/environ_clear semantics
// (SPEC_FULL.md §12).
type envEntry struct {
	value   string
	hidden  bool
	cleared bool
}

// bootstrapContext is the disposable state built up over a bootstrap's
// replies (§4.6 "Builds a disposable context"). Nothing here is visible to
// the Remote handle until Commit fires.
type bootstrapContext struct {
	sessionID   uint32
	sessionName string
	env         map[string]*envEntry
	windows     map[uint32]*WindowRecord
	panes       map[uint32]*PaneRecord
	paneOrder   []uint32
	paneHlimit  map[uint32]int
	session     Session
	historyIdx  int
}

// Bootstrap drives the fixed query sequence of §4.6 through a single
// multi-body Request, folding each reply into a bootstrapContext and
// promoting it onto a Model only once every reply (including the variable
// history-replay tail) has arrived successfully.
type Bootstrap struct {
	log                 *slog.Logger
	factory             Factory
	queue               *RequestQueue
	writeCmd            func(cmd string)
	historyLimitCeiling int

	// OnCommit receives the finished context's session/windows/panes once
	// the bootstrap completes successfully.
	OnCommit func(session Session, windows map[uint32]*WindowRecord, panes map[uint32]*PaneRecord)

	// OnPaneReady fires once per pane immediately after it is constructed
	// and inserted into the context's pane map (§4.7 step 6 "bind a reader
	// on the bridge end"), before history replay begins.
	OnPaneReady func(pr *PaneRecord)

	state uint32
	ctx   *bootstrapContext
	req   *Request
}

// NewBootstrap creates a Bootstrap. writeCmd appends raw command bytes
// (including trailing newline) to the transport's outbound buffer.
// historyLimitCeiling caps a pane's reported history_limit field; 0 means
// uncapped.
func NewBootstrap(factory Factory, queue *RequestQueue, writeCmd func(cmd string), historyLimitCeiling int, log *slog.Logger) *Bootstrap {
	return &Bootstrap{
		factory:             factory,
		queue:               queue,
		writeCmd:            writeCmd,
		historyLimitCeiling: historyLimitCeiling,
		log:                 log,
	}
}

// Begin starts a new bootstrap for session sessionID/name, discarding any
// prior in-progress context (§4.6 "If a previous local session exists, it
// is destroyed before starting" — destruction of the previously *committed*
// session is the caller's responsibility via OnCommit's prior result; Begin
// only discards an in-progress, uncommitted context).
func (b *Bootstrap) Begin(sessionID uint32, name string) {
	b.ctx = &bootstrapContext{
		sessionID:   sessionID,
		sessionName: name,
		env:         make(map[string]*envEntry),
		windows:     make(map[uint32]*WindowRecord),
		panes:       make(map[uint32]*PaneRecord),
		paneHlimit:  make(map[uint32]int),
	}
	b.state = 0

	sidTok := fmt.Sprintf("$%d", sessionID)
	cmds := []string{
		"show-environment -t " + sidTok,
		"show-environment -ht " + sidTok,
		fmt.Sprintf("list-panes -st %s -F %s", sidTok, paneListFormat),
		fmt.Sprintf("list-windows -t %s -F %s", sidTok, windowListFormat),
	}
	req := &Request{
		Label:     "bootstrap",
		Arity:     len(cmds),
		OnSuccess: b.onSuccess,
		OnError:   b.onError,
	}
	b.req = req
	b.queue.Push(req)
	b.writeCmd(joinCommands(cmds))
}

// InProgress reports whether a bootstrap is currently underway.
func (b *Bootstrap) InProgress() bool {
	return b.ctx != nil
}

func (b *Bootstrap) onSuccess(body []byte) {
	if b.ctx == nil {
		return
	}
	switch {
	case b.state == 0:
		parseEnvBody(b.ctx.env, body, false)
		b.state = 1
	case b.state == 1:
		parseEnvBody(b.ctx.env, body, true)
		b.ctx.session = b.newSessionFromContext()
		b.state = 2
	case b.state == 2:
		b.parsePaneListing(body)
		b.state = 3
	case b.state == 3:
		b.parseWindowListing(body)
		b.state = 4
	default:
		b.feedHistoryBody(body)
		b.state++
	}

	if b.req.Arity <= 0 {
		b.commit()
	}
}

func (b *Bootstrap) onError(body []byte) {
	b.logf("bootstrap command error, aborting: %q", body)
	b.ctx = nil
	b.req = nil
}

func (b *Bootstrap) newSessionFromContext() Session {
	environ := make(map[string]string, len(b.ctx.env))
	for name, e := range b.ctx.env {
		environ[name] = e.value
	}
	return b.factory.NewSession(b.ctx.sessionName, "", environ, "")
}

func (b *Bootstrap) commit() {
	ctx := b.ctx
	b.ctx = nil
	b.req = nil
	if ctx.session == nil {
		b.logf("bootstrap completed without a session, discarding")
		return
	}
	if b.OnCommit != nil {
		b.OnCommit(ctx.session, ctx.windows, ctx.panes)
	}
	ctx.session.Redraw()
}

// parsePaneListing implements §4.7 over one list-panes reply body, then
// enqueues the history-capture command tail (§4.6 state 2).
func (b *Bootstrap) parsePaneListing(body []byte) {
	var historyCmds []string
	for _, line := range splitBodyLines(body) {
		if len(line) == 0 {
			continue
		}
		fields := bytes.Split(line, []byte("\t"))
		if len(fields) > 0 && len(fields[len(fields)-1]) == 0 {
			fields = fields[:len(fields)-1] // tolerate trailing tab (§12)
		}
		if len(fields) < 10 {
			b.logf("malformed pane listing row, skipping: %q", line)
			continue
		}
		windowID, ok := parseSigilID(fields[0], '@')
		if !ok {
			b.logf("malformed window id in pane listing row, skipping: %q", line)
			continue
		}
		windowIndex, err1 := strconv.Atoi(string(fields[1]))
		sx, err2 := strconv.Atoi(string(fields[2]))
		sy, err3 := strconv.Atoi(string(fields[3]))
		paneID, ok2 := parseSigilID(fields[4], '%')
		paneActive, err4 := strconv.Atoi(string(fields[6]))
		cx, err5 := strconv.Atoi(string(fields[7]))
		cy, err6 := strconv.Atoi(string(fields[8]))
		hlimit, err7 := strconv.Atoi(string(fields[9]))
		if !ok2 || err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil || err6 != nil || err7 != nil {
			b.logf("malformed pane listing row, skipping: %q", line)
			continue
		}

		wr, first := b.ctx.windows[windowID]
		if wr == nil {
			window := b.factory.NewWindow(sx, sy)
			link := b.factory.AddWinlink(b.ctx.session, windowIndex, window)
			wr = &WindowRecord{RemoteID: windowID, Link: link}
			b.ctx.windows[windowID] = wr
			first = true
		} else {
			first = false
		}

		if hlimit <= 0 {
			hlimit = b.factory.DefaultHistoryLimit()
		}
		if b.historyLimitCeiling > 0 && hlimit > b.historyLimitCeiling {
			hlimit = b.historyLimitCeiling
		}

		window := wr.Link.Window()
		pane := window.AddPane(hlimit)
		if first {
			window.InitLayout()
		}
		if paneActive != 0 || first {
			window.SetActivePane(pane)
			wr.ActivePane = paneID
		}

		pr := &PaneRecord{
			RemotePaneID:   paneID,
			RemoteWindowID: windowID,
			Local:          pane,
			InitCursorX:    cx,
			InitCursorY:    cy,
		}
		b.ctx.panes[paneID] = pr
		b.ctx.paneOrder = append(b.ctx.paneOrder, paneID)
		b.ctx.paneHlimit[paneID] = hlimit
		if b.OnPaneReady != nil {
			b.OnPaneReady(pr)
		}

		historyCmds = append(historyCmds,
			fmt.Sprintf("capture-pane -peqCJN -S -%d -t %%%d", hlimit, paneID),
			fmt.Sprintf("capture-pane -apeqCJN -S -%d -t %%%d", hlimit, paneID))
	}

	if len(historyCmds) > 0 {
		b.queue.ExtendTail(len(historyCmds))
		b.writeCmd(joinCommands(historyCmds))
	}
}

// parseWindowListing implements the list-windows half of §4.6 state 3.
func (b *Bootstrap) parseWindowListing(body []byte) {
	for _, line := range splitBodyLines(body) {
		if len(line) == 0 {
			continue
		}
		fields := bytes.Split(line, []byte("\t"))
		if len(fields) > 0 && len(fields[len(fields)-1]) == 0 {
			fields = fields[:len(fields)-1]
		}
		if len(fields) < 5 {
			b.logf("malformed window listing row, skipping: %q", line)
			continue
		}
		windowID, ok := parseSigilID(fields[0], '@')
		if !ok {
			b.logf("malformed window id in window listing row, skipping: %q", line)
			continue
		}
		name := string(fields[1])
		layout := string(fields[2])
		active, err := strconv.Atoi(string(fields[4]))
		if err != nil {
			b.logf("malformed window listing row, skipping: %q", line)
			continue
		}

		wr, ok := b.ctx.windows[windowID]
		if !ok {
			// A window with no panes never appeared during list-panes; §4.7
			// only creates windows alongside their first pane.
			b.logf("window listing references window with no panes, skipping: %q", line)
			continue
		}
		window := wr.Link.Window()
		window.SetName(name)
		if err := window.SetLayout(layout); err != nil {
			b.logf("bad layout for window %d: %v", windowID, err)
		} else {
			wr.initialized = true
		}
		if active != 0 {
			b.ctx.session.SetCurrentWindow(wr.Link)
		}
	}
}

// feedHistoryBody implements §4.8 for one capture-pane reply.
func (b *Bootstrap) feedHistoryBody(body []byte) {
	idx := b.ctx.historyIdx
	b.ctx.historyIdx++
	paneIdx := idx / 2
	isPrimary := idx%2 == 0
	if paneIdx >= len(b.ctx.paneOrder) {
		b.logf("history reply with no matching pane, dropping")
		return
	}
	paneID := b.ctx.paneOrder[paneIdx]
	pr, ok := b.ctx.panes[paneID]
	if !ok {
		return
	}

	decoded := decodeHistoryBody(body, b.log)
	pr.Local.Feed(decoded)
	if isPrimary {
		pr.Local.SwapGrid()
		return
	}
	pr.Local.SwapGrid()
	pr.Local.SetCursor(pr.InitCursorX, pr.InitCursorY)
}

func decodeHistoryBody(body []byte, log *slog.Logger) []byte {
	lines := splitBodyLines(body)
	decoded := make([][]byte, len(lines))
	for i, line := range lines {
		decoded[i] = DecodeEscapes(append([]byte(nil), line...), log)
	}
	return bytes.Join(decoded, []byte("\r\n"))
}

// parseEnvBody implements the "Env line syntax" of §4.6.
func parseEnvBody(dst map[string]*envEntry, body []byte, hidden bool) {
	for _, line := range splitBodyLines(body) {
		if len(line) == 0 {
			continue
		}
		if line[0] == '-' {
			name := string(line[1:])
			if hidden {
				dst[name] = &envEntry{hidden: true, cleared: true}
			} else {
				delete(dst, name)
			}
			continue
		}
		idx := bytes.IndexByte(line, '=')
		if idx < 0 {
			continue
		}
		name := string(line[:idx])
		e, ok := dst[name]
		if !ok {
			e = &envEntry{}
			dst[name] = e
		}
		e.value = string(line[idx+1:])
		e.hidden = hidden
		e.cleared = false
	}
}

func splitBodyLines(body []byte) [][]byte {
	if len(body) == 0 {
		return nil
	}
	return bytes.Split(body, []byte("\r\n"))
}

func joinCommands(cmds []string) string {
	var buf bytes.Buffer
	for i, c := range cmds {
		if i > 0 {
			buf.WriteByte(';')
		}
		buf.WriteString(c)
	}
	buf.WriteByte('\n')
	return buf.String()
}

func (b *Bootstrap) logf(format string, args ...any) {
	if b.log != nil {
		b.log.Warn("bootstrap: " + fmt.Sprintf(format, args...))
	}
}
