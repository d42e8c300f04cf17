package muxproto

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Transport is the byte-stream abstraction the core runs over (§6
// "Transport"). Implementations live in package transport.
type Transport interface {
	Write(data []byte) error
	Flush() error
	Close() error
}

// Remote is the top-level handle wiring the Line Framer, Reply Assembler,
// Event Dispatcher, Request Queue, Bootstrap State Machine, Input Bridge,
// Output Router and Outbound Notifier together over one Transport (§3, §4).
// There are no locks: Remote is driven exclusively by its owner's I/O loop
// (§5 "single-threaded cooperative").
type Remote struct {
	ID string

	log       *slog.Logger
	logSink   LogSink
	transport Transport
	factory   Factory

	framer     LineFramer
	queue      RequestQueue
	model      *Model
	assembler  *Assembler
	dispatcher *Dispatcher
	bootstrap  *Bootstrap
	router     *OutputRouter
	bridge     *InputBridge
	notifier   *Notifier

	attachedSessionID uint32
	haveSession       bool
}

// NewRemote wires a Remote over transport with factory producing local
// multiplexer objects. historyLimitCeiling caps bootstrap-reported
// scrollback depth (SPEC_FULL.md §10.3).
func NewRemote(transport Transport, factory Factory, historyLimitCeiling int, log *slog.Logger, logSink LogSink) *Remote {
	r := &Remote{
		ID:        uuid.NewString(),
		log:       log,
		logSink:   logSink,
		transport: transport,
		factory:   factory,
		model:     NewModel(nil),
	}
	r.assembler = NewAssembler(&r.queue, log)
	r.dispatcher = NewDispatcher(r.model, log)
	r.bootstrap = NewBootstrap(factory, &r.queue, r.writeCmd, historyLimitCeiling, log)
	r.router = NewOutputRouter(r.model, log)
	r.bridge = NewInputBridge(&r.queue, r.writeCmd, log)
	r.notifier = NewNotifier(r.model, &r.queue, r.writeCmd)

	r.assembler.Dispatch = r.dispatcher.Dispatch
	r.dispatcher.OnOutput = r.handleOutput
	r.dispatcher.OnSessionChanged = r.handleSessionChanged
	r.dispatcher.OnWindowPaneChanged = r.handleWindowPaneChanged
	r.dispatcher.OnWindowClose = r.handleWindowClose
	r.dispatcher.OnSessionWindowChanged = r.handleSessionWindowChanged
	r.dispatcher.OnExit = r.handleExit
	r.bootstrap.OnCommit = r.handleBootstrapCommit
	r.bootstrap.OnPaneReady = r.handlePaneReady

	return r
}

// Feed hands raw bytes read off the transport to the Line Framer, which
// drives the rest of the pipeline line by line (§6 "readable-event
// callback").
func (r *Remote) Feed(data []byte) {
	for _, line := range r.framer.Feed(data) {
		r.assembler.Feed(line)
	}
}

// Model exposes the current pane/window map, e.g. for the Outbound
// Notifier's caller.
func (r *Remote) Model() *Model {
	return r.model
}

// Notifier exposes the Outbound Notifier for the surrounding multiplexer to
// call on local UI actions (§4.10).
func (r *Remote) Notifier() *Notifier {
	return r.notifier
}

func (r *Remote) writeCmd(cmd string) {
	if err := r.transport.Write([]byte(cmd)); err != nil {
		r.logf("transport write failed: %v", err)
		return
	}
	if err := r.transport.Flush(); err != nil {
		r.logf("transport flush failed: %v", err)
	}
}

func (r *Remote) handleOutput(paneID uint32, data []byte) {
	decoded := DecodeEscapes(append([]byte(nil), data...), r.log)
	r.router.Route(paneID, decoded)
}

func (r *Remote) handleSessionChanged(sessionID uint32, name string) {
	// §9 open question: in-flight (non-bootstrap) requests are left pending
	// rather than reset — decision recorded in DESIGN.md.
	if r.model.Session != nil {
		r.model.Session.Destroy(false)
	}
	r.attachedSessionID = sessionID
	r.bootstrap.Begin(sessionID, name)
}

func (r *Remote) handleBootstrapCommit(session Session, windows map[uint32]*WindowRecord, panes map[uint32]*PaneRecord) {
	r.model = NewModel(session)
	for _, wr := range windows {
		r.model.PutWindow(wr)
	}
	for _, pr := range panes {
		r.model.PutPane(pr)
	}
	r.dispatcher.Model = r.model
	r.router = NewOutputRouter(r.model, r.log)
	r.notifier = NewNotifier(r.model, &r.queue, r.writeCmd)
	r.haveSession = true
}

func (r *Remote) handlePaneReady(pr *PaneRecord) {
	r.bridge.RegisterPane(pr.RemotePaneID, pr.Local.InputSink())
}

func (r *Remote) handleWindowPaneChanged(windowID, paneID uint32) {
	wr, ok1 := r.model.Window(windowID)
	pr, ok2 := r.model.Pane(paneID)
	if !ok1 || !ok2 || pr.RemoteWindowID != windowID {
		r.logf("window-pane-changed references unknown window=%d pane=%d", windowID, paneID)
		return
	}
	wr.ActivePane = paneID
	wr.Link.Window().SetActivePane(pr.Local)
}

func (r *Remote) handleWindowClose(windowID uint32) {
	for _, pr := range r.model.PanesInWindow(windowID) {
		if pr.Tombstoned() {
			continue
		}
		pr.Local.Kill()
		_ = pr.Local.InputSink().Close()
		pr.Local = nil
	}
	r.model.RemoveWindow(windowID)
}

func (r *Remote) handleSessionWindowChanged(sessionID, windowID uint32) {
	if !r.haveSession || sessionID != r.attachedSessionID {
		return
	}
	wr, ok := r.model.Window(windowID)
	if !ok {
		r.logf("session-window-changed references unknown window=%d", windowID)
		return
	}
	r.model.Session.SetCurrentWindow(wr.Link)
}

func (r *Remote) handleExit() {
	if r.haveSession && r.model.Session != nil {
		r.model.Session.Destroy(false)
	}
	r.model = NewModel(nil)
	r.dispatcher.Model = r.model
	r.router = NewOutputRouter(r.model, r.log)
	r.notifier = NewNotifier(r.model, &r.queue, r.writeCmd)
	r.haveSession = false
}

func (r *Remote) logf(format string, args ...any) {
	if r.log != nil {
		r.log.Warn("remote: " + fmt.Sprintf(format, args...))
	}
	if r.logSink != nil {
		r.logSink.Logf(format, args...)
	}
}
