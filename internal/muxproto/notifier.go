package muxproto

import "fmt"

// Notifier implements the Outbound Notifier (§4.10): local UI actions that
// must be mirrored to the remote so its authoritative state stays in sync.
type Notifier struct {
	model    *Model
	queue    *RequestQueue
	writeCmd func(cmd string)
}

// NewNotifier creates a Notifier bound to model, submitting commands
// through writeCmd.
func NewNotifier(model *Model, queue *RequestQueue, writeCmd func(cmd string)) *Notifier {
	return &Notifier{model: model, queue: queue, writeCmd: writeCmd}
}

// ActivePaneChanged finds the pane record whose local pane matches newActive
// and sends select-pane (§4.10). No-op if no record matches (the change may
// have originated from the remote itself).
func (n *Notifier) ActivePaneChanged(newActive Pane) {
	for _, id := range n.model.PaneIDs() {
		pr, _ := n.model.Pane(id)
		if pr.Tombstoned() || pr.Local != newActive {
			continue
		}
		n.submit(fmt.Sprintf("select-pane -t %%%d", pr.RemotePaneID))
		return
	}
}

// CurrentWindowChanged finds the window record whose local window matches
// newCurrent and sends select-window (§4.10).
func (n *Notifier) CurrentWindowChanged(newCurrent Window) {
	for _, id := range n.model.WindowIDs() {
		wr, _ := n.model.Window(id)
		if wr.Link.Window() != newCurrent {
			continue
		}
		n.submit(fmt.Sprintf("select-window -t @%d", wr.RemoteID))
		return
	}
}

func (n *Notifier) submit(cmd string) {
	n.queue.Push(&Request{Label: "notify"})
	n.writeCmd(cmd + "\n")
}
