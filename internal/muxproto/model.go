package muxproto

import "sort"

// WindowRecord mirrors one remote window (§3 "Window record").
type WindowRecord struct {
	RemoteID    uint32
	Link        Winlink
	ActivePane  uint32 // remote pane id, 0 if none
	initialized bool   // layout has been set at least once
}

// PaneRecord mirrors one remote pane (§3 "Pane record"). Local is nil once
// the pane has been tombstoned (§3 Lifecycles, §9 Back-references) — the
// record itself stays in the map so cascading close handling can iterate
// safely.
type PaneRecord struct {
	RemotePaneID   uint32
	RemoteWindowID uint32
	Local          Pane
	InitCursorX    int
	InitCursorY    int
	AltScreenSeen  bool
}

// Tombstoned reports whether this pane record has been cleared.
func (p *PaneRecord) Tombstoned() bool {
	return p.Local == nil
}

// Model holds the local session's window/pane maps, keyed by remote
// numeric id (§3 "window index map", "pane index map").
type Model struct {
	Session Session

	windows map[uint32]*WindowRecord
	panes   map[uint32]*PaneRecord
}

// NewModel creates an empty model bound to sess. sess may be nil until a
// bootstrap commits (§3 "local session handle (nullable until bootstrap
// commits)").
func NewModel(sess Session) *Model {
	return &Model{
		Session: sess,
		windows: make(map[uint32]*WindowRecord),
		panes:   make(map[uint32]*PaneRecord),
	}
}

// Window looks up a window record by remote id.
func (m *Model) Window(id uint32) (*WindowRecord, bool) {
	w, ok := m.windows[id]
	return w, ok
}

// Pane looks up a pane record by remote id.
func (m *Model) Pane(id uint32) (*PaneRecord, bool) {
	p, ok := m.panes[id]
	return p, ok
}

// PutWindow inserts or replaces a window record.
func (m *Model) PutWindow(w *WindowRecord) {
	m.windows[w.RemoteID] = w
}

// PutPane inserts or replaces a pane record.
func (m *Model) PutPane(p *PaneRecord) {
	m.panes[p.RemotePaneID] = p
}

// RemoveWindow deletes the window map entry outright. %window-close
// tombstones panes but removes the window record itself (§8 invariant 6:
// "the window map contains no live entry for W").
func (m *Model) RemoveWindow(id uint32) {
	delete(m.windows, id)
}

// PanesInWindow returns every pane record (tombstoned or not) whose
// RemoteWindowID equals id, in ascending pane-id order.
func (m *Model) PanesInWindow(id uint32) []*PaneRecord {
	var out []*PaneRecord
	for _, paneID := range m.sortedPaneIDs() {
		p := m.panes[paneID]
		if p.RemoteWindowID == id {
			out = append(out, p)
		}
	}
	return out
}

// WindowIDs returns every window id currently in the map, ascending.
func (m *Model) WindowIDs() []uint32 {
	ids := make([]uint32, 0, len(m.windows))
	for id := range m.windows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// PaneIDs returns every pane id currently in the map, ascending.
func (m *Model) PaneIDs() []uint32 {
	return m.sortedPaneIDs()
}

func (m *Model) sortedPaneIDs() []uint32 {
	ids := make([]uint32, 0, len(m.panes))
	for id := range m.panes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
