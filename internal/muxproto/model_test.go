package muxproto

import (
	"io"
	"testing"
)

func TestModelPutAndLookup(t *testing.T) {
	m := NewModel(nil)
	m.PutWindow(&WindowRecord{RemoteID: 1})
	m.PutPane(&PaneRecord{RemotePaneID: 10, RemoteWindowID: 1})

	if _, ok := m.Window(1); !ok {
		t.Fatal("window 1 not found")
	}
	if _, ok := m.Pane(10); !ok {
		t.Fatal("pane 10 not found")
	}
}

func TestModelPanesInWindowSorted(t *testing.T) {
	m := NewModel(nil)
	m.PutPane(&PaneRecord{RemotePaneID: 12, RemoteWindowID: 1})
	m.PutPane(&PaneRecord{RemotePaneID: 10, RemoteWindowID: 1})
	m.PutPane(&PaneRecord{RemotePaneID: 11, RemoteWindowID: 2})

	panes := m.PanesInWindow(1)
	if len(panes) != 2 || panes[0].RemotePaneID != 10 || panes[1].RemotePaneID != 12 {
		t.Fatalf("got %+v", panes)
	}
}

// TestModelWindowCloseCascade is invariant 6 / scenario 5 of §8.
func TestModelWindowCloseCascade(t *testing.T) {
	m := NewModel(nil)
	p10 := &PaneRecord{RemotePaneID: 10, RemoteWindowID: 5, Local: fakeKillablePane{}}
	p11 := &PaneRecord{RemotePaneID: 11, RemoteWindowID: 5, Local: fakeKillablePane{}}
	m.PutWindow(&WindowRecord{RemoteID: 5})
	m.PutPane(p10)
	m.PutPane(p11)

	for _, pr := range m.PanesInWindow(5) {
		pr.Local = nil
	}
	m.RemoveWindow(5)

	if _, ok := m.Window(5); ok {
		t.Fatal("window 5 still present after close")
	}
	p10After, _ := m.Pane(10)
	p11After, _ := m.Pane(11)
	if !p10After.Tombstoned() || !p11After.Tombstoned() {
		t.Fatal("panes not tombstoned after window close")
	}
}

type fakeKillablePane struct{}

func (fakeKillablePane) InputSink() io.ReadWriteCloser { return nil }
func (fakeKillablePane) Feed(data []byte)              {}
func (fakeKillablePane) SwapGrid()                     {}
func (fakeKillablePane) SetCursor(x, y int)            {}
func (fakeKillablePane) SetActive()                    {}
func (fakeKillablePane) Kill()                         {}
