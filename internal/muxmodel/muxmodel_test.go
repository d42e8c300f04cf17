package muxmodel

import (
	"testing"
	"time"
)

func TestPaneInputSinkRoundtrip(t *testing.T) {
	p := NewPane(80, 24, 100)
	defer p.Kill()

	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 5)
		n, err := p.RenderEnd().Read(buf)
		if err != nil {
			t.Errorf("read: %v", err)
			return
		}
		if string(buf[:n]) != "hello" {
			t.Errorf("got %q", buf[:n])
		}
	}()

	sink := p.InputSink()
	if _, err := sink.Write([]byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}
}

func TestFactoryBuildsWiredSession(t *testing.T) {
	f := NewFactory(5000)
	sess := f.NewSession("main", "/tmp", map[string]string{"FOO": "bar"}, "xterm-256color")
	window := f.NewWindow(80, 24)
	link := f.AddWinlink(sess, 0, window)
	sess.SetCurrentWindow(link)

	if sess.CurrentWindow() != link {
		t.Fatal("current window not set")
	}
	if link.Index() != 0 {
		t.Fatalf("index = %d, want 0", link.Index())
	}
	if link.Window() != window {
		t.Fatal("winlink does not point back to its window")
	}
	if f.DefaultHistoryLimit() != 5000 {
		t.Fatalf("default history limit = %d, want 5000", f.DefaultHistoryLimit())
	}
}

func TestWindowAddPaneTracksActive(t *testing.T) {
	w := NewWindow(80, 24)
	p1 := w.AddPane(1000)
	w.SetActivePane(p1)
	if w.ActivePane() != p1 {
		t.Fatal("active pane not tracked")
	}
}

func TestWindowCloseKillsPanes(t *testing.T) {
	w := NewWindow(80, 24)
	p := w.AddPane(1000).(*Pane)
	w.Close()
	if !p.killed {
		t.Fatal("pane not killed on window close")
	}
}
