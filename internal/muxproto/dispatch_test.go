package muxproto

import "testing"

// TestDispatchOutput is scenario 3 of §8: escape-decoding happens in the
// Remote's OnOutput handler, not the Dispatcher itself, so here we only
// check the raw (still-encoded) bytes and pane id reach the callback.
func TestDispatchOutput(t *testing.T) {
	d := NewDispatcher(NewModel(nil), nil)
	var gotPane uint32
	var gotData []byte
	d.OnOutput = func(paneID uint32, data []byte) { gotPane = paneID; gotData = data }

	d.Dispatch([]byte(`%output %7 a\101b\\c`))

	if gotPane != 7 {
		t.Fatalf("pane = %d, want 7", gotPane)
	}
	if string(gotData) != `a\101b\\c` {
		t.Fatalf("data = %q", gotData)
	}
}

func TestDispatchExtendedOutputDiscardsAge(t *testing.T) {
	d := NewDispatcher(NewModel(nil), nil)
	var gotData []byte
	d.OnOutput = func(paneID uint32, data []byte) { gotData = data }

	d.Dispatch([]byte(`%extended-output %3 42 : hello`))

	if string(gotData) != "hello" {
		t.Fatalf("data = %q", gotData)
	}
}

func TestDispatchExtendedOutputMalformedAgeIsDropped(t *testing.T) {
	d := NewDispatcher(NewModel(nil), nil)
	called := false
	d.OnOutput = func(paneID uint32, data []byte) { called = true }

	d.Dispatch([]byte(`%extended-output %3 notanumber : hello`))

	if called {
		t.Fatal("OnOutput invoked despite malformed age field")
	}
}

func TestDispatchSessionChanged(t *testing.T) {
	d := NewDispatcher(NewModel(nil), nil)
	var gotID uint32
	var gotName string
	d.OnSessionChanged = func(id uint32, name string) { gotID = id; gotName = name }

	d.Dispatch([]byte(`%session-changed $3 main`))

	if gotID != 3 || gotName != "main" {
		t.Fatalf("got (%d,%q)", gotID, gotName)
	}
}

func TestDispatchWindowClose(t *testing.T) {
	d := NewDispatcher(NewModel(nil), nil)
	var gotID uint32
	d.OnWindowClose = func(id uint32) { gotID = id }

	d.Dispatch([]byte(`%window-close @5`))

	if gotID != 5 {
		t.Fatalf("got %d, want 5", gotID)
	}
}

func TestDispatchUnrecognizedEventIgnored(t *testing.T) {
	d := NewDispatcher(NewModel(nil), nil)
	// Should not panic and should simply be logged/ignored.
	d.Dispatch([]byte(`%something-new arg1 arg2`))
}

func TestDispatchNoOpEventsDoNotPanic(t *testing.T) {
	d := NewDispatcher(NewModel(nil), nil)
	for _, line := range []string{
		"%pane-mode-changed %1",
		"%window-renamed @1 foo",
		"%session-renamed $1 bar",
		"%client-session-changed /dev/pts/3 $1 bar",
		"%sessions-changed",
	} {
		d.Dispatch([]byte(line))
	}
}
