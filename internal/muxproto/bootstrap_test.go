package muxproto

import "testing"

func TestParseEnvBodySetAndClear(t *testing.T) {
	env := make(map[string]*envEntry)
	parseEnvBody(env, []byte("FOO=bar\r\nBAZ=qux"), false)
	if env["FOO"].value != "bar" || env["BAZ"].value != "qux" {
		t.Fatalf("got %+v", env)
	}

	parseEnvBody(env, []byte("-FOO"), false)
	if _, ok := env["FOO"]; ok {
		t.Fatal("non-hidden clear should delete the entry")
	}
}

func TestParseEnvBodyHiddenClearKeepsTombstone(t *testing.T) {
	env := make(map[string]*envEntry)
	parseEnvBody(env, []byte("SECRET=shh"), true)
	parseEnvBody(env, []byte("-SECRET"), true)

	e, ok := env["SECRET"]
	if !ok {
		t.Fatal("hidden clear deleted the entry instead of tombstoning it")
	}
	if !e.hidden || !e.cleared || e.value != "" {
		t.Fatalf("got %+v, want hidden+cleared+empty", e)
	}
}

func TestParseSigilID(t *testing.T) {
	cases := []struct {
		field string
		sigil byte
		want  uint32
		ok    bool
	}{
		{"@5", '@', 5, true},
		{"%10", '%', 10, true},
		{"5", '@', 0, false},
		{"@", '@', 0, false},
		{"@abc", '@', 0, false},
	}
	for _, c := range cases {
		got, ok := parseSigilID([]byte(c.field), c.sigil)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("parseSigilID(%q, %q) = (%d, %v), want (%d, %v)", c.field, c.sigil, got, ok, c.want, c.ok)
		}
	}
}

func TestBootstrapMalformedPaneRowSkipped(t *testing.T) {
	factory := &stubFactory{historyLimit: 100}
	var written []string
	b := NewBootstrap(factory, &RequestQueue{}, func(cmd string) { written = append(written, cmd) }, 0, nil)
	b.Begin(1, "main")

	// Advance to state 2 (post show-environment x2) without exercising the
	// full Remote: call onSuccess directly as the assembler would.
	b.onSuccess(nil) // state 0 -> 1
	b.onSuccess(nil) // state 1 -> 2, creates session

	// One well-formed row and one malformed (missing fields) row.
	b.onSuccess([]byte("@1\t0\t80\t24\t%10\t0\t1\t0\t0\t100\r\nmalformed-row"))

	if len(b.ctx.paneOrder) != 1 {
		t.Fatalf("paneOrder = %v, want exactly the well-formed pane", b.ctx.paneOrder)
	}
}

type stubFactory struct {
	historyLimit int
}

func (f *stubFactory) NewSession(name, cwd string, environ map[string]string, term string) Session {
	return &stubSession{}
}
func (f *stubFactory) NewWindow(sx, sy int) Window { return &stubWindow{} }
func (f *stubFactory) AddWinlink(sess Session, index int, w Window) Winlink {
	return &stubWinlink{win: w, idx: index}
}
func (f *stubFactory) DefaultHistoryLimit() int { return f.historyLimit }

type stubSession struct{ current Winlink }

func (s *stubSession) ID() string                    { return "stub" }
func (s *stubSession) SetCurrentWindow(w Winlink)     { s.current = w }
func (s *stubSession) CurrentWindow() Winlink         { return s.current }
func (s *stubSession) Destroy(notify bool)            {}
func (s *stubSession) Redraw()                        {}

type stubWindow struct {
	active Pane
}

func (w *stubWindow) SetName(name string)      {}
func (w *stubWindow) SetLayout(l string) error { return nil }
func (w *stubWindow) InitLayout()              {}
func (w *stubWindow) Redraw()                  {}
func (w *stubWindow) AddPane(historyLimit int) Pane {
	return fakeKillablePane{}
}
func (w *stubWindow) SetActivePane(p Pane) { w.active = p }
func (w *stubWindow) ActivePane() Pane     { return w.active }
func (w *stubWindow) Close()               {}

type stubWinlink struct {
	win Window
	idx int
}

func (l *stubWinlink) Window() Window { return l.win }
func (l *stubWinlink) Index() int     { return l.idx }
