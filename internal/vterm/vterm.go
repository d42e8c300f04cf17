// Package vterm implements the Terminal-input-parser and Grid collaborators
// of §6: a pane's screen is two independent charmbracelet/x/vt emulators
// (primary and alternate), with a "current" pointer that the bootstrap state
// machine's history replay (§4.8) feeds through. Live %output bytes are not
// fed here: the Output Router writes them to the pane's input-sink pipe.
package vterm

import (
	"strings"
	"sync"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/vt"
)

const defaultScrollbackLines = 50000

// Pane is one local pane's screen pair. It implements the parser and grid
// collaborators the protocol engine needs: Feed for §4.4/§4.8, SwapGrid for
// the §4.8 primary/alternate dance, and SetCursor for the post-replay
// cursor restore.
type Pane struct {
	mu sync.Mutex

	cols, rows int
	historyCap int

	primary   *vt.Emulator
	alternate *vt.Emulator
	current   *vt.Emulator

	scrollback []string
	sbHead     int
	sbLen      int

	cursorHidden bool
}

// NewPane creates a pane's screen pair at the given size. historyLimit caps
// the primary screen's scrollback ring (a value <= 0 selects
// defaultScrollbackLines).
func NewPane(cols, rows, historyLimit int) *Pane {
	if historyLimit <= 0 {
		historyLimit = defaultScrollbackLines
	}
	p := &Pane{
		cols:       cols,
		rows:       rows,
		historyCap: historyLimit,
		primary:    vt.NewEmulator(cols, rows),
		alternate:  vt.NewEmulator(cols, rows),
		scrollback: make([]string, historyLimit),
	}
	p.current = p.primary
	p.primary.SetCallbacks(vt.Callbacks{
		ScrollOut: func(lines []uv.Line) {
			p.recordScrollback(lines)
		},
		ScrollbackClear: func() {
			p.clearScrollback()
		},
		CursorVisibility: func(visible bool) {
			p.cursorHidden = !visible
		},
	})
	return p
}

func (p *Pane) recordScrollback(lines []uv.Line) {
	for _, line := range lines {
		rendered := line.Render()
		if p.sbLen == len(p.scrollback) {
			p.scrollback[p.sbHead] = ""
		}
		p.scrollback[p.sbHead] = rendered
		p.sbHead = (p.sbHead + 1) % len(p.scrollback)
		if p.sbLen < len(p.scrollback) {
			p.sbLen++
		}
	}
}

func (p *Pane) clearScrollback() {
	for i := range p.scrollback {
		p.scrollback[i] = ""
	}
	p.sbHead, p.sbLen = 0, 0
}

// Feed writes decoded bytes to whichever grid is current. This is the
// Terminal input parser collaborator of §6, driven by the Bootstrap State
// Machine (§4.8) for history replay.
func (p *Pane) Feed(data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current.Write(data)
}

// SwapGrid exchanges which emulator is current, mirroring the saved/primary
// grid pointer swap of §4.8. Called twice per pane during history replay:
// once before the alternate body, once after.
func (p *Pane) SwapGrid() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == p.primary {
		p.current = p.alternate
	} else {
		p.current = p.primary
	}
}

// SetCursor places the cursor on the current grid, used after alt-screen
// replay to restore the (init_cursor_x, init_cursor_y) recorded at bootstrap
// pane-listing time. Positioning goes through the emulator's own CSI parser
// (no direct cursor-setter exists on vt.Emulator) so it observes the same
// coordinate and clamping rules as any other cursor motion.
func (p *Pane) SetCursor(x, y int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current.Write([]byte(cursorMoveSeq(x, y)))
}

// Resize changes both grids' dimensions.
func (p *Pane) Resize(cols, rows int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.primary.Resize(cols, rows)
	p.alternate.Resize(cols, rows)
	p.cols, p.rows = cols, rows
}

// Render returns the current grid's visible contents plus cursor restore,
// suitable for an initial paint of a freshly attached local pane.
func (p *Pane) Render() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	var buf strings.Builder
	buf.WriteString("\x1b[m\x1b[H")
	buf.WriteString(p.current.Render())
	pos := p.current.CursorPosition()
	buf.WriteString(cursorMoveSeq(pos.X, pos.Y))
	if p.cursorHidden {
		buf.WriteString("\x1b[?25l")
	} else {
		buf.WriteString("\x1b[?25h")
	}
	return []byte(buf.String())
}

// ScrollbackLen returns the number of scrollback lines captured on the
// primary grid.
func (p *Pane) ScrollbackLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sbLen
}

// Close releases both emulators.
func (p *Pane) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err1 := p.primary.Close()
	err2 := p.alternate.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

func cursorMoveSeq(x, y int) string {
	var b strings.Builder
	b.WriteString("\x1b[")
	b.WriteString(itoa(y + 1))
	b.WriteByte(';')
	b.WriteString(itoa(x + 1))
	b.WriteByte('H')
	return b.String()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits [20]byte
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		digits[i] = '-'
	}
	return string(digits[i:])
}
