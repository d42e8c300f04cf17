// Package transport implements the muxproto.Transport byte-stream
// abstraction (§6 "Transport") over a locally spawned control-mode process
// and over a websocket-wrapped control port.
package transport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
)

// ProcessTransport spawns the multiplexer binary in control mode under a
// pty, the way a locally-attached client would, so terminal-size
// propagation (TIOCSWINSZ) behaves identically to an interactive session.
type ProcessTransport struct {
	log *slog.Logger

	cmd  *exec.Cmd
	ptmx *os.File

	mu      sync.Mutex
	closed  bool
	scanner *bufio.Scanner

	// OnLine is called once per line read from the process's stdout, after
	// the pty's own CR/LF normalization. The Remote's Feed method consumes
	// raw bytes rather than lines, so OnLine appends a trailing '\n' before
	// forwarding.
	OnLine func(line []byte)
	// OnClosed is called once the read loop exits, with the error (if any)
	// that ended it.
	OnClosed func(err error)
}

// StartProcess spawns command (argv[0] plus args) attached to a pty sized
// cols x rows, and begins streaming its output to OnLine on a background
// goroutine. Grounded on internal/egg/server.go's pty.StartWithSize usage.
func StartProcess(ctx context.Context, command []string, cols, rows int, log *slog.Logger) (*ProcessTransport, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("transport: empty command")
	}
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	size := &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)}
	ptmx, err := pty.StartWithSize(cmd, size)
	if err != nil {
		return nil, fmt.Errorf("transport: start control-mode process: %w", err)
	}

	t := &ProcessTransport{
		log:  log,
		cmd:  cmd,
		ptmx: ptmx,
	}
	t.scanner = bufio.NewScanner(ptmx)
	t.scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	go t.readLoop()
	return t, nil
}

func (t *ProcessTransport) readLoop() {
	for t.scanner.Scan() {
		if t.OnLine != nil {
			t.OnLine(t.scanner.Bytes())
		}
	}
	err := t.scanner.Err()
	if t.OnClosed != nil {
		t.OnClosed(err)
	}
}

// Write appends cmd bytes to the pty's input side (§6 "write function
// appending to an output byte buffer").
func (t *ProcessTransport) Write(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return io.ErrClosedPipe
	}
	_, err := t.ptmx.Write(data)
	if err != nil {
		return fmt.Errorf("transport: write: %w", err)
	}
	return nil
}

// Flush is a no-op: writes to the pty are unbuffered on our side.
func (t *ProcessTransport) Flush() error { return nil }

// Resize propagates a local terminal resize to the spawned process (§6
// implicit in "the surrounding multiplexer" owning terminal geometry).
func (t *ProcessTransport) Resize(cols, rows int) error {
	return pty.Setsize(t.ptmx, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)})
}

// Close closes the pty and kills the child process.
func (t *ProcessTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	err := t.ptmx.Close()
	_ = t.cmd.Process.Kill()
	return err
}
