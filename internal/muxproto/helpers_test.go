package muxproto_test

import (
	"io"
	"net"
	"testing"
)

// pipe returns a connected net.Pipe pair for tests that need a live
// io.ReadWriteCloser (the Input Bridge reads off one end; the test writes
// to the other).
func pipe(t *testing.T) (io.ReadWriteCloser, io.WriteCloser) {
	t.Helper()
	a, b := net.Pipe()
	return a, b
}
