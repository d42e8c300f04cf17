package muxproto

import "bytes"

// LineFramer drains complete lines from an inbound byte stream, holding any
// partial trailing line across calls to Feed (§4.1). A line is terminated
// by "\n", "\r\n" or "\n\r" — either order of the CR/LF pair is accepted and
// consumed whole. Extracted lines never include the terminator.
//
// The framer only ever waits on '\n': it never blocks hoping a '\r' shows up
// next, since the overwhelmingly common case is a bare '\n' terminator and
// stalling on that would hang the framer on an ordinary line. A '\r'
// immediately before the '\n' is stripped from the line; a '\r' immediately
// after is dropped as terminator residue before the next line's scan
// begins.
type LineFramer struct {
	buf []byte
	// dropCR is set when the last line's '\n' was the final buffered byte, so
	// a '\r' that opens the next Feed is that terminator's residue.
	dropCR bool
}

// Feed appends newly read bytes and returns every complete line found,
// oldest first. Incomplete trailing bytes remain buffered for the next
// call.
func (f *LineFramer) Feed(data []byte) [][]byte {
	if f.dropCR && len(data) > 0 {
		if data[0] == '\r' {
			data = data[1:]
		}
		f.dropCR = false
	}
	f.buf = append(f.buf, data...)

	var lines [][]byte
	for {
		idx := bytes.IndexByte(f.buf, '\n')
		if idx < 0 {
			break
		}
		line := f.buf[:idx]
		if len(line) > 0 && line[len(line)-1] == '\r' {
			line = line[:len(line)-1]
		}
		rest := f.buf[idx+1:]
		f.dropCR = len(rest) == 0
		if len(rest) > 0 && rest[0] == '\r' {
			rest = rest[1:]
		}
		lines = append(lines, line)
		f.buf = rest
	}
	return lines
}

// Pending returns the bytes buffered since the last fully-terminated line,
// for diagnostics only.
func (f *LineFramer) Pending() []byte {
	return f.buf
}
