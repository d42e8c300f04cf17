package muxproto

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
)

const inputReadChunk = 4096

// InputBridge reads locally-typed keystrokes off each pane's input sink and
// submits them to the remote as hex-encoded send-keys requests (§4.9).
type InputBridge struct {
	log      *slog.Logger
	queue    *RequestQueue
	writeCmd func(cmd string)
}

// NewInputBridge creates an InputBridge bound to queue, submitting commands
// through writeCmd.
func NewInputBridge(queue *RequestQueue, writeCmd func(cmd string), log *slog.Logger) *InputBridge {
	return &InputBridge{queue: queue, writeCmd: writeCmd, log: log}
}

// RegisterPane starts a goroutine reading rw until it returns an error or
// EOF (closed by Remote's %window-close cascade, or by the surrounding
// multiplexer). Each read's bytes are hex-encoded and submitted
// as a new send-keys request with no success callback (§4.9).
func (b *InputBridge) RegisterPane(paneID uint32, rw io.Reader) {
	go func() {
		buf := make([]byte, inputReadChunk)
		for {
			n, err := rw.Read(buf)
			if n > 0 {
				b.submit(paneID, buf[:n])
			}
			if err != nil {
				return
			}
		}
	}()
}

func (b *InputBridge) submit(paneID uint32, data []byte) {
	hex := hexEncodeSpaced(data)
	cmd := fmt.Sprintf("send-keys -t %%%d -lH %s", paneID, hex)
	b.queue.Push(&Request{Label: "send-keys"})
	b.writeCmd(cmd + "\n")
}

// hexEncodeSpaced renders each byte as two uppercase hex digits separated
// by a single space, with a trailing space (§4.9 "bytes A B → \"41 42 \"").
func hexEncodeSpaced(data []byte) string {
	const hexDigits = "0123456789ABCDEF"
	var buf bytes.Buffer
	buf.Grow(len(data) * 3)
	for _, b := range data {
		buf.WriteByte(hexDigits[b>>4])
		buf.WriteByte(hexDigits[b&0x0f])
		buf.WriteByte(' ')
	}
	return buf.String()
}
