package muxproto

// Token is the (time, number, flags) triple framing a reply (§3 "Reply
// token"). flags&1 marks the reply as client-originated — it matches a
// pending request in the Request Queue. Other flag bits are reserved and
// ignored.
type Token struct {
	Time   int64
	Number uint64
	Flags  uint64
}

// ClientOriginated reports whether this token's low flag bit is set.
func (t Token) ClientOriginated() bool {
	return t.Flags&1 != 0
}

// Equal compares the (time, number) pair only — flags are not part of the
// identity tmux uses to match %begin to %end/%error (§4.3).
func (t Token) Equal(other Token) bool {
	return t.Time == other.Time && t.Number == other.Number
}
