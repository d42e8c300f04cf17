package muxproto

import (
	"testing"
)

func feedLines(a *Assembler, f *LineFramer, raw string) {
	for _, line := range f.Feed([]byte(raw)) {
		a.Feed(line)
	}
}

// TestAssemblerFramedReply is scenario 1 of §8.
func TestAssemblerFramedReply(t *testing.T) {
	var q RequestQueue
	var got []byte
	called := false
	q.Push(&Request{Label: "req", Arity: 1, OnSuccess: func(b []byte) { called = true; got = b }})

	a := NewAssembler(&q, nil)
	var f LineFramer
	feedLines(a, &f, "%begin 100 1 1\nhello\n%end 100 1 1\n")

	if !called {
		t.Fatal("success callback not invoked")
	}
	if string(got) != "hello" {
		t.Fatalf("body = %q, want %q", got, "hello")
	}
	if q.Len() != 0 {
		t.Fatalf("queue len = %d, want 0", q.Len())
	}
}

// TestAssemblerMismatchedToken is scenario 2 of §8.
func TestAssemblerMismatchedToken(t *testing.T) {
	var q RequestQueue
	called := false
	q.Push(&Request{Label: "req", Arity: 1, OnSuccess: func(b []byte) { called = true }})

	a := NewAssembler(&q, nil)
	var f LineFramer
	feedLines(a, &f, "%begin 100 1 1\nx\n%end 100 2 1\n")

	if called {
		t.Fatal("success callback invoked despite token mismatch")
	}
	if a.InReply() {
		t.Fatal("assembler did not reset to idle after mismatched token")
	}
	if q.Len() != 1 {
		t.Fatalf("queue len = %d, want 1 (request still pending)", q.Len())
	}
}

func TestAssemblerErrorReply(t *testing.T) {
	var q RequestQueue
	var errBody []byte
	q.Push(&Request{Label: "req", Arity: 1, OnError: func(b []byte) { errBody = b }})

	a := NewAssembler(&q, nil)
	var f LineFramer
	feedLines(a, &f, "%begin 5 1 1\nboom\n%error 5 1 1\n")

	if string(errBody) != "boom" {
		t.Fatalf("errBody = %q", errBody)
	}
}

func TestAssemblerMultilineBodyJoinedWithCRLF(t *testing.T) {
	var q RequestQueue
	var got []byte
	q.Push(&Request{Label: "req", Arity: 1, OnSuccess: func(b []byte) { got = b }})

	a := NewAssembler(&q, nil)
	var f LineFramer
	feedLines(a, &f, "%begin 1 1 1\nfirst\nsecond\n%end 1 1 1\n")

	if string(got) != "first\r\nsecond" {
		t.Fatalf("body = %q", got)
	}
}

func TestAssemblerDispatchesPercentLinesOutsideReply(t *testing.T) {
	var q RequestQueue
	a := NewAssembler(&q, nil)
	var dispatched []byte
	a.Dispatch = func(line []byte) { dispatched = line }

	var f LineFramer
	feedLines(a, &f, "%output %7 hi\n")

	if string(dispatched) != "%output %7 hi" {
		t.Fatalf("dispatched = %q", dispatched)
	}
}

func TestAssemblerServerOriginatedReplyNotDelivered(t *testing.T) {
	var q RequestQueue
	called := false
	q.Push(&Request{Label: "req", Arity: 1, OnSuccess: func(b []byte) { called = true }})

	a := NewAssembler(&q, nil)
	var f LineFramer
	// flags=0 => ClientOriginated() is false.
	feedLines(a, &f, "%begin 1 1 0\nbody\n%end 1 1 0\n")

	if called {
		t.Fatal("success callback invoked for non-client-originated reply")
	}
	if q.Len() != 1 {
		t.Fatalf("queue len = %d, want 1 (untouched)", q.Len())
	}
}

func TestAssemblerMalformedBeginResetsToIdle(t *testing.T) {
	var q RequestQueue
	a := NewAssembler(&q, nil)
	var dispatched [][]byte
	a.Dispatch = func(line []byte) { dispatched = append(dispatched, line) }

	var f LineFramer
	feedLines(a, &f, "%beginbogus\n%output %1 x\n")

	if a.InReply() {
		t.Fatal("assembler stuck in reply after malformed %begin")
	}
	if len(dispatched) != 1 {
		t.Fatalf("expected the following %%output to dispatch normally, got %v", dispatched)
	}
}
