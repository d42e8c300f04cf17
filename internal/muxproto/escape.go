package muxproto

import "log/slog"

// DecodeEscapes decodes the "\NNN" three-digit-octal escaping used in
// %output payloads (§4.2), in place. Decoded length is always ≤ len(src),
// so writing into src itself is safe — the destination index never passes
// the source index.
//
//   - "\" + three octal digits d1 d2 d3 → byte (d1*64 + d2*8 + d3) mod 256.
//   - "\\" → literal '\'.
//   - any byte < 0x20 not part of the above → malformed, logged, copied as-is.
//   - everything else → copied verbatim.
//
// A backslash followed by neither '\' nor three octal digits, including an
// escape truncated by the end of the payload, decodes to a single '?' that
// replaces the backslash and the (up to three) bytes after it, per §8
// boundary behaviors.
func DecodeEscapes(src []byte, log *slog.Logger) []byte {
	dst := src[:0]
	i := 0
	for i < len(src) {
		b := src[i]
		if b != '\\' {
			if b < 0x20 && log != nil {
				log.Warn("malformed control byte in output payload", "byte", b)
			}
			dst = append(dst, b)
			i++
			continue
		}

		// b == '\\'
		if i+1 >= len(src) {
			// Lone trailing backslash: truncated escape, emit '?'.
			dst = append(dst, '?')
			i++
			continue
		}
		if src[i+1] == '\\' {
			dst = append(dst, '\\')
			i += 2
			continue
		}
		// Expect three octal digits.
		end := i + 4
		if end > len(src) {
			end = len(src)
		}
		digits := src[i+1 : end]
		if n, ok := parseOctal3(digits); ok {
			dst = append(dst, byte(n%256))
			i += 1 + len(digits)
			continue
		}
		// Truncated or malformed octal escape: collapse the backslash and
		// whatever partial digits follow into a single '?'.
		dst = append(dst, '?')
		i = end
	}
	return dst
}

// parseOctal3 parses up to three octal digits. ok is false unless exactly
// three digits were supplied and all are valid octal.
func parseOctal3(digits []byte) (n int, ok bool) {
	if len(digits) < 3 {
		return 0, false
	}
	for _, d := range digits[:3] {
		if d < '0' || d > '7' {
			return 0, false
		}
		n = n*8 + int(d-'0')
	}
	return n, true
}

// EncodeEscapes is the inverse of DecodeEscapes: every '\' becomes "\\" and
// every byte <0x20 or >0x7E becomes a "\NNN" octal escape. Used only by
// tests to check decode(encode(p)) == p (§8 invariant 4).
func EncodeEscapes(src []byte) []byte {
	var dst []byte
	for _, b := range src {
		switch {
		case b == '\\':
			dst = append(dst, '\\', '\\')
		case b < 0x20 || b > 0x7E:
			dst = append(dst, '\\', '0'+(b>>6)&7, '0'+(b>>3)&7, '0'+b&7)
		default:
			dst = append(dst, b)
		}
	}
	return dst
}
