// Package sessioncode issues the per-candidate secret tokens that gate
// interview access. The code is the only secret protecting a candidate's
// interview content, so it is drawn from crypto/rand rather than anything
// derivable from the candidate or issuance order.
package sessioncode

import (
	"crypto/rand"
	"strings"
)

// alphabet omits 0/O, 1/I/L and other easily-confused glyphs so codes can be
// read aloud and typed back reliably.
const alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// Length gives 31^10 possible codes, roughly 49 bits of entropy.
const Length = 10

// Generate returns a new session code. It performs no uniqueness bookkeeping;
// callers assembling a roster must re-roll on collision with codes already
// issued in that roster.
func Generate() string {
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process has no usable entropy
		// source; there is nothing sensible to fall back to.
		panic("sessioncode: crypto/rand unavailable: " + err.Error())
	}

	var b strings.Builder
	b.Grow(Length)
	for _, v := range buf {
		b.WriteByte(alphabet[int(v)%len(alphabet)])
	}
	return b.String()
}
