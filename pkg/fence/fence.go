// Package fence provides monotonic request tokens for discarding stale
// asynchronous responses. A store takes a Token before firing a request and
// asks the Gate to admit it when the response arrives; responses carrying
// anything but the most recently issued token are stale and must not be
// applied to state.
package fence

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Token identifies a single in-flight request. Tokens are ULIDs drawn from a
// shared monotonic entropy source, so a token issued later always compares
// lexically greater than one issued earlier.
type Token string

// None is the zero Token. It is never admitted.
const None Token = ""

// String returns the canonical string form.
func (t Token) String() string { return string(t) }

// Gate issues tokens and admits only the most recently issued one.
// Safe for concurrent use.
type Gate struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	latest  Token
}

func NewGate() *Gate {
	return &Gate{
		entropy: ulid.Monotonic(rand.Reader, 0), // Max monotonic window
	}
}

// Next issues a fresh token and marks it as the latest. Any token issued
// before this call becomes stale.
func (g *Gate) Next() Token {
	g.mu.Lock()
	defer g.mu.Unlock()

	u := ulid.MustNew(ulid.Timestamp(time.Now().UTC()), g.entropy)
	g.latest = Token(u.String())
	return g.latest
}

// Admit reports whether t is still the latest issued token.
func (g *Gate) Admit(t Token) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return t != None && t == g.latest
}

// Compare reports the issue ordering between a and b.
// Returns -1 if a was issued before b, 0 if equal, +1 otherwise.
func Compare(a, b Token) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
