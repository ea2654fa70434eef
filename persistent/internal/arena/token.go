package arena

import (
	"strconv"
	"sync/atomic"

	"github.com/npillmayer/pcoll/persistent"
	"github.com/pkg/errors"
)

// Token is the ownership marker of a transient edit session.
// Tokens are compared by identity.
type Token struct {
	serial uint64
	sealed bool
	busy   atomic.Int32
}

var tokenSerial atomic.Uint64

// NewToken creates a fresh, live token.
func NewToken() *Token {
	t := &Token{serial: tokenSerial.Add(1)}
	tracer().Debugf("new edit token #%d", t.serial)
	return t
}

// Seal ends the edit session. Nodes stamped with t may never be mutated again.
func (t *Token) Seal() {
	assertThat(t != nil, "attempt to seal a nil token")
	t.sealed = true
	tracer().Debugf("edit token #%d sealed", t.serial)
}

// Sealed is true for sealed tokens. A nil token counts as sealed: nodes of
// persistent values carry no live token.
func (t *Token) Sealed() bool {
	return t == nil || t.sealed
}

// Owns reports whether a node stamped with edit may be mutated in place
// under t.
func (t *Token) Owns(edit *Token) bool {
	return t != nil && !t.sealed && edit == t
}

// Enter starts a mutating call of a transient. It fails if t has been sealed
// or if another call is currently in progress. Every successful Enter must be
// paired with Leave.
func (t *Token) Enter() error {
	if t == nil {
		return persistent.ErrTransientSealed
	}
	if !t.busy.CompareAndSwap(0, 1) {
		return errors.Wrapf(persistent.ErrConcurrentEdit, "edit token #%d", t.serial)
	}
	if t.sealed {
		t.busy.Store(0)
		return persistent.ErrTransientSealed
	}
	return nil
}

// Leave ends a call started with Enter.
func (t *Token) Leave() {
	t.busy.Store(0)
}

func (t *Token) String() string {
	if t == nil {
		return "edit#-"
	}
	return "edit#" + strconv.FormatUint(t.serial, 10)
}
