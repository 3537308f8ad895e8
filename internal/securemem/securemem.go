// Package securemem keeps credentials such as the token passphrase in
// memguard-locked memory rather than on the Go heap.
package securemem

import (
	"crypto/subtle"
	"sync"

	"github.com/awnumar/memguard"
)

var initOnce sync.Once

// Init installs memguard's interrupt handler, which purges every locked
// buffer before the process exits on SIGINT/SIGTERM. Safe to call more than
// once.
func Init() {
	initOnce.Do(func() {
		memguard.CatchInterrupt()
	})
}

// Cleanup destroys all locked buffers. Call it on the way out of main.
func Cleanup() {
	memguard.Purge()
}

// Secret is an immutable secret value held in locked memory.
type Secret struct {
	mu  sync.Mutex
	buf *memguard.LockedBuffer
}

// FromBytes moves b into locked memory. b is wiped.
func FromBytes(b []byte) *Secret {
	if len(b) == 0 {
		return &Secret{}
	}
	return &Secret{buf: memguard.NewBufferFromBytes(b)}
}

// FromString copies s into locked memory. The caller's string cannot be
// wiped, so prefer FromBytes where the value arrives as a byte slice.
func FromString(s string) *Secret {
	return FromBytes([]byte(s))
}

// Empty reports whether the secret holds nothing or was destroyed.
func (s *Secret) Empty() bool {
	if s == nil {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf == nil || s.buf.Size() == 0
}

// Use calls fn with a temporary copy of the secret that is wiped when fn
// returns. fn must not retain the slice.
func (s *Secret) Use(fn func([]byte) error) error {
	if s == nil {
		return fn(nil)
	}
	s.mu.Lock()
	var tmp []byte
	if s.buf != nil {
		tmp = make([]byte, s.buf.Size())
		copy(tmp, s.buf.Bytes())
	}
	s.mu.Unlock()
	defer memguard.WipeBytes(tmp)
	return fn(tmp)
}

// Equal compares against b in constant time.
func (s *Secret) Equal(b []byte) bool {
	eq := false
	_ = s.Use(func(v []byte) error {
		eq = subtle.ConstantTimeCompare(v, b) == 1
		return nil
	})
	return eq
}

// Destroy wipes the secret. Later calls to Use see an empty value.
func (s *Secret) Destroy() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buf != nil {
		s.buf.Destroy()
		s.buf = nil
	}
}
