package sessionlock

import (
	"sync"

	"github.com/google/uuid"
)

// Keyring serializes reveal evaluation per session so concurrent requests
// cannot both see a free budget slot and both consume it. Entries are
// created lazily and reference-counted: a forgotten lock is only removed
// once the last holder or waiter has released it, so Unlock always operates
// on the same mutex that Lock acquired.
type Keyring struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sessionLock
}

type sessionLock struct {
	mu     sync.Mutex
	refs   int
	doomed bool
}

func NewKeyring() *Keyring {
	return &Keyring{
		locks: make(map[uuid.UUID]*sessionLock),
	}
}

func (k *Keyring) Lock(sessionID uuid.UUID) {
	k.mu.Lock()
	l, ok := k.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		k.locks[sessionID] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
}

func (k *Keyring) Unlock(sessionID uuid.UUID) {
	k.mu.Lock()
	l := k.locks[sessionID]
	l.refs--
	if l.refs == 0 && l.doomed {
		delete(k.locks, sessionID)
	}
	k.mu.Unlock()

	l.mu.Unlock()
}

// Forget drops the lock for a deleted session. Safe to call while holding
// it: removal is deferred to the final Unlock.
func (k *Keyring) Forget(sessionID uuid.UUID) {
	k.mu.Lock()
	defer k.mu.Unlock()

	l, ok := k.locks[sessionID]
	if !ok {
		return
	}
	if l.refs == 0 {
		delete(k.locks, sessionID)
		return
	}
	l.doomed = true
}
