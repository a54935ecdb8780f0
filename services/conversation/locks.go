// File: services/conversation/locks.go
package conversation

import (
	"context"
	"sync"
)

// sessionLocks hands out one lock per session ID. Entries are dropped when
// the last holder or waiter lets go of them.
type sessionLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	sem  chan struct{}
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{entries: make(map[string]*lockEntry)}
}

// Lock waits until the session is free or ctx is done. On success it returns
// the release function; on ctx expiry it returns ctx.Err() and holds nothing.
func (l *sessionLocks) Lock(ctx context.Context, sessionID string) (func(), error) {
	l.mu.Lock()
	entry, ok := l.entries[sessionID]
	if !ok {
		entry = &lockEntry{sem: make(chan struct{}, 1)}
		l.entries[sessionID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.sem <- struct{}{}:
		return func() {
			<-entry.sem
			l.unref(sessionID, entry)
		}, nil
	case <-ctx.Done():
		l.unref(sessionID, entry)
		return nil, ctx.Err()
	}
}

func (l *sessionLocks) unref(sessionID string, entry *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, sessionID)
	}
}

func (l *sessionLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
