package services

import "sync"

// drawLocks serializes work on the same draw. Entries are dropped once no
// goroutine holds or waits for them.
type drawLocks struct {
	mu    sync.Mutex
	locks map[string]*drawLock
}

type drawLock struct {
	sync.Mutex
	refs int
}

func newDrawLocks() *drawLocks {
	return &drawLocks{locks: make(map[string]*drawLock)}
}

// lock blocks until id is free and returns the matching unlock
func (l *drawLocks) lock(id string) func() {
	l.mu.Lock()
	dl, ok := l.locks[id]
	if !ok {
		dl = &drawLock{}
		l.locks[id] = dl
	}
	dl.refs++
	l.mu.Unlock()

	dl.Lock()
	return func() {
		dl.Unlock()
		l.mu.Lock()
		dl.refs--
		if dl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
