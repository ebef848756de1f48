package service

import "sync"

// DocLocks serialises the edit-reconcile-persist cycle per SOW id. Share one
// instance between every service that writes SOW documents.
type DocLocks struct {
	mu    sync.Mutex
	locks map[string]*docLock
}

type docLock struct {
	mu   sync.Mutex
	refs int
}

func NewDocLocks() *DocLocks {
	return &DocLocks{locks: make(map[string]*docLock)}
}

// Lock blocks until id is free and returns the matching unlock func.
func (l *DocLocks) Lock(id string) (unlock func()) {
	l.mu.Lock()
	dl, ok := l.locks[id]
	if !ok {
		dl = &docLock{}
		l.locks[id] = dl
	}
	dl.refs++
	l.mu.Unlock()

	dl.mu.Lock()
	return func() {
		dl.mu.Unlock()
		l.mu.Lock()
		dl.refs--
		if dl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *DocLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
