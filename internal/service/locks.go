package service

import "sync"

// entityLocks serializes mutations per entity key so conflict detection and
// merging always read a consistent local/remote pair. Operations on
// different entities proceed fully concurrently.
type entityLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newEntityLocks() *entityLocks {
	return &entityLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key, creating it on first use, and returns the
// unlock function.
func (e *entityLocks) Lock(key string) func() {
	e.mu.Lock()
	l, ok := e.locks[key]
	if !ok {
		l = &sync.Mutex{}
		e.locks[key] = l
	}
	e.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func entityKey(entityType, entityID string) string {
	return entityType + "/" + entityID
}
