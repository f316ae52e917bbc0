package archive

import "sync"

// clientLocks serializes archive/restore for the same client name so a
// double trigger cannot interleave two cascades over one profile. Scope
// is this process only; cross-process exclusivity is the caller's
// responsibility.
type clientLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func newClientLocks() *clientLocks {
	return &clientLocks{m: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for name and returns its unlock func.
func (l *clientLocks) lock(name string) func() {
	l.mu.Lock()
	m, ok := l.m[name]
	if !ok {
		m = &sync.Mutex{}
		l.m[name] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
