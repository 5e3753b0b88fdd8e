// internal/domain/session/registry.go
package session

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Registry creates sessions lazily by ID, evicts idle ones on a sweep
// interval, and closes everything on shutdown.
type Registry struct {
	deps   Deps
	ttl    time.Duration
	logger *logrus.Logger

	mu       sync.Mutex
	sessions map[string]*entry

	stop chan struct{}
	done chan struct{}
}

// NewRegistry creates a registry and starts its eviction sweep
func NewRegistry(deps Deps) *Registry {
	r := &Registry{
		deps:     deps,
		ttl:      deps.Config.Session.TTL,
		logger:   deps.Logger,
		sessions: make(map[string]*entry),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	go r.sweep(deps.Config.Session.SweepInterval)
	return r
}

// Get returns the session for the ID, creating it on first touch
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.sessions[id]; ok {
		e.lastSeen = time.Now()
		return e.session
	}

	s := New(id, r.deps)
	r.sessions[id] = &entry{session: s, lastSeen: time.Now()}
	r.logger.WithField("session_id", id).Debug("Session created")
	return s
}

// Close stops the sweep and closes all live sessions
func (r *Registry) Close() {
	close(r.stop)
	<-r.done

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.sessions {
		e.session.Close()
		delete(r.sessions, id)
	}
}

func (r *Registry) sweep(interval time.Duration) {
	defer close(r.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.evictIdle()
		case <-r.stop:
			return
		}
	}
}

func (r *Registry) evictIdle() {
	cutoff := time.Now().Add(-r.ttl)

	r.mu.Lock()
	var expired []*Session
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e.session)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	// Close outside the lock; cart managers wait for in-flight writes
	for _, s := range expired {
		r.logger.WithField("session_id", s.ID).Debug("Session evicted")
		s.Close()
	}
}
