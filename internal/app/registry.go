package app

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"webmeet/internal/core"
	"webmeet/internal/domain"
)

var ErrNotRegistered = errors.New("connection not registered")

type connEntry struct {
	Profile domain.Profile
	Conn    core.SignalConnection
}

// Registry tracks every live transport connection and its profile.
// Entries exist from transport connect until disconnect; nothing survives
// a reconnect, which arrives under a fresh connection id.
type Registry struct {
	mu    sync.RWMutex
	conns map[domain.ConnID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[domain.ConnID]*connEntry)}
}

func (r *Registry) Register(id domain.ConnID, conn core.SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[id] = &connEntry{Profile: domain.DefaultProfile(), Conn: conn}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("registered connection")
}

// Deregister removes the entry. Idempotent.
func (r *Registry) Deregister(id domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, id)
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("deregistered connection")
}

// Profile returns the current profile. ErrNotRegistered is defensive;
// it should not occur for a connection still pumping events.
func (r *Registry) Profile(id domain.ConnID) (domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok {
		return domain.Profile{}, ErrNotRegistered
	}
	return e.Profile, nil
}

func (r *Registry) SetProfile(id domain.ConnID, p domain.Profile) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return false
	}
	e.Profile = p
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Str("name", p.DisplayName).Msg("updated profile")
	return true
}

// Conn resolves a connection id to its transport handle. A missing id is
// not an error: relays to gone connections are silent no-ops.
func (r *Registry) Conn(id domain.ConnID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok {
		return nil, false
	}
	return e.Conn, true
}
