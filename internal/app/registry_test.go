package app

import (
	"errors"
	"sync"
	"testing"

	"webmeet/internal/core"
	"webmeet/internal/domain"
)

type fakeConn struct {
	mu      sync.Mutex
	frames  []core.Frame
	failing bool
}

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return errors.New("backpressure")
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {}

func (c *fakeConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

func TestRegistryRegisterDefaults(t *testing.T) {
	r := NewRegistry()
	r.Register("a", &fakeConn{})

	p, err := r.Profile("a")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p.DisplayName != domain.DefaultDisplayName {
		t.Errorf("default displayName = %q, want %q", p.DisplayName, domain.DefaultDisplayName)
	}
	if p.Role != domain.RoleMember {
		t.Errorf("default role = %q, want %q", p.Role, domain.RoleMember)
	}
}

func TestRegistryProfileNotRegistered(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Profile("ghost"); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("Profile(ghost) err = %v, want ErrNotRegistered", err)
	}
}

func TestRegistryDeregisterIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Register("a", &fakeConn{})
	r.Deregister("a")
	r.Deregister("a")

	if _, ok := r.Conn("a"); ok {
		t.Error("Conn(a) still resolves after deregister")
	}
}

func TestRegistrySetProfileUnknown(t *testing.T) {
	r := NewRegistry()
	if r.SetProfile("ghost", domain.DefaultProfile()) {
		t.Error("SetProfile for unknown id reported success")
	}
}
