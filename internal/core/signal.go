package core

import "webmeet/internal/domain"

// Frame is a fully encoded outbound message.
type Frame []byte

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// MemberDTO is a read-only view for room snapshots (no transport fields).
type MemberDTO struct {
	ID          domain.ConnID `json:"id"`
	DisplayName string        `json:"displayName"`
}
