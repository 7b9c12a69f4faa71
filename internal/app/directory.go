package app

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"webmeet/internal/core"
	"webmeet/internal/domain"
)

// Directory maps room ids to their member sets. Rooms are created lazily on
// first join and are never reclaimed when they empty; the key persists for
// the process lifetime (known growth issue, kept until product says otherwise).
//
// byConn holds each connection's most recently joined room. Joining room B
// while still listed in room A overwrites the pointer but does NOT remove
// the stale entry from A; Leave only touches the pointed-to room. Kept
// deliberately, pinned by tests; clients are expected to disconnect rather
// than hop rooms.
type Directory struct {
	mu     sync.RWMutex
	rooms  map[domain.RoomID]map[domain.ConnID]domain.Profile
	byConn map[domain.ConnID]domain.RoomID
}

func NewDirectory() *Directory {
	return &Directory{
		rooms:  make(map[domain.RoomID]map[domain.ConnID]domain.Profile),
		byConn: make(map[domain.ConnID]domain.RoomID),
	}
}

// Join inserts or overwrites the member entry and returns the post-insert
// snapshot of the room, joiner included. Snapshot order is by connection id
// so fan-out and tests are deterministic.
func (d *Directory) Join(roomID domain.RoomID, id domain.ConnID, p domain.Profile) []core.MemberDTO {
	d.mu.Lock()
	defer d.mu.Unlock()
	members, ok := d.rooms[roomID]
	if !ok {
		members = make(map[domain.ConnID]domain.Profile)
		d.rooms[roomID] = members
		log.Info().Str("module", "app.directory").Str("room", string(roomID)).Msg("room created")
	}
	members[id] = p
	d.byConn[id] = roomID
	log.Info().Str("module", "app.directory").Str("room", string(roomID)).Str("conn", string(id)).Msg("member joined")

	out := make([]core.MemberDTO, 0, len(members))
	for mid, mp := range members {
		out = append(out, core.MemberDTO{ID: mid, DisplayName: mp.DisplayName})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Leave removes the connection from its current room, if any, and reports
// which room that was. The room itself stays, even when it empties.
func (d *Directory) Leave(id domain.ConnID) (domain.RoomID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	roomID, ok := d.byConn[id]
	if !ok {
		return "", false
	}
	delete(d.byConn, id)
	if members, ok := d.rooms[roomID]; ok {
		delete(members, id)
	}
	log.Info().Str("module", "app.directory").Str("room", string(roomID)).Str("conn", string(id)).Msg("member left")
	return roomID, true
}

// RoomOf reports the connection's current room.
func (d *Directory) RoomOf(id domain.ConnID) (domain.RoomID, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	roomID, ok := d.byConn[id]
	return roomID, ok
}

// MembersOf returns the broadcast targets for a room, id-sorted.
// Unknown rooms yield an empty slice, not an error.
func (d *Directory) MembersOf(roomID domain.RoomID) []domain.ConnID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	members := d.rooms[roomID]
	out := make([]domain.ConnID, 0, len(members))
	for id := range members {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RoomInfo is a read-only view for the rooms listing API.
type RoomInfo struct {
	ID          domain.RoomID `json:"id"`
	MemberCount int           `json:"member_count"`
}

func (d *Directory) List() []RoomInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]RoomInfo, 0, len(d.rooms))
	for id, members := range d.rooms {
		out = append(out, RoomInfo{ID: id, MemberCount: len(members)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
