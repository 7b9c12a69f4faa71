package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"webmeet/internal/core"
	"webmeet/internal/domain"
	"webmeet/pkg/metrics"
)

// Orchestrator owns the join/relay/disconnect flows over the registry and
// the room directory. Relay policy is best-effort: anything that cannot be
// delivered is dropped without reporting back to the sender.
type Orchestrator struct {
	Registry *Registry
	Rooms    *Directory
}

func (o *Orchestrator) OnConnect(id domain.ConnID, conn core.SignalConnection) {
	o.Registry.Register(id, conn)
	metrics.Connections.Inc()
}

// OnJoin sets the profile, inserts the member, notifies the room and
// replies to the joiner with the post-insert snapshot. Joining again while
// already in a room only moves the current-room pointer; the stale member
// entry in the previous room is left behind (see Directory).
func (o *Orchestrator) OnJoin(id domain.ConnID, roomID domain.RoomID, displayName string) {
	profile := domain.DefaultProfile()
	profile.SetDisplayName(displayName)
	if !o.Registry.SetProfile(id, profile) {
		log.Warn().Str("module", "app.orchestrator").Str("conn", string(id)).Msg("join from unregistered connection")
		return
	}

	snapshot := o.Rooms.Join(roomID, id, profile)

	joined, err := json.Marshal(userJoinedEvent{Type: KindUserJoined, ID: id, DisplayName: profile.DisplayName})
	if err != nil {
		log.Error().Err(err).Str("module", "app.orchestrator").Msg("marshal user_joined")
		return
	}
	for _, member := range o.Rooms.MembersOf(roomID) {
		if member == id {
			continue
		}
		o.send(member, joined)
	}

	users, err := json.Marshal(roomUsersEvent{Type: KindRoomUsers, Users: snapshot})
	if err != nil {
		log.Error().Err(err).Str("module", "app.orchestrator").Msg("marshal room_users")
		return
	}
	o.send(id, users)
	log.Info().Str("module", "app.orchestrator").Str("conn", string(id)).Str("room", string(roomID)).Msg("join complete")
}

// OnDisconnect leaves the current room, tells the remaining members and
// discards all connection state. Safe to call for ids never registered.
func (o *Orchestrator) OnDisconnect(id domain.ConnID) {
	if roomID, ok := o.Rooms.Leave(id); ok {
		left, err := json.Marshal(userLeftEvent{Type: KindUserLeft, ID: id})
		if err != nil {
			log.Error().Err(err).Str("module", "app.orchestrator").Msg("marshal user_left")
		} else {
			for _, member := range o.Rooms.MembersOf(roomID) {
				o.send(member, left)
			}
		}
	}
	o.Registry.Deregister(id)
}

// Relay routes one opaque event. `to` present means unicast to that
// connection id, not scoped to the sender's room (cross-room moderation
// relies on this); otherwise the event goes to every roommate except the
// sender. The sender's id is stamped as `from`, replacing whatever the
// client put there. Senders without a room are dropped silently.
func (o *Orchestrator) Relay(sender domain.ConnID, kind string, data []byte) {
	roomID, ok := o.Rooms.RoomOf(sender)
	if !ok {
		log.Debug().Str("module", "app.orchestrator").Str("conn", string(sender)).Str("kind", kind).Msg("relay before join, dropped")
		return
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Warn().Err(err).Str("module", "app.orchestrator").Str("kind", kind).Msg("bad relay payload")
		return
	}
	to, _ := payload["to"].(string)
	payload["from"] = string(sender)
	frame, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("module", "app.orchestrator").Str("kind", kind).Msg("marshal relay payload")
		return
	}

	if to != "" {
		o.send(domain.ConnID(to), frame)
	} else {
		for _, member := range o.Rooms.MembersOf(roomID) {
			if member == sender {
				continue
			}
			o.send(member, frame)
		}
	}
	metrics.Relayed.WithLabelValues(kind).Inc()
}

// send delivers one frame best-effort. Gone recipients and backpressure
// both end the same way: the frame is dropped and counted.
func (o *Orchestrator) send(id domain.ConnID, frame core.Frame) {
	conn, ok := o.Registry.Conn(id)
	if !ok {
		metrics.Dropped.Inc()
		return
	}
	if err := conn.TrySend(frame); err != nil {
		log.Warn().Err(err).Str("module", "app.orchestrator").Str("conn", string(id)).Msg("send failed, dropped")
		metrics.Dropped.Inc()
	}
}
