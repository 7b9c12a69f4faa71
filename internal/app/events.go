package app

import (
	"webmeet/internal/core"
	"webmeet/internal/domain"
)

// Inbound event kinds.
const (
	KindJoinRoom = "join_room"

	KindRTCOffer  = "rtc_offer"
	KindRTCAnswer = "rtc_answer"
	KindRTCICE    = "rtc_ice"

	KindChatPublic  = "chat_public"
	KindChatPrivate = "chat_private"

	KindControlMute   = "control_mute"
	KindControlKick   = "control_kick"
	KindPromoteCohost = "promote_cohost"
)

// Outbound event kinds.
const (
	KindRoomUsers  = "room_users"
	KindUserJoined = "user_joined"
	KindUserLeft   = "user_left"
)

var relayable = map[string]struct{}{
	KindRTCOffer:      {},
	KindRTCAnswer:     {},
	KindRTCICE:        {},
	KindChatPublic:    {},
	KindChatPrivate:   {},
	KindControlMute:   {},
	KindControlKick:   {},
	KindPromoteCohost: {},
}

// Relayable reports whether kind is routed opaquely by the relay. The
// router never looks inside these payloads; it only branches on `to`.
func Relayable(kind string) bool {
	_, ok := relayable[kind]
	return ok
}

type roomUsersEvent struct {
	Type  string           `json:"type"`
	Users []core.MemberDTO `json:"users"`
}

type userJoinedEvent struct {
	Type        string        `json:"type"`
	ID          domain.ConnID `json:"id"`
	DisplayName string        `json:"displayName"`
}

type userLeftEvent struct {
	Type string        `json:"type"`
	ID   domain.ConnID `json:"id"`
}
