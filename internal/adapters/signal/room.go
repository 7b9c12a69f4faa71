package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"webmeet/internal/domain"
)

func (ctl *Controller) handleJoin(id domain.ConnID, data []byte) {
	type joinPayload struct {
		Type        string `json:"type"`
		RoomID      string `json:"roomId"`
		DisplayName string `json:"displayName,omitempty"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("bad join payload")
		return
	}
	if !ctl.joins.Allow(id) {
		log.Warn().Str("module", "signal").Str("conn", string(id)).Msg("join rate limited")
		return
	}

	// roomId is a literal key, not validated. An empty string is a room.
	log.Info().Str("module", "signal").Str("conn", string(id)).Str("room", p.RoomID).Msg("join")
	ctl.Orch.OnJoin(id, domain.RoomID(p.RoomID), p.DisplayName)
}
