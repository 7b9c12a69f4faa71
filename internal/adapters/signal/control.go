package signal

import (
	"github.com/rs/zerolog/log"

	"webmeet/internal/domain"
)

func (ctl *Controller) handlePing(
	conn *wsSignalConn,
) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: "pong",
	}
	ctl.sendJSON(conn, resp)
}

// handleWhoAmI tells a connection its transport-assigned id, which it needs
// to recognize itself in room snapshots.
func (ctl *Controller) handleWhoAmI(
	id domain.ConnID,
	conn *wsSignalConn,
) {
	profile, err := ctl.Orch.Registry.Profile(id)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("whoami for unregistered connection")
		return
	}
	resp := struct {
		Type        string        `json:"type"`
		ID          domain.ConnID `json:"id"`
		DisplayName string        `json:"displayName"`
		Role        domain.Role   `json:"role"`
	}{
		Type:        "whoami",
		ID:          id,
		DisplayName: profile.DisplayName,
		Role:        profile.Role,
	}
	ctl.sendJSON(conn, resp)
}
