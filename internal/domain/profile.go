// Package domain contains entity without logic, just meta-data
package domain

const (
	MaxDisplayNameLen = 36

	DefaultDisplayName = "Guest"
)

type ConnID string

// Role is the member's standing inside a room. The server carries it in
// the profile but never acts on it; moderation kinds are relayed opaquely.
type Role string

const (
	RoleMember Role = "member"
	RoleCohost Role = "cohost"
)

// Profile is the lightweight per-connection identity shown to roommates.
type Profile struct {
	DisplayName string `json:"displayName"`
	Role        Role   `json:"role"`
}

// DefaultProfile applies the defaults the join payload may omit.
func DefaultProfile() Profile {
	return Profile{DisplayName: DefaultDisplayName, Role: RoleMember}
}

func (p *Profile) SetDisplayName(name string) {
	if name == "" {
		name = DefaultDisplayName
	}
	if len(name) > MaxDisplayNameLen {
		name = name[:MaxDisplayNameLen]
	}
	p.DisplayName = name
}
