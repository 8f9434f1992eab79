// Package match holds the game-level domain types shared by the queue, the
// team picker and the stores.
package match

import "strings"

// Role is one of the three playable categories.
type Role string

const (
	RoleTank    Role = "tank"
	RoleDPS     Role = "dps"
	RoleSupport Role = "support"
)

// Roles lists every role in draw precedence order.
var Roles = []Role{RoleTank, RoleDPS, RoleSupport}

// NormalizePlayer returns the canonical form of a chat user name.
func NormalizePlayer(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
