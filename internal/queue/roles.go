package queue

import (
	"strings"

	"github.com/jose-valero/pug-picker-bot/internal/domain/match"
)

// Keywords lists the public signup words in the order they are advertised.
var Keywords = []string{"tank", "dps", "support", "tankdps", "tanksupport", "dpssupport", "flex"}

var keywordRoles = map[string][]match.Role{
	"tank":        {match.RoleTank},
	"dps":         {match.RoleDPS},
	"support":     {match.RoleSupport},
	"tankdps":     {match.RoleTank, match.RoleDPS},
	"tanksupport": {match.RoleTank, match.RoleSupport},
	"dpssupport":  {match.RoleDPS, match.RoleSupport},
	"flex":        {match.RoleTank, match.RoleDPS, match.RoleSupport},
}

// RolesFor maps a signup keyword onto the roles it covers.
func RolesFor(keyword string) ([]match.Role, bool) {
	roles, ok := keywordRoles[strings.ToLower(strings.TrimSpace(keyword))]
	if !ok {
		return nil, false
	}
	return append([]match.Role(nil), roles...), true
}

// IsKeyword reports whether s is a signup keyword.
func IsKeyword(s string) bool {
	_, ok := RolesFor(s)
	return ok
}
