// internal/app/policy.go
// Minimal privilege check based on the BOT_ADMINS allow-list.

package app

import (
	"strings"

	"github.com/jose-valero/pug-picker-bot/internal/domain/match"
)

// Admins is a case-insensitive allow-list of chat usernames.
type Admins map[string]struct{}

// NewAdmins normalizes names; blanks are skipped.
func NewAdmins(names []string) Admins {
	a := make(Admins, len(names))
	for _, n := range names {
		n = match.NormalizePlayer(n)
		if n != "" {
			a[n] = struct{}{}
		}
	}
	return a
}

// IsPrivileged reports whether user may run admin commands.
func (a Admins) IsPrivileged(user string) bool {
	_, ok := a[strings.ToLower(strings.TrimSpace(user))]
	return ok
}
