package match

import (
	"slices"
	"strings"
	"time"
)

// merr is a comparable error type so errors.Is works on the constants.
type merr string

func (e merr) Error() string { return string(e) }

const (
	ErrWinnerAlreadySet = merr("winner already recorded")
	ErrInvalidWinner    = merr("winner must be team1 or team2")
)

// Winner identifies the team that won a game.
type Winner string

const (
	WinnerUnset Winner = ""
	WinnerTeam1 Winner = "team1"
	WinnerTeam2 Winner = "team2"
)

// ParseWinner accepts team1/team2, 1/2 and the display colors blue/red.
func ParseWinner(s string) (Winner, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "team1", "1", "blue":
		return WinnerTeam1, true
	case "team2", "2", "red":
		return WinnerTeam2, true
	}
	return WinnerUnset, false
}

// Team is one side's roster, ordered per role.
type Team struct {
	Tank    []string `json:"tank"`
	DPS     []string `json:"dps"`
	Support []string `json:"support"`
}

// Role returns the players slotted into r.
func (t Team) Role(r Role) []string {
	switch r {
	case RoleTank:
		return t.Tank
	case RoleDPS:
		return t.DPS
	case RoleSupport:
		return t.Support
	}
	return nil
}

// SetRole replaces the players slotted into r.
func (t *Team) SetRole(r Role, players []string) {
	switch r {
	case RoleTank:
		t.Tank = players
	case RoleDPS:
		t.DPS = players
	case RoleSupport:
		t.Support = players
	}
}

// Players returns the roster in tank, dps, support order.
func (t Team) Players() []string {
	out := make([]string, 0, len(t.Tank)+len(t.DPS)+len(t.Support))
	out = append(out, t.Tank...)
	out = append(out, t.DPS...)
	return append(out, t.Support...)
}

// Has reports whether p is on the roster.
func (t Team) Has(p string) bool { return slices.Contains(t.Players(), p) }

// Game is an assembled match awaiting or holding its result.
type Game struct {
	ID        string    `json:"id"`
	Quotas    Quotas    `json:"quotas"`
	Team1     Team      `json:"team1"`
	Team2     Team      `json:"team2"`
	Captain1  string    `json:"captain1"`
	Captain2  string    `json:"captain2"`
	Winner    Winner    `json:"winner,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Decide sets the winner. It can only happen once.
func (g *Game) Decide(w Winner) error {
	if w != WinnerTeam1 && w != WinnerTeam2 {
		return ErrInvalidWinner
	}
	if g.Winner != WinnerUnset {
		return ErrWinnerAlreadySet
	}
	g.Winner = w
	return nil
}

// Decided reports whether a winner was recorded.
func (g Game) Decided() bool { return g.Winner != WinnerUnset }

// Canonical reports whether the game used the 1/2/2 shape.
func (g Game) Canonical() bool { return g.Quotas.Canonical() }

// Players returns both rosters.
func (g Game) Players() []string {
	return append(g.Team1.Players(), g.Team2.Players()...)
}

// TeamName is the display name of each side.
func TeamName(w Winner) string {
	switch w {
	case WinnerTeam1:
		return "Team Blue"
	case WinnerTeam2:
		return "Team Red"
	}
	return "—"
}
