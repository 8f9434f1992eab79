package ui

import (
	"fmt"
	"strings"

	"github.com/jose-valero/pug-picker-bot/internal/domain/match"
	"github.com/jose-valero/pug-picker-bot/internal/queue"
)

// JoinHint lists the signup keywords.
var JoinHint = "Type one of the following to queue for pugs: " + strings.Join(queue.Keywords, ", ")

// StatusText is the one-line queue summary sent for !status.
func StatusText(snap queue.Snapshot) string {
	counts := fmt.Sprintf("Tanks: %d | DPS: %d | Supports: %d",
		snap.Count(match.RoleTank), snap.Count(match.RoleDPS), snap.Count(match.RoleSupport))

	switch snap.State {
	case queue.StateActive:
		return "Queue is currently active. " + counts + ". " + JoinHint
	case queue.StateInGame:
		return "A game is in progress. " + counts
	}
	return "Queue is not currently active. " + counts
}

// ShortageText explains why !pick could not build teams.
func ShortageText(q match.Quotas) string {
	return fmt.Sprintf("Not enough unique players in each role for teams! "+
		"Need: %d unique tanks, %d unique dps, %d unique supports "+
		"(players picked for one role won't be picked for other roles)",
		q.Tanks*2, q.DPS*2, q.Supports*2)
}

// TeamsText renders both rosters, one team per line.
func TeamsText(g match.Game) string {
	return "Teams selected! " +
		teamLine(match.WinnerTeam1, g.Team1, g.Captain1) + " " +
		teamLine(match.WinnerTeam2, g.Team2, g.Captain2)
}

func teamLine(side match.Winner, t match.Team, captain string) string {
	parts := make([]string, 0, len(match.Roles)+1)
	for _, r := range match.Roles {
		if players := t.Role(r); len(players) > 0 {
			parts = append(parts, roleLabel(r)+": "+strings.Join(players, ", "))
		}
	}
	parts = append(parts, "Captain: "+safe(captain))
	return match.TeamName(side) + " [" + strings.Join(parts, " | ") + "]"
}

// SignupText acknowledges a signup.
func SignupText(player string, roles []match.Role) string {
	labels := make([]string, len(roles))
	for i, r := range roles {
		labels[i] = string(r)
	}
	return player + " joined " + strings.Join(labels, ", ")
}

// ResultText announces a recorded winner.
func ResultText(g match.Game, logged bool) string {
	s := match.TeamName(g.Winner) + " wins!"
	if !logged {
		s += " Non-standard team composition, game statistics were not logged."
	}
	return s
}
