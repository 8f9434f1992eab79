package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/jose-valero/pug-picker-bot/internal/domain/match"
	"github.com/jose-valero/pug-picker-bot/internal/queue"
)

const (
	colorActive   = 0x57F287
	colorInactive = 0x808080
	colorInGame   = 0xFEE75C
	colorBlue     = 0x3498DB
	colorRed      = 0xE74C3C
)

func queueTitle(state queue.State) string {
	switch state {
	case queue.StateActive:
		return "🔓 PUG queue open"
	case queue.StateInGame:
		return "🎮 PUG in progress"
	}
	return "🔒 PUG queue closed"
}

func stateColor(state queue.State) int {
	switch state {
	case queue.StateActive:
		return colorActive
	case queue.StateInGame:
		return colorInGame
	}
	return colorInactive
}

func roleLabel(r match.Role) string {
	switch r {
	case match.RoleTank:
		return "Tank"
	case match.RoleDPS:
		return "DPS"
	case match.RoleSupport:
		return "Support"
	}
	return string(r)
}

// humanize how long ago a game was drawn
func humanSince(t, now time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	d := now.Sub(t)
	if d < time.Minute {
		return "seconds ago"
	}
	if d < time.Hour {
		return fmt.Sprintf("%d min ago", int(d.Minutes()))
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if m == 0 {
		return fmt.Sprintf("%dh ago", h)
	}
	return fmt.Sprintf("%dh %dm ago", h, m)
}

// fallback to falsy data
func safe(s string) string {
	t := strings.TrimSpace(s)
	if t == "" || t == "-" {
		return "—"
	}
	return t
}

func bulletList(players []string, max int) string {
	if len(players) == 0 {
		return "—"
	}
	if max > 0 && len(players) > max {
		players = players[:max]
	}
	var b strings.Builder
	for _, p := range players {
		fmt.Fprintf(&b, "• %s\n", p)
	}
	return strings.TrimRight(b.String(), "\n")
}

func quoteBlock(s string) string {
	if s == "" {
		return "> —"
	}
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = "> " + lines[i]
	}
	return strings.Join(lines, "\n")
}
