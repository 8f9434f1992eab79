package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jose-valero/pug-picker-bot/internal/domain/match"
	"github.com/jose-valero/pug-picker-bot/internal/queue"
)

func sampleGame() match.Game {
	return match.Game{
		ID:     "g-1",
		Quotas: match.CanonicalQuotas,
		Team1: match.Team{
			Tank:    []string{"t1"},
			DPS:     []string{"d1", "d2"},
			Support: []string{"s1", "s2"},
		},
		Team2: match.Team{
			Tank:    []string{"t2"},
			DPS:     []string{"d3", "d4"},
			Support: []string{"s3", "s4"},
		},
		Captain1:  "d2",
		Captain2:  "s3",
		CreatedAt: time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC),
	}
}

func TestStatusText(t *testing.T) {
	snap := queue.Snapshot{
		State: queue.StateActive,
		Members: map[match.Role][]string{
			match.RoleTank: {"a"},
			match.RoleDPS:  {"a", "b"},
		},
	}
	got := StatusText(snap)
	assert.Contains(t, got, "currently active")
	assert.Contains(t, got, "Tanks: 1 | DPS: 2 | Supports: 0")
	assert.Contains(t, got, "tanksupport")

	snap.State = queue.StateInactive
	assert.Contains(t, StatusText(snap), "not currently active")
	assert.NotContains(t, StatusText(snap), "flex")
}

func TestShortageText_UsesDoubledQuotas(t *testing.T) {
	got := ShortageText(match.Quotas{Tanks: 0, DPS: 2, Supports: 3})
	assert.Contains(t, got, "0 unique tanks, 4 unique dps, 6 unique supports")
}

func TestTeamsText(t *testing.T) {
	got := TeamsText(sampleGame())
	assert.Contains(t, got, "Team Blue [Tank: t1 | DPS: d1, d2 | Support: s1, s2 | Captain: d2]")
	assert.Contains(t, got, "Team Red [Tank: t2 | DPS: d3, d4 | Support: s3, s4 | Captain: s3]")
}

func TestTeamsText_SkipsEmptyRoles(t *testing.T) {
	g := sampleGame()
	g.Team1.Tank, g.Team2.Tank = nil, nil
	assert.NotContains(t, TeamsText(g), "Tank:")
}

func TestResultText(t *testing.T) {
	g := sampleGame()
	g.Winner = match.WinnerTeam2
	assert.Equal(t, "Team Red wins!", ResultText(g, true))
	assert.Contains(t, ResultText(g, false), "not logged")
}

func TestStatusEmbed(t *testing.T) {
	snap := queue.Snapshot{
		State: queue.StateInGame,
		Members: map[match.Role][]string{
			match.RoleSupport: {"x", "y"},
		},
	}
	emb := StatusEmbed(snap, match.Quotas{Tanks: 0, DPS: 2, Supports: 2})
	require.Len(t, emb.Fields, 3)
	assert.Equal(t, colorInGame, emb.Color)
	assert.Equal(t, "Support (2)", emb.Fields[2].Name)
	assert.Equal(t, "• x\n• y", emb.Fields[2].Value)
	assert.Equal(t, "—", emb.Fields[0].Value)
	assert.Contains(t, emb.Description, "will not be logged")
}

func TestResultEmbed(t *testing.T) {
	g := sampleGame()
	g.Winner = match.WinnerTeam1
	emb := ResultEmbed(g, true, g.CreatedAt.Add(90*time.Minute))
	assert.Equal(t, colorBlue, emb.Color)
	assert.Contains(t, emb.Title, "Team Blue")
	assert.Contains(t, emb.Description, "1h 30m ago")
	require.Len(t, emb.Fields, 2)
	assert.Contains(t, emb.Fields[0].Name, "d2")
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "—", safe("  "))
	assert.Equal(t, "—", bulletList(nil, 3))
	assert.Equal(t, "• a\n• b", bulletList([]string{"a", "b", "c"}, 2))
	assert.Equal(t, "> a\n> b", quoteBlock("a\nb"))
	assert.Equal(t, "> —", quoteBlock(""))
}
