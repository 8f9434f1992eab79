package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/pug-picker-bot/internal/domain/match"
	"github.com/jose-valero/pug-picker-bot/internal/queue"
)

func buildQueueDescription(snap queue.Snapshot, q match.Quotas) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Format:** %s (%dv%d)\n", q, q.PerTeam(), q.PerTeam())
	if !q.Canonical() {
		b.WriteString("⚠️ Non-standard team composition: games will not be logged\n")
	}
	fmt.Fprintf(&b, "**Unique players:** %d/%d\n", len(snap.Unique()), q.PerTeam()*2)
	if snap.State == queue.StateActive {
		b.WriteString("\n" + JoinHint)
	}
	return b.String()
}

// StatusEmbed is the persistent queue card, edited in place on every change.
func StatusEmbed(snap queue.Snapshot, q match.Quotas) *discordgo.MessageEmbed {
	emb := &discordgo.MessageEmbed{
		Title:       queueTitle(snap.State),
		Description: buildQueueDescription(snap, q),
		Color:       stateColor(snap.State),
	}
	for _, r := range match.Roles {
		emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("%s (%d)", roleLabel(r), snap.Count(r)),
			Value:  bulletList(snap.Members[r], 15),
			Inline: true, // ← 3 columns
		})
	}
	return emb
}

func teamField(side match.Winner, t match.Team, captain string) *discordgo.MessageEmbedField {
	var b strings.Builder
	for _, r := range match.Roles {
		players := t.Role(r)
		if len(players) == 0 {
			continue
		}
		fmt.Fprintf(&b, "**%s**\n%s\n", roleLabel(r), bulletList(players, 0))
	}
	return &discordgo.MessageEmbedField{
		Name:   match.TeamName(side) + " • 👑 " + safe(captain),
		Value:  quoteBlock(strings.TrimRight(b.String(), "\n")),
		Inline: true, // ← 2 columns
	}
}

// TeamsEmbed announces a freshly drawn game.
func TeamsEmbed(g match.Game) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Teams selected!",
		Color: colorInGame,
		Fields: []*discordgo.MessageEmbedField{
			teamField(match.WinnerTeam1, g.Team1, g.Captain1),
			teamField(match.WinnerTeam2, g.Team2, g.Captain2),
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "game " + g.ID},
		Timestamp: g.CreatedAt.Format(time.RFC3339),
	}
}

// ResultEmbed announces the winner of a decided game.
func ResultEmbed(g match.Game, logged bool, now time.Time) *discordgo.MessageEmbed {
	color := colorBlue
	if g.Winner == match.WinnerTeam2 {
		color = colorRed
	}
	desc := fmt.Sprintf("Drawn %s", humanSince(g.CreatedAt, now))
	if !logged {
		desc += "\n_Non-standard composition, not logged._"
	}
	return &discordgo.MessageEmbed{
		Title:       "🏆 " + match.TeamName(g.Winner) + " wins!",
		Description: desc,
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			teamField(match.WinnerTeam1, g.Team1, g.Captain1),
			teamField(match.WinnerTeam2, g.Team2, g.Captain2),
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "game " + g.ID},
	}
}
