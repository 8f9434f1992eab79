// Package storage defines the durable collaborators of the picker: per-player
// priority counters and the append-only match log.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jose-valero/pug-picker-bot/internal/domain/match"
)

type serr string

func (e serr) Error() string { return string(e) }

// ErrNonCanonicalGame is returned by recorders asked to log a game that does
// not use the 1 tank / 2 dps / 2 support shape.
const ErrNonCanonicalGame = serr("only 1/2/2 games can be logged")

// Priority is a player's fairness bookkeeping.
type Priority struct {
	Player      string
	TimesQueued int
	LastGameAt  int64 // unix seconds, 0 means never played
}

// PriorityStore persists per-player counters.
type PriorityStore interface {
	// Get returns the zero Priority for unknown players.
	Get(ctx context.Context, player string) (Priority, error)
	// IncrementAll adds one to every player's counter atomically.
	IncrementAll(ctx context.Context, players []string) error
	// Reset zeroes the counter and stamps the last game time atomically.
	Reset(ctx context.Context, players []string, now time.Time) error
}

// GameRecord is one decided game as written to the match log.
type GameRecord struct {
	ID         string
	Team1      match.Team
	Team2      match.Team
	Captain1   string
	Captain2   string
	Winner     match.Winner
	RecordedAt time.Time
}

// GameRecorder appends decided games.
type GameRecorder interface {
	Log(ctx context.Context, rec GameRecord) error
}

// Store is a backend that implements both collaborators.
type Store interface {
	PriorityStore
	GameRecorder
	Close() error
}

// RecordFromGame converts a decided game into a log record.
func RecordFromGame(g match.Game, at time.Time) GameRecord {
	return GameRecord{
		ID:         g.ID,
		Team1:      g.Team1,
		Team2:      g.Team2,
		Captain1:   g.Captain1,
		Captain2:   g.Captain2,
		Winner:     g.Winner,
		RecordedAt: at,
	}
}

// Slots is the fixed-width row layout of a canonical game: per team one tank,
// two dps and two supports.
type Slots [10]string

// SlotsOf validates the record shape and flattens both rosters.
func SlotsOf(rec GameRecord) (Slots, error) {
	var s Slots
	if rec.Winner != match.WinnerTeam1 && rec.Winner != match.WinnerTeam2 {
		return s, match.ErrInvalidWinner
	}
	for i, t := range []match.Team{rec.Team1, rec.Team2} {
		if len(t.Tank) != 1 || len(t.DPS) != 2 || len(t.Support) != 2 {
			return s, fmt.Errorf("%w: team %d has %d/%d/%d", ErrNonCanonicalGame, i+1, len(t.Tank), len(t.DPS), len(t.Support))
		}
		copy(s[i*5:], t.Players())
	}
	return s, nil
}

// Teams rebuilds both rosters from a slot row.
func (s Slots) Teams() (match.Team, match.Team) {
	team := func(o int) match.Team {
		return match.Team{
			Tank:    []string{s[o]},
			DPS:     []string{s[o+1], s[o+2]},
			Support: []string{s[o+3], s[o+4]},
		}
	}
	return team(0), team(5)
}
