// Package events - types.go
package events

import (
	"github.com/jose-valero/pug-picker-bot/internal/domain/match"
	"github.com/jose-valero/pug-picker-bot/internal/queue"
)

// QueueChanged is emitted after any signup, state transition or quota change.
type QueueChanged struct {
	Snapshot queue.Snapshot
	Quotas   match.Quotas
}

// TeamsAssembled is emitted when a game has been drawn and the queue is ingame.
type TeamsAssembled struct {
	Game match.Game
}

// GameDecided is emitted once a winner is recorded. Logged is false for
// non-canonical games, which are never written to the game log.
type GameDecided struct {
	Game   match.Game
	Logged bool
}
