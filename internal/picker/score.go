package picker

import (
	"slices"
	"time"

	"github.com/jose-valero/pug-picker-bot/internal/storage"
)

const (
	queuedWeight    = 0.7
	stalenessWeight = 0.3

	// NeverPlayedDays is the staleness assumed for players with no recorded game.
	NeverPlayedDays = 30.0
)

// Score is the fairness weight of a player: frequent queuers and players who
// have not played for a while rank higher.
func Score(p storage.Priority, now time.Time) float64 {
	days := NeverPlayedDays
	if p.LastGameAt != 0 {
		days = now.Sub(time.Unix(p.LastGameAt, 0)).Hours() / 24
	}
	q := float64(p.TimesQueued)
	return q*q*queuedWeight + days*stalenessWeight
}

// shiftPositive moves every weight up by -min+1 when any weight is negative.
func shiftPositive(weights []float64) []float64 {
	out := slices.Clone(weights)
	if len(out) == 0 {
		return out
	}
	low := slices.Min(out)
	if low >= 0 {
		return out
	}
	for i := range out {
		out[i] += -low + 1
	}
	return out
}
