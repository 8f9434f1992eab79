// Package storetest holds the behaviour every storage backend must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jose-valero/pug-picker-bot/internal/domain/match"
	"github.com/jose-valero/pug-picker-bot/internal/storage"
)

// Opener returns a fresh, empty store for one subtest.
type Opener func(t *testing.T) storage.Store

// Run exercises the PriorityStore and GameRecorder contracts.
func Run(t *testing.T, open Opener) {
	t.Run("unknown player is zero", func(t *testing.T) {
		s := open(t)
		p, err := s.Get(context.Background(), "nobody")
		require.NoError(t, err)
		assert.Zero(t, p.TimesQueued)
		assert.Zero(t, p.LastGameAt)
	})

	t.Run("increment then reset subset", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)
		now := time.Unix(1_700_000_000, 0)

		require.NoError(t, s.IncrementAll(ctx, []string{"a", "b", "c"}))
		require.NoError(t, s.IncrementAll(ctx, []string{"a", "b", "c"}))
		require.NoError(t, s.Reset(ctx, []string{"b"}, now))

		a, err := s.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, 2, a.TimesQueued)
		assert.Zero(t, a.LastGameAt)

		b, err := s.Get(ctx, "b")
		require.NoError(t, err)
		assert.Zero(t, b.TimesQueued)
		assert.Equal(t, now.Unix(), b.LastGameAt)

		require.NoError(t, s.IncrementAll(ctx, []string{"b"}))
		b, err = s.Get(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, 1, b.TimesQueued)
		assert.Equal(t, now.Unix(), b.LastGameAt, "increment keeps the last game time")
	})

	t.Run("empty batches are no-ops", func(t *testing.T) {
		s := open(t)
		assert.NoError(t, s.IncrementAll(context.Background(), nil))
		assert.NoError(t, s.Reset(context.Background(), nil, time.Now()))
	})

	t.Run("log canonical game", func(t *testing.T) {
		s := open(t)
		rec := storage.GameRecord{
			ID:         "g-1",
			Team1:      match.Team{Tank: []string{"t1"}, DPS: []string{"d1", "d2"}, Support: []string{"s1", "s2"}},
			Team2:      match.Team{Tank: []string{"t2"}, DPS: []string{"d3", "d4"}, Support: []string{"s3", "s4"}},
			Captain1:   "d1",
			Captain2:   "s4",
			Winner:     match.WinnerTeam2,
			RecordedAt: time.Unix(1_700_000_000, 0),
		}
		assert.NoError(t, s.Log(context.Background(), rec))
	})

	t.Run("reject non canonical game", func(t *testing.T) {
		s := open(t)
		rec := storage.GameRecord{
			ID:     "g-2",
			Team1:  match.Team{DPS: []string{"d1", "d2"}, Support: []string{"s1", "s2"}},
			Team2:  match.Team{DPS: []string{"d3", "d4"}, Support: []string{"s3", "s4"}},
			Winner: match.WinnerTeam1,
		}
		assert.ErrorIs(t, s.Log(context.Background(), rec), storage.ErrNonCanonicalGame)
	})
}
