package picker

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jose-valero/pug-picker-bot/internal/storage"
)

func TestScore_NeverPlayedDefaultsToThirtyDays(t *testing.T) {
	got := Score(storage.Priority{Player: "a"}, fixedNow)
	assert.InDelta(t, 30*0.3, got, 1e-9)

	got = Score(storage.Priority{Player: "a", TimesQueued: 2}, fixedNow)
	assert.InDelta(t, 4*0.7+30*0.3, got, 1e-9)
}

func TestScore_FractionalDays(t *testing.T) {
	last := fixedNow.Add(-36 * time.Hour).Unix()
	got := Score(storage.Priority{Player: "a", LastGameAt: last}, fixedNow)
	assert.InDelta(t, 1.5*0.3, got, 1e-9)
}

func TestScore_Monotonic(t *testing.T) {
	last := fixedNow.Add(-48 * time.Hour).Unix()
	base := Score(storage.Priority{TimesQueued: 3, LastGameAt: last}, fixedNow)

	moreQueued := Score(storage.Priority{TimesQueued: 4, LastGameAt: last}, fixedNow)
	assert.Greater(t, moreQueued, base)

	older := Score(storage.Priority{TimesQueued: 3, LastGameAt: last - 3600}, fixedNow)
	assert.Greater(t, older, base)
}

func TestShiftPositive(t *testing.T) {
	assert.Equal(t, []float64{1, 2, 3}, shiftPositive([]float64{1, 2, 3}))
	assert.Equal(t, []float64{1, 3, 6}, shiftPositive([]float64{-2, 0, 3}))
	assert.Empty(t, shiftPositive(nil))

	in := []float64{-1, 1}
	_ = shiftPositive(in)
	assert.Equal(t, []float64{-1, 1}, in, "input must not be modified")
}

func TestDrawWeighted(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	t.Run("distinct picks", func(t *testing.T) {
		cand := []string{"a", "b", "c", "d", "e"}
		got := drawWeighted(rng, cand, []float64{1, 1, 1, 1, 1}, 5)
		assert.ElementsMatch(t, cand, got)
	})

	t.Run("zero mass falls back to uniform", func(t *testing.T) {
		got := drawWeighted(rng, []string{"a", "b", "c"}, []float64{0, 0, 0}, 2)
		assert.Len(t, got, 2)
		assert.NotEqual(t, got[0], got[1])
	})

	t.Run("only positive weight wins first", func(t *testing.T) {
		for range 50 {
			got := drawWeighted(rng, []string{"a", "b", "c"}, []float64{0, 5, 0}, 1)
			assert.Equal(t, []string{"b"}, got)
		}
	})
}

func TestDrawWeighted_LightCandidatesKeepTheirShare(t *testing.T) {
	rng := rand.New(rand.NewPCG(2026, 3))
	const rounds = 10000

	hits := map[string]int{}
	for range rounds {
		got := drawWeighted(rng, []string{"light", "heavy"}, []float64{1, 9}, 1)
		hits[got[0]]++
	}

	assert.Positive(t, hits["light"])
	assert.Positive(t, hits["heavy"])
	assert.InDelta(t, 0.1, float64(hits["light"])/rounds, 0.02)
	assert.InDelta(t, 0.9, float64(hits["heavy"])/rounds, 0.02)
}
