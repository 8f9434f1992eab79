package queue

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jose-valero/pug-picker-bot/internal/domain/match"
)

// invariant checks that no role set holds a player twice.
func invariant(t *testing.T, q *Queue) {
	t.Helper()
	for r, members := range q.ByRole() {
		seen := map[string]bool{}
		for _, p := range members {
			if seen[p] {
				t.Fatalf("duplicate player %s in %s", p, r)
			}
			seen[p] = true
		}
	}
}

func TestSignUp_KeywordsMapToRoles(t *testing.T) {
	cases := []struct {
		keyword string
		want    []match.Role
	}{
		{"tank", []match.Role{match.RoleTank}},
		{"dps", []match.Role{match.RoleDPS}},
		{"support", []match.Role{match.RoleSupport}},
		{"tankdps", []match.Role{match.RoleTank, match.RoleDPS}},
		{"tanksupport", []match.Role{match.RoleTank, match.RoleSupport}},
		{"dpssupport", []match.Role{match.RoleDPS, match.RoleSupport}},
		{"flex", []match.Role{match.RoleTank, match.RoleDPS, match.RoleSupport}},
	}
	for _, tc := range cases {
		t.Run(tc.keyword, func(t *testing.T) {
			q := New()
			require.NoError(t, q.Start())

			added, err := q.SignUp("Player", tc.keyword)
			require.NoError(t, err)
			assert.Equal(t, tc.want, added)
			for _, r := range match.Roles {
				assert.Equal(t, contains(tc.want, r), q.Has(r, "player"), "role %s", r)
			}
		})
	}
}

func contains(roles []match.Role, r match.Role) bool {
	for _, x := range roles {
		if x == r {
			return true
		}
	}
	return false
}

func TestSignUp_RepeatIsNoop(t *testing.T) {
	q := New()
	require.NoError(t, q.Start())

	_, err := q.SignUp("alice", "tank")
	require.NoError(t, err)
	added, err := q.SignUp("ALICE", "flex")
	require.NoError(t, err)
	assert.Equal(t, []match.Role{match.RoleDPS, match.RoleSupport}, added)

	added, err = q.SignUp("alice", "flex")
	require.NoError(t, err)
	assert.Empty(t, added)
	assert.Equal(t, 1, q.Count(match.RoleTank))
	invariant(t, q)
}

func TestSignUp_RejectedUnlessActive(t *testing.T) {
	q := New()
	_, err := q.SignUp("alice", "tank")
	assert.ErrorIs(t, err, ErrNotAccepting)

	require.NoError(t, q.Start())
	require.NoError(t, q.Stop())
	require.NoError(t, q.BeginGame())
	_, err = q.SignUp("alice", "tank")
	assert.ErrorIs(t, err, ErrNotAccepting)

	_, err = q.SignUp("alice", "healer")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestTransitions(t *testing.T) {
	all := []Transition{TransitionStart, TransitionResume, TransitionStop, TransitionBeginGame, TransitionEndGame}
	allowed := map[State][]Transition{
		StateInactive: {TransitionStart, TransitionResume, TransitionBeginGame},
		StateActive:   {TransitionStop},
		StateInGame:   {TransitionStart, TransitionEndGame},
	}
	enter := map[State]func(q *Queue){
		StateInactive: func(q *Queue) {},
		StateActive:   func(q *Queue) { _ = q.Start() },
		StateInGame:   func(q *Queue) { _ = q.BeginGame() },
	}

	for state, ok := range allowed {
		for _, tr := range all {
			t.Run(fmt.Sprintf("%s/%s", state, tr), func(t *testing.T) {
				q := New()
				enter[state](q)
				require.Equal(t, state, q.State())

				err := q.Check(tr)
				if hasTransition(ok, tr) {
					assert.NoError(t, err)
					return
				}
				assert.ErrorIs(t, err, ErrInvalidTransition)
			})
		}
	}
}

func hasTransition(ts []Transition, t Transition) bool {
	for _, x := range ts {
		if x == t {
			return true
		}
	}
	return false
}

func TestStartClearsAndStopPreserves(t *testing.T) {
	q := New()
	require.NoError(t, q.Start())
	_, _ = q.SignUp("a", "flex")
	_, _ = q.SignUp("b", "dps")

	require.NoError(t, q.Stop())
	assert.Equal(t, 2, q.Count(match.RoleDPS))

	require.NoError(t, q.Resume())
	assert.Equal(t, 2, q.Count(match.RoleDPS))

	require.NoError(t, q.Stop())
	require.NoError(t, q.Start())
	for _, r := range match.Roles {
		assert.Zero(t, q.Count(r))
	}
}

func TestFailedTransitionKeepsState(t *testing.T) {
	q := New()
	require.NoError(t, q.Start())
	_, _ = q.SignUp("a", "tank")

	require.ErrorIs(t, q.BeginGame(), ErrInvalidTransition)
	assert.Equal(t, StateActive, q.State())
	assert.Equal(t, 1, q.Count(match.RoleTank))
}

func TestSnapshotIsACopy(t *testing.T) {
	q := New()
	require.NoError(t, q.Start())
	_, _ = q.SignUp("a", "flex")
	_, _ = q.SignUp("b", "support")

	snap := q.Snapshot()
	snap.Members[match.RoleTank][0] = "mutated"

	assert.True(t, q.Has(match.RoleTank, "a"))
	assert.Equal(t, []string{"a", "b"}, snap.Unique())
	assert.Equal(t, 2, snap.Count(match.RoleSupport))
}
