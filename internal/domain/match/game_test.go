package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameDecide_OnlyOnce(t *testing.T) {
	g := Game{Quotas: CanonicalQuotas}

	require.ErrorIs(t, g.Decide(WinnerUnset), ErrInvalidWinner)
	require.NoError(t, g.Decide(WinnerTeam2))
	require.ErrorIs(t, g.Decide(WinnerTeam1), ErrWinnerAlreadySet)
	assert.Equal(t, WinnerTeam2, g.Winner)
}

func TestParseWinner(t *testing.T) {
	cases := []struct {
		in   string
		want Winner
		ok   bool
	}{
		{"team1", WinnerTeam1, true},
		{"Blue", WinnerTeam1, true},
		{" 2 ", WinnerTeam2, true},
		{"red", WinnerTeam2, true},
		{"green", WinnerUnset, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseWinner(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestQuotasValidate(t *testing.T) {
	cases := []struct {
		name    string
		q       Quotas
		wantErr bool
	}{
		{"canonical", CanonicalQuotas, false},
		{"no tanks", Quotas{DPS: 2, Supports: 2}, false},
		{"empty", Quotas{}, true},
		{"too many tanks", Quotas{Tanks: 4, DPS: 2, Supports: 2}, true},
		{"negative dps", Quotas{Tanks: 1, DPS: -1, Supports: 2}, true},
		{"too many supports", Quotas{Tanks: 1, DPS: 2, Supports: 5}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.q.Validate()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTeamPlayersOrder(t *testing.T) {
	team := Team{Tank: []string{"a"}, DPS: []string{"b", "c"}, Support: []string{"d"}}
	assert.Equal(t, []string{"a", "b", "c", "d"}, team.Players())
	assert.True(t, team.Has("c"))
	assert.False(t, team.Has("z"))
}
