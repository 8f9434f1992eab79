package match

import "fmt"

// Per-team bounds for each role.
const (
	MaxTanksPerTeam    = 3
	MaxDPSPerTeam      = 4
	MaxSupportsPerTeam = 4
)

// Quotas is the number of players per team for each role.
type Quotas struct {
	Tanks    int `json:"tanks_per_team"`
	DPS      int `json:"dps_per_team"`
	Supports int `json:"supports_per_team"`
}

// CanonicalQuotas is the only shape that gets written to the match log.
var CanonicalQuotas = Quotas{Tanks: 1, DPS: 2, Supports: 2}

// Of returns the per-team quota for r.
func (q Quotas) Of(r Role) int {
	switch r {
	case RoleTank:
		return q.Tanks
	case RoleDPS:
		return q.DPS
	case RoleSupport:
		return q.Supports
	}
	return 0
}

// PerTeam is the team size.
func (q Quotas) PerTeam() int { return q.Tanks + q.DPS + q.Supports }

// Canonical reports whether q is the 1/2/2 shape.
func (q Quotas) Canonical() bool { return q == CanonicalQuotas }

// Validate checks per-role bounds and that teams are not empty.
func (q Quotas) Validate() error {
	switch {
	case q.Tanks < 0 || q.Tanks > MaxTanksPerTeam:
		return fmt.Errorf("tanks per team must be between 0 and %d, got %d", MaxTanksPerTeam, q.Tanks)
	case q.DPS < 0 || q.DPS > MaxDPSPerTeam:
		return fmt.Errorf("dps per team must be between 0 and %d, got %d", MaxDPSPerTeam, q.DPS)
	case q.Supports < 0 || q.Supports > MaxSupportsPerTeam:
		return fmt.Errorf("supports per team must be between 0 and %d, got %d", MaxSupportsPerTeam, q.Supports)
	case q.PerTeam() == 0:
		return fmt.Errorf("teams need at least one player")
	}
	return nil
}

func (q Quotas) String() string {
	return fmt.Sprintf("%d tank / %d dps / %d support", q.Tanks, q.DPS, q.Supports)
}
