package queue

import (
	"fmt"
	"slices"

	"github.com/jose-valero/pug-picker-bot/internal/domain/match"
)

// Queue is the signup queue: a state machine plus one ordered set of players
// per role. It is not safe for concurrent use; the owning session serializes
// access.
type Queue struct {
	state State
	sets  map[match.Role]*roster
}

// New returns an inactive, empty queue.
func New() *Queue {
	q := &Queue{
		state: StateInactive,
		sets:  make(map[match.Role]*roster, len(match.Roles)),
	}
	for _, r := range match.Roles {
		q.sets[r] = newRoster()
	}
	return q
}

// State returns the current lifecycle state.
func (q *Queue) State() State { return q.state }

// Check reports whether t is allowed from the current state.
func (q *Queue) Check(t Transition) error {
	e, ok := edges[t]
	if !ok {
		return fmt.Errorf("%w: unknown transition %q", ErrInvalidTransition, t)
	}
	if !slices.Contains(e.from, q.state) {
		return fmt.Errorf("%w: cannot %s while %s", ErrInvalidTransition, t, q.state)
	}
	return nil
}

func (q *Queue) apply(t Transition) error {
	if err := q.Check(t); err != nil {
		return err
	}
	q.state = edges[t].to
	return nil
}

// Start opens the queue for signups and clears every role set.
func (q *Queue) Start() error {
	if err := q.apply(TransitionStart); err != nil {
		return err
	}
	for _, s := range q.sets {
		s.clear()
	}
	return nil
}

// Resume reopens a stopped queue keeping its signups.
func (q *Queue) Resume() error { return q.apply(TransitionResume) }

// Stop closes the queue. Signups are preserved for picking.
func (q *Queue) Stop() error { return q.apply(TransitionStop) }

// BeginGame marks teams as assembled.
func (q *Queue) BeginGame() error { return q.apply(TransitionBeginGame) }

// EndGame returns to idle after a result was recorded.
func (q *Queue) EndGame() error { return q.apply(TransitionEndGame) }

// SignUp adds player to every role the keyword covers and returns the roles
// that were newly joined. Repeated signups are no-ops.
func (q *Queue) SignUp(player, keyword string) ([]match.Role, error) {
	roles, ok := RolesFor(keyword)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, keyword)
	}
	if q.state != StateActive {
		return nil, ErrNotAccepting
	}
	player = match.NormalizePlayer(player)
	if player == "" {
		return nil, fmt.Errorf("empty player name")
	}
	var added []match.Role
	for _, r := range roles {
		if q.sets[r].add(player) {
			added = append(added, r)
		}
	}
	return added, nil
}

// Has reports whether player is signed up for r.
func (q *Queue) Has(r match.Role, player string) bool {
	s, ok := q.sets[r]
	return ok && s.has(match.NormalizePlayer(player))
}

// Count returns the number of players signed up for r.
func (q *Queue) Count(r match.Role) int {
	if s, ok := q.sets[r]; ok {
		return s.len()
	}
	return 0
}

// ByRole returns a copy of each role's members.
func (q *Queue) ByRole() map[match.Role][]string {
	out := make(map[match.Role][]string, len(q.sets))
	for _, r := range match.Roles {
		out[r] = q.sets[r].members()
	}
	return out
}

// Snapshot returns a deep copy of the queue.
func (q *Queue) Snapshot() Snapshot {
	return Snapshot{State: q.state, Members: q.ByRole()}
}
