package queue

import "github.com/jose-valero/pug-picker-bot/internal/domain/match"

// State is the lifecycle position of the signup queue.
type State string

const (
	StateInactive State = "inactive" // idle, teams may be picked
	StateActive   State = "active"   // accepting signups
	StateInGame   State = "ingame"   // teams assembled, awaiting result
)

// Transition names an edge of the state machine.
type Transition string

const (
	TransitionStart     Transition = "start"
	TransitionResume    Transition = "resume"
	TransitionStop      Transition = "stop"
	TransitionBeginGame Transition = "begin game"
	TransitionEndGame   Transition = "end game"
)

// edges maps each transition to the states it may start from and the state
// it lands in.
var edges = map[Transition]struct {
	from []State
	to   State
}{
	TransitionStart:     {from: []State{StateInactive, StateInGame}, to: StateActive},
	TransitionResume:    {from: []State{StateInactive}, to: StateActive},
	TransitionStop:      {from: []State{StateActive}, to: StateInactive},
	TransitionBeginGame: {from: []State{StateInactive}, to: StateInGame},
	TransitionEndGame:   {from: []State{StateInGame}, to: StateInactive},
}

// Snapshot is a read-only copy of the queue.
type Snapshot struct {
	State   State                   `json:"state"`
	Members map[match.Role][]string `json:"members"`
}

// Count returns how many players are signed up for r.
func (s Snapshot) Count(r match.Role) int { return len(s.Members[r]) }

// Unique returns every signed up player once, in role precedence order.
func (s Snapshot) Unique() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range match.Roles {
		for _, p := range s.Members[r] {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}
