// Package queue - helpers.go
// Small internal helpers kept separate to keep queue.go focused.
package queue

// roster is an insertion-ordered set of player ids.
type roster struct {
	order []string
	index map[string]struct{}
}

func newRoster() *roster {
	return &roster{index: make(map[string]struct{})}
}

// add inserts p and reports whether it was new.
func (r *roster) add(p string) bool {
	if _, ok := r.index[p]; ok {
		return false
	}
	r.index[p] = struct{}{}
	r.order = append(r.order, p)
	return true
}

func (r *roster) has(p string) bool {
	_, ok := r.index[p]
	return ok
}

func (r *roster) len() int { return len(r.order) }

func (r *roster) clear() {
	r.order = nil
	clear(r.index)
}

// members returns a copy of the players in insertion order.
func (r *roster) members() []string {
	return append([]string{}, r.order...)
}
