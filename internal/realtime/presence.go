package realtime

// presenceTable tracks which users hold at least one live connection to
// a session. Counts are kept per user so that closing one of several
// tabs does not drop the user from presence; the user disappears only
// when the last connection unbinds.
//
// Not safe for concurrent use. The owning hub serializes all access
// through its run loop.
type presenceTable struct {
	conns map[string]int // user id -> live connection count
	order []string       // user ids in first-bind order
}

func newPresenceTable() *presenceTable {
	return &presenceTable{conns: make(map[string]int)}
}

// bind registers one connection for userID and reports whether the user
// was newly added to the presence set.
func (p *presenceTable) bind(userID string) bool {
	p.conns[userID]++
	if p.conns[userID] == 1 {
		p.order = append(p.order, userID)
		return true
	}
	return false
}

// unbind releases one connection for userID and reports whether the
// user left the presence set entirely.
func (p *presenceTable) unbind(userID string) bool {
	n, ok := p.conns[userID]
	if !ok {
		return false
	}
	if n > 1 {
		p.conns[userID] = n - 1
		return false
	}
	delete(p.conns, userID)
	for i, id := range p.order {
		if id == userID {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return true
}

// snapshot returns the present user ids in first-bind order.
func (p *presenceTable) snapshot() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

func (p *presenceTable) size() int {
	return len(p.conns)
}
