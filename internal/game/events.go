package game

// MoveEvent describes a committed position or heading change.
type MoveEvent struct {
	Kind    Kind
	X       float64
	Y       float64
	Heading float64
}

type moveListener struct {
	fn     func(MoveEvent)
	active bool
}

type moveListeners struct {
	list []*moveListener
}

func (m *moveListeners) add(fn func(MoveEvent)) func() {
	l := &moveListener{fn: fn, active: true}
	m.list = append(m.list, l)
	return func() {
		if !l.active {
			return
		}
		l.active = false
		for i, x := range m.list {
			if x == l {
				m.list = append(m.list[:i:i], m.list[i+1:]...)
				break
			}
		}
	}
}

func (m *moveListeners) emit(ev MoveEvent) {
	// a listener may unsubscribe while we iterate
	snapshot := append([]*moveListener(nil), m.list...)
	for _, l := range snapshot {
		if l.active {
			l.fn(ev)
		}
	}
}

// Status is the board's life and win state after a status check.
type Status struct {
	Lives   int
	Winner  bool
	Outcome Outcome
}
