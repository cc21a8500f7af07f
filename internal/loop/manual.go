package loop

import "time"

// Manual is a Scheduler driven by explicit Advance calls instead of wall time.
// Tasks due at the same instant run in the order they were started.
type Manual struct {
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	period    time.Duration
	next      time.Duration
	seq       int
	fn        func()
	cancelled bool
}

// NewManual creates a Manual scheduler at time zero.
func NewManual() *Manual {
	return &Manual{}
}

// Every implements Scheduler. The first tick is due one period from now.
func (m *Manual) Every(period time.Duration, fn func()) Handle {
	if period <= 0 {
		period = time.Millisecond
	}
	m.seq++
	t := &manualTask{
		period: period,
		next:   m.now + period,
		seq:    m.seq,
		fn:     fn,
	}
	m.tasks = append(m.tasks, t)
	return t
}

// Now returns the elapsed virtual time.
func (m *Manual) Now() time.Duration {
	return m.now
}

// Active returns the number of tasks that have not been cancelled.
func (m *Manual) Active() int {
	n := 0
	for _, t := range m.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Advance moves virtual time forward by d, running every tick that falls due.
func (m *Manual) Advance(d time.Duration) {
	end := m.now + d
	for {
		t := m.nextDue(end)
		if t == nil {
			break
		}
		m.now = t.next
		t.next += t.period
		t.fn()
	}
	m.now = end
	m.prune()
}

// Ticks advances by n periods of p.
func (m *Manual) Ticks(n int, p time.Duration) {
	for i := 0; i < n; i++ {
		m.Advance(p)
	}
}

func (m *Manual) nextDue(end time.Duration) *manualTask {
	var best *manualTask
	for _, t := range m.tasks {
		if t.cancelled || t.next > end {
			continue
		}
		if best == nil || t.next < best.next || (t.next == best.next && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (m *Manual) prune() {
	live := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	m.tasks = live
}

func (t *manualTask) Cancel() {
	t.cancelled = true
}
