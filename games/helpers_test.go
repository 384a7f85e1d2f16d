package games

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// --- Clock ---

type fakeTimer struct {
	clock   *fakeClock
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &fakeTimer{clock: c, d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// pending returns the durations of timers that are neither stopped nor
// fired, in scheduling order.
func (c *fakeClock) pending() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []time.Duration
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			out = append(out, t.d)
		}
	}
	return out
}

// timer returns the most recently scheduled active timer with duration d.
func (c *fakeClock) timer(d time.Duration) *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := len(c.timers) - 1; i >= 0; i-- {
		t := c.timers[i]
		if t.d == d && !t.stopped && !t.fired {
			return t
		}
	}
	return nil
}

// fire runs the active timer with duration d as if it had elapsed.
func (c *fakeClock) fire(t *testing.T, d time.Duration) {
	t.Helper()

	tm := c.timer(d)
	require.NotNil(t, tm, "no pending timer of %s", d)

	c.mu.Lock()
	tm.fired = true
	c.mu.Unlock()

	tm.f()
}

// --- Outbox ---

type recorder struct {
	mu  sync.Mutex
	got []Notification
}

func (r *recorder) Send(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.got = append(r.got, n)
}

func (r *recorder) all() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Notification, len(r.got))
	copy(out, r.got)
	return out
}

func lastOf[T Notification](r *recorder) (T, bool) {
	got := r.all()
	for i := len(got) - 1; i >= 0; i-- {
		if v, ok := got[i].(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func countOf[T Notification](r *recorder) int {
	n := 0
	for _, got := range r.all() {
		if _, ok := got.(T); ok {
			n++
		}
	}
	return n
}

// --- Fixture ---

// table is a room with n seated players p1..pn named Player1..PlayerN,
// p1 being the host.
type table struct {
	reg   *Registry
	clock *fakeClock
	rules Rules
	code  string
	ids   []string
	out   map[string]*recorder
}

func sequentialCodes(codes ...string) func() string {
	var mu sync.Mutex
	i := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()

		c := codes[i%len(codes)]
		i++
		return c
	}
}

func newTable(t *testing.T, variant Variant, n int, opts ...Option) *table {
	t.Helper()

	tb := &table{
		clock: &fakeClock{},
		rules: DefaultRules(),
		out:   make(map[string]*recorder),
	}

	base := []Option{
		WithClock(tb.clock),
		WithSeed(1),
		WithCodeGenerator(sequentialCodes("ABCD", "EFGH", "IJKL")),
	}
	tb.reg = NewRegistry(append(base, opts...)...)
	tb.rules = tb.reg.rules

	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("p%d", i)
		name := fmt.Sprintf("Player%d", i)
		rec := &recorder{}
		tb.ids = append(tb.ids, id)
		tb.out[id] = rec

		if i == 1 {
			code, err := tb.reg.Create(variant, id, name, rec)
			require.NoError(t, err)
			tb.code = code
			continue
		}
		_, err := tb.reg.Join(tb.code, id, name, rec)
		require.NoError(t, err)
	}

	return tb
}

func (tb *table) room(t *testing.T) *Room {
	t.Helper()

	room, err := tb.reg.Room(tb.code)
	require.NoError(t, err)
	return room
}

// optionBy returns the anonymized index of the author's submission.
func (tb *table) optionBy(t *testing.T, authorID string) int {
	t.Helper()

	room := tb.room(t)
	room.mu.Lock()
	defer room.mu.Unlock()

	require.NotNil(t, room.jokes)
	i := room.jokes.ownIndex(authorID)
	require.GreaterOrEqual(t, i, 0, "no submission from %s", authorID)
	return i
}

// storyBy returns the id of the author's story in the current round.
func (tb *table) storyBy(t *testing.T, authorID string) int {
	t.Helper()

	room := tb.room(t)
	room.mu.Lock()
	defer room.mu.Unlock()

	require.NotNil(t, room.tales)
	s := room.tales.storyBy(authorID)
	require.NotNil(t, s, "no story from %s", authorID)
	return s.ID
}

func (tb *table) submitAll(t *testing.T) {
	t.Helper()

	for _, id := range tb.ids {
		require.NoError(t, tb.reg.SubmitAnswer(tb.code, id, "answer from "+id))
	}
}

func (tb *table) tellAll(t *testing.T) {
	t.Helper()

	for _, id := range tb.ids {
		require.NoError(t, tb.reg.SubmitStory(tb.code, id, "a perfectly true story told by "+id))
	}
}

func hostCount(players []PlayerInfo) int {
	n := 0
	for _, p := range players {
		if p.IsHost {
			n++
		}
	}
	return n
}
