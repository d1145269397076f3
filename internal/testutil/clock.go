package testutil

import (
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// FixedClock returns the same instant until told otherwise.
type FixedClock struct {
	mu sync.Mutex
	t  time.Time
}

// NewFixedClock returns a clock frozen at t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// MockClock is a testify mock of clock.Clock. Queue readings with
// OnNow(t).Once() to get a strict sequence; an unexpected extra read fails the test.
type MockClock struct {
	mock.Mock
}

func (m *MockClock) Now() time.Time {
	args := m.Called()
	return args.Get(0).(time.Time)
}

// OnNow expects one more call to Now returning t.
func (m *MockClock) OnNow(t time.Time) *mock.Call {
	return m.On("Now").Return(t)
}
