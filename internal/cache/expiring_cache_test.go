package cache

import (
	"sync"
	"testing"
	"time"

	"node-cache-api/internal/testutil"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2000, 1, 1, 1, 1, 1, 0, time.UTC)

func TestGetOrAdd_SameIDTwice_SameEntry(t *testing.T) {
	c := NewExpiringCache(testutil.NewFixedClock(t0), Options{})

	first := c.GetOrAdd(1)
	second := c.GetOrAdd(1)

	require.Same(t, first, second)
}

func TestGetOrAdd_SecondCallFourMinutesLater_SameEntry(t *testing.T) {
	clk := &testutil.MockClock{}
	clk.OnNow(t0).Once()
	clk.OnNow(t0.Add(4 * time.Minute)).Once()
	c := NewExpiringCache(clk, Options{})

	first := c.GetOrAdd(1)
	second := c.GetOrAdd(1)

	require.Same(t, first, second)
	clk.AssertExpectations(t)
}

func TestGetOrAdd_SecondCallSixMinutesLater_NewEntry(t *testing.T) {
	clk := &testutil.MockClock{}
	clk.OnNow(t0).Once()
	clk.OnNow(t0.Add(6 * time.Minute)).Once()
	c := NewExpiringCache(clk, Options{})

	first := c.GetOrAdd(1)
	second := c.GetOrAdd(1)

	require.NotSame(t, first, second)
	require.Equal(t, t0.Add(6*time.Minute).Add(TTL), second.ExpiresAt)
	require.Equal(t, 1, c.Len())
	clk.AssertExpectations(t)
}

func TestGetOrAdd_ExactlyAtExpiry_NewEntry(t *testing.T) {
	clk := testutil.NewFixedClock(t0)
	c := NewExpiringCache(clk, Options{})

	first := c.GetOrAdd(1)
	clk.Set(first.ExpiresAt)
	second := c.GetOrAdd(1)

	require.NotSame(t, first, second)
}

func TestGetOrAdd_JustBeforeExpiry_SameEntry(t *testing.T) {
	clk := testutil.NewFixedClock(t0)
	c := NewExpiringCache(clk, Options{})

	first := c.GetOrAdd(1)
	clk.Set(first.ExpiresAt.Add(-time.Nanosecond))

	require.Same(t, first, c.GetOrAdd(1))
}

func TestGetOrAdd_DifferentIDs_DifferentEntries(t *testing.T) {
	c := NewExpiringCache(testutil.NewFixedClock(t0), Options{})

	one := c.GetOrAdd(1)
	two := c.GetOrAdd(2)

	require.NotSame(t, one, two)
	require.NotEqual(t, one.ID, two.ID)
	require.Equal(t, 2, c.Len())
}

func TestGetOrAdd_AfterRemove_NewEntry(t *testing.T) {
	c := NewExpiringCache(testutil.NewFixedClock(t0), Options{})

	first := c.GetOrAdd(1)
	c.Remove(1)
	second := c.GetOrAdd(1)

	require.NotSame(t, first, second)
	// same instant, so the contents match even though the entry is new
	require.Equal(t, *first, *second)
}

func TestRemove_AbsentKey_NoOp(t *testing.T) {
	c := NewExpiringCache(testutil.NewFixedClock(t0), Options{})
	kept := c.GetOrAdd(2)

	c.Remove(1)

	require.Equal(t, 1, c.Len())
	require.Same(t, kept, c.GetOrAdd(2))
}

func TestDelete_ReportsPresence(t *testing.T) {
	c := NewExpiringCache(testutil.NewFixedClock(t0), Options{})
	_ = c.GetOrAdd(4)

	require.True(t, c.Delete(4))
	require.False(t, c.Delete(4))
	require.False(t, c.Delete(5))
	require.Zero(t, c.Len())
}

func TestGetOrAdd_EntryContent(t *testing.T) {
	c := NewExpiringCache(testutil.NewFixedClock(t0), Options{})

	e := c.GetOrAdd(7)

	require.Equal(t, 7, e.ID)
	require.Equal(t, t0.Add(5*time.Minute), e.ExpiresAt)
}

func TestGetOrAdd_NegativeAndZeroIDs(t *testing.T) {
	c := NewExpiringCache(testutil.NewFixedClock(t0), Options{})

	require.Equal(t, 0, c.GetOrAdd(0).ID)
	require.Equal(t, -42, c.GetOrAdd(-42).ID)
}

func TestFetch_ReportsCreation(t *testing.T) {
	clk := testutil.NewFixedClock(t0)
	c := NewExpiringCache(clk, Options{})

	_, created := c.Fetch(3)
	require.True(t, created)
	_, created = c.Fetch(3)
	require.False(t, created)

	clk.Advance(TTL)
	_, created = c.Fetch(3)
	require.True(t, created)
}

func TestExpiringCache_ConcurrencySafe(t *testing.T) {
	c := NewExpiringCache(testutil.NewFixedClock(t0), Options{ConcurrencySafe: true})
	keys := 50
	rounds := 100

	var wg sync.WaitGroup
	for i := 0; i < keys; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				_ = c.GetOrAdd(i)
				if r%10 == 0 {
					c.Remove(i)
				}
			}
		}()
	}
	wg.Wait()

	for i := 0; i < keys; i++ {
		require.Same(t, c.GetOrAdd(i), c.GetOrAdd(i))
	}
	require.Equal(t, keys, c.Len())
}
