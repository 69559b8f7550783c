package bookingnum

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryAllocator is an in-process Allocator for tests.
type memoryAllocator struct {
	mu   sync.Mutex
	seqs map[string]int64
}

func newMemoryAllocator() *memoryAllocator {
	return &memoryAllocator{seqs: make(map[string]int64)}
}

func (a *memoryAllocator) Next(_ context.Context, day string) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seqs[day]++
	return a.seqs[day], nil
}

func TestGenerator_Format(t *testing.T) {
	clock := func() time.Time {
		return time.Date(2025, 1, 1, 9, 30, 0, 0, time.UTC)
	}

	gen := NewGenerator(newMemoryAllocator(), WithClock(clock))

	first, err := gen.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "LB202501010001", first)

	second, err := gen.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "LB202501010002", second)
}

func TestGenerator_SequenceResetsPerDay(t *testing.T) {
	day := time.Date(2025, 1, 1, 23, 59, 0, 0, time.UTC)
	gen := NewGenerator(newMemoryAllocator(), WithClock(func() time.Time { return day }))

	first, err := gen.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "LB202501010001", first)

	day = day.Add(2 * time.Minute) // past midnight
	next, err := gen.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "LB202501020001", next)
}

func TestGenerator_ConcurrentNumbersAreDistinct(t *testing.T) {
	clock := func() time.Time {
		return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	}
	gen := NewGenerator(newMemoryAllocator(), WithClock(clock))

	const workers = 50
	results := make(chan string, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := gen.Generate(context.Background())
			assert.NoError(t, err)
			results <- number
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool, workers)
	for number := range results {
		assert.False(t, seen[number], "duplicate booking number %s", number)
		seen[number] = true
	}
	assert.Len(t, seen, workers)
}
