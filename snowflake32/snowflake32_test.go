package snowflake32

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnowflake_NextVal(t *testing.T) {
	s := NewSnowflake(1, 5)
	fixed := time.Date(2024, 1, 1, 1, 2, 3, 0, time.Local)
	s.now = func() time.Time { return fixed }

	first := s.NextVal()
	second := s.NextVal()
	t.Logf("%d %d %s", first, second, s)

	assert.Equal(t, int32(3723), first>>secondsShift)
	assert.Equal(t, int32(1), first>>datacenterShift&datacenterMask)
	assert.Equal(t, int32(5), first>>workerShift&workerMask)
	assert.Equal(t, int32(0), first&sequenceMask)
	assert.Equal(t, first+1, second)
}

func TestSnowflake_Unique(t *testing.T) {
	s := NewSnowflake(3, 7)
	var mu sync.Mutex
	seen := make(map[int32]struct{})
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				v := s.NextVal()
				mu.Lock()
				seen[v] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 400)
}

func TestNewSnowflake_Masks(t *testing.T) {
	s := NewSnowflake(6, 9)
	assert.Equal(t, int32(2), s.datacenter)
	assert.Equal(t, int32(1), s.worker)
}

func BenchmarkSnowflake_NextVal(b *testing.B) {
	s := NewSnowflake(1, 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.NextVal()
	}
}

func TestSnowflake_NextValAcrossMidnight(t *testing.T) {
	s := NewSnowflake(0, 0)
	lastSecond := time.Date(2024, 1, 1, 23, 59, 59, 0, time.Local)
	midnight := time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local)
	calls := 0
	s.now = func() time.Time {
		calls++
		if calls <= 513 {
			return lastSecond
		}
		return midnight
	}

	done := make(chan []int32)
	go func() {
		vals := make([]int32, 0, 514)
		for i := 0; i < 514; i++ {
			vals = append(vals, s.NextVal())
		}
		done <- vals
	}()

	select {
	case vals := <-done:
		assert.Equal(t, int32(86399), vals[511]>>secondsShift)
		assert.Equal(t, sequenceMask, vals[511]&sequenceMask)
		assert.Equal(t, int32(0), vals[512]>>secondsShift)
		assert.Equal(t, int32(0), vals[512]&sequenceMask)
		assert.Equal(t, int32(1), vals[513]&sequenceMask)
	case <-time.After(5 * time.Second):
		t.Fatalf("NextVal blocked at 23:59:59, clock calls=%d", calls)
	}
}
