package service

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const quiet = 30 * time.Millisecond

func TestDebouncer_CoalescesToLastCall(t *testing.T) {
	d := NewDebouncer(quiet)
	var mu sync.Mutex
	var got []int

	for i := 1; i <= 5; i++ {
		v := i
		d.Schedule("name", func() {
			mu.Lock()
			got = append(got, v)
			mu.Unlock()
		})
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(2 * quiet)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{5}, got)
	assert.Equal(t, 0, d.Pending())
}

func TestDebouncer_KeysAreIndependent(t *testing.T) {
	d := NewDebouncer(quiet)
	var calls atomic.Int32

	d.Schedule("a:name", func() { calls.Add(1) })
	d.Schedule("a:time", func() { calls.Add(1) })
	d.Schedule("b:name", func() { calls.Add(1) })
	assert.Equal(t, 3, d.Pending())

	assert.Eventually(t, func() bool { return calls.Load() == 3 }, time.Second, 5*time.Millisecond)
}

func TestDebouncer_DoesNotFireEarly(t *testing.T) {
	d := NewDebouncer(time.Hour)
	var calls atomic.Int32
	d.Schedule("k", func() { calls.Add(1) })

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
	d.Stop()
}

func TestDebouncer_FlushRunsPendingOnce(t *testing.T) {
	d := NewDebouncer(time.Hour)
	var order []string

	d.Schedule("b", func() { order = append(order, "b") })
	d.Schedule("a", func() { order = append(order, "a1") })
	d.Schedule("a", func() { order = append(order, "a2") })

	d.Flush()
	assert.Equal(t, []string{"a2", "b"}, order)
	assert.Equal(t, 0, d.Pending())

	d.Flush()
	assert.Len(t, order, 2, "a second flush has nothing to run")
}

func TestDebouncer_StopDropsPending(t *testing.T) {
	d := NewDebouncer(quiet)
	var calls atomic.Int32
	d.Schedule("k", func() { calls.Add(1) })

	d.Stop()
	time.Sleep(3 * quiet)
	assert.Equal(t, int32(0), calls.Load())
	assert.Equal(t, 0, d.Pending())
}
