package app

import (
	"testing"
	"time"
)

func TestDropQueue_CapacityNeverExceeded(t *testing.T) {
	q := newDropQueue[int](2)
	for i := 0; i < 20; i++ {
		q.Push(i)
		if q.Len() > q.Cap() {
			t.Fatalf("queue length %d exceeds capacity %d", q.Len(), q.Cap())
		}
	}
}

func TestDropQueue_DropsOldest(t *testing.T) {
	q := newDropQueue[int](2)

	if _, dropped := q.Push(1); dropped {
		t.Error("push into an empty queue reported a drop")
	}
	q.Push(2)

	evicted, dropped := q.Push(3)
	if !dropped {
		t.Fatal("push into a full queue did not drop")
	}
	if evicted != 1 {
		t.Errorf("evicted %d, want the oldest entry 1", evicted)
	}

	// Remaining order is oldest-first with the newest always present.
	first, _ := q.TryPop()
	second, _ := q.TryPop()
	if first != 2 || second != 3 {
		t.Errorf("drained (%d,%d), want (2,3)", first, second)
	}
}

func TestDropQueue_NewestAlwaysPresentUnderOverflow(t *testing.T) {
	q := newDropQueue[int](2)
	for i := 0; i < 100; i++ {
		q.Push(i)
	}
	var last int
	for {
		v, ok := q.TryPop()
		if !ok {
			break
		}
		last = v
	}
	if last != 99 {
		t.Errorf("newest item after overflow = %d, want 99", last)
	}
}

func TestDropQueue_PopTimesOut(t *testing.T) {
	q := newDropQueue[int](2)
	start := time.Now()
	_, ok := q.Pop(20 * time.Millisecond)
	if ok {
		t.Fatal("Pop on an empty queue returned an item")
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Error("Pop returned before the timeout elapsed")
	}
}

func TestDropQueue_Drain(t *testing.T) {
	q := newDropQueue[int](10)
	for i := 0; i < 5; i++ {
		q.Push(i)
	}
	var released []int
	q.Drain(func(v int) { released = append(released, v) })
	if len(released) != 5 {
		t.Errorf("drained %d items, want 5", len(released))
	}
	if q.Len() != 0 {
		t.Errorf("queue not empty after Drain: %d", q.Len())
	}
}
