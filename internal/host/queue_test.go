package host

import (
	"context"
	"testing"
	"time"
)

func TestQueueFlushOrder(t *testing.T) {
	q := NewQueue()
	var got []int
	for i := 1; i <= 3; i++ {
		i := i
		q.RequestFrame(func(time.Time) { got = append(got, i) })
	}

	if ran := q.Flush(time.Now()); ran != 3 {
		t.Fatalf("expected 3 callbacks, got %d", ran)
	}
	for i, v := range got {
		if v != i+1 {
			t.Errorf("position %d: expected %d, got %d", i, i+1, v)
		}
	}
	if q.Pending() != 0 {
		t.Errorf("expected empty queue, got %d pending", q.Pending())
	}
}

func TestQueueRequestDuringFlushWaits(t *testing.T) {
	q := NewQueue()
	calls := 0
	var loop func(time.Time)
	loop = func(time.Time) {
		calls++
		q.RequestFrame(loop)
	}
	q.RequestFrame(loop)

	q.Flush(time.Now())
	if calls != 1 {
		t.Fatalf("expected 1 call after first flush, got %d", calls)
	}
	if q.Pending() != 1 {
		t.Errorf("expected rescheduled callback pending, got %d", q.Pending())
	}
	q.Flush(time.Now())
	if calls != 2 {
		t.Errorf("expected 2 calls after second flush, got %d", calls)
	}
}

func TestQueueCancel(t *testing.T) {
	q := NewQueue()
	ran := false
	id := q.RequestFrame(func(time.Time) { ran = true })
	if id == 0 {
		t.Fatal("expected non-zero handle")
	}
	q.CancelFrame(id)
	q.CancelFrame(id)

	if n := q.Flush(time.Now()); n != 0 || ran {
		t.Errorf("cancelled callback ran (n=%d)", n)
	}
	if q.Cancels() != 2 {
		t.Errorf("expected 2 cancels, got %d", q.Cancels())
	}
}

func TestQueueCancelWithinBatch(t *testing.T) {
	q := NewQueue()
	var second uint64
	secondRan := false
	q.RequestFrame(func(time.Time) { q.CancelFrame(second) })
	second = q.RequestFrame(func(time.Time) { secondRan = true })

	if n := q.Flush(time.Now()); n != 1 {
		t.Errorf("expected 1 callback to run, got %d", n)
	}
	if secondRan {
		t.Error("callback cancelled mid-batch still ran")
	}
}

func TestDrive(t *testing.T) {
	q := NewQueue()
	var stamps []time.Time
	var loop func(time.Time)
	loop = func(now time.Time) {
		stamps = append(stamps, now)
		if len(stamps) < 5 {
			q.RequestFrame(loop)
		}
	}
	q.RequestFrame(loop)

	start := time.Unix(0, 0)
	n := Drive(q, 10, start, 16*time.Millisecond)
	if n != 5 {
		t.Fatalf("expected 5 frames before the loop stopped, got %d", n)
	}
	if got := stamps[4].Sub(start); got != 64*time.Millisecond {
		t.Errorf("expected fifth frame at 64ms, got %v", got)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	q := NewQueue()
	frames := 0
	var loop func(time.Time)
	loop = func(time.Time) {
		frames++
		q.RequestFrame(loop)
	}
	q.RequestFrame(loop)

	resize := make(chan func(), 1)
	resized := false
	resize <- func() { resized = true }

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := Run(ctx, q, 120, resize); err != context.DeadlineExceeded {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if frames == 0 {
		t.Error("expected at least one frame")
	}
	if !resized {
		t.Error("expected queued resize to be applied")
	}
}
