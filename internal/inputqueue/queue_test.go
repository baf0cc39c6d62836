package inputqueue

import "testing"

func TestPushDropsOldestOnOverflow(t *testing.T) {
	q := New(3)
	q.Push(Input{SeqNum: 1})
	q.Push(Input{SeqNum: 2})
	q.Push(Input{SeqNum: 3})
	q.Push(Input{SeqNum: 4})

	got := q.Drain()
	if len(got) != 3 {
		t.Fatalf("expected 3 buffered inputs, got %d", len(got))
	}
	if got[0].SeqNum != 2 {
		t.Fatalf("expected oldest entry dropped, first remaining seq=%d", got[0].SeqNum)
	}
	if q.Dropped() != 1 {
		t.Fatalf("expected 1 drop recorded, got %d", q.Dropped())
	}
}

func TestDrainEmptiesQueue(t *testing.T) {
	q := New(5)
	q.Push(Input{SeqNum: 1})
	q.Push(Input{SeqNum: 2})

	first := q.Drain()
	if len(first) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(first))
	}
	second := q.Drain()
	if len(second) != 0 {
		t.Fatalf("expected empty drain after previous drain, got %d", len(second))
	}
}

func TestLatestDoesNotConsume(t *testing.T) {
	q := New(5)
	q.Push(Input{SeqNum: 1})
	q.Push(Input{SeqNum: 2})

	latest, ok := q.Latest()
	if !ok || latest.SeqNum != 2 {
		t.Fatalf("expected latest seq 2, got %+v ok=%v", latest, ok)
	}
	if q.Len() != 2 {
		t.Fatalf("expected Latest to leave queue intact, len=%d", q.Len())
	}
}
