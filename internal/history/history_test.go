package history

import "testing"

func TestInsertBackwardForward(t *testing.T) {
	h := New[int]()
	h.Insert(1)
	h.Insert(2)
	h.Insert(3)

	x, ok := h.Backward()
	if !ok || x != 3 {
		t.Fatalf("Backward() = %v, %v, want 3, true", x, ok)
	}
	if h.Offset() != 2 {
		t.Fatalf("Offset() = %d, want 2", h.Offset())
	}
	y, ok := h.Forward()
	if !ok || y != 3 {
		t.Fatalf("Forward() = %v, %v, want 3, true", y, ok)
	}
	if h.Offset() != 3 {
		t.Fatalf("Offset() = %d, want 3", h.Offset())
	}
}

func TestCutoffDiscardsFuture(t *testing.T) {
	h := New[int]()
	for _, v := range []int{1, 2, 3, 4} {
		h.Insert(v)
	}
	h.SeekOffset(2)
	h.Cutoff()
	if h.Len() != 2 {
		t.Fatalf("Len() after cutoff = %d, want 2", h.Len())
	}
	h.Insert(9)
	if got, _ := h.At(2); got != 9 {
		t.Fatalf("At(2) = %d, want 9", got)
	}
}

func TestSeekOffsetClamps(t *testing.T) {
	h := New[int]()
	h.Insert(1)
	h.Insert(2)
	h.SeekOffset(-5)
	if h.Offset() != 0 {
		t.Fatalf("SeekOffset(-5) -> Offset() = %d, want 0", h.Offset())
	}
	h.SeekOffset(100)
	if h.Offset() != 2 {
		t.Fatalf("SeekOffset(100) -> Offset() = %d, want 2", h.Offset())
	}
}

func TestSeekMonotonePredicate(t *testing.T) {
	h := New[int]()
	for _, v := range []int{0, 10, 20, 30, 40} {
		h.Insert(v)
	}
	h.SeekOffset(0)
	// cmp positive while value < 25, negative once >= 25: boundary at 20|30.
	h.Seek(func(v int) int {
		if v < 25 {
			return 1
		}
		return -1
	})
	prev, hasPrev := h.Last()
	next, hasNext := h.Next()
	if !hasPrev || prev != 20 {
		t.Fatalf("prev = %v, %v, want 20, true", prev, hasPrev)
	}
	if !hasNext || next != 30 {
		t.Fatalf("next = %v, %v, want 30, true", next, hasNext)
	}
}

func TestSeekSaturatesAtEnds(t *testing.T) {
	h := New[int]()
	for _, v := range []int{1, 2, 3} {
		h.Insert(v)
	}
	h.SeekOffset(1)
	// Non-monotone predicate that always wants to go forward: must saturate
	// at the end rather than loop forever.
	h.Seek(func(int) int { return 1 })
	if h.Offset() != 3 {
		t.Fatalf("Offset() = %d, want 3 (saturated at end)", h.Offset())
	}
	h.SeekOffset(1)
	h.Seek(func(int) int { return -1 })
	if h.Offset() != 0 {
		t.Fatalf("Offset() = %d, want 0 (saturated at start)", h.Offset())
	}
}

func TestRewindFindsCommonAncestor(t *testing.T) {
	tokens := New[int]()
	for i := 0; i < 10; i++ {
		tokens.Insert(i)
	}

	type chunk struct {
		sync Sync[int]
	}
	chunks := New[chunk]()
	for i := 1; i <= 10; i += 2 {
		tokens.SeekOffset(i)
		chunks.Insert(chunk{sync: At(tokens)})
	}
	tokens.SeekOffset(10)

	// Simulate an edit at token offset 5: tokens cursor seeks there first.
	tokens.SeekOffset(5)

	Rewind(func(c chunk) Sync[int] { return c.sync }, tokens, chunks)

	if chunks.Offset() > 3 {
		t.Fatalf("chunks.Offset() = %d, expected to have rewound past the edit point", chunks.Offset())
	}
	if last, ok := chunks.Last(); ok && last.sync.Offset() > tokens.Offset() {
		t.Fatalf("rewound chunk sync %d exceeds token cursor %d", last.sync.Offset(), tokens.Offset())
	}
}

func TestRewindNoMeetingPointLandsAtOrigin(t *testing.T) {
	tokens := New[int]()
	tokens.Insert(100)
	tokens.SeekOffset(0)

	type chunk struct{ sync Sync[int] }
	chunks := New[chunk]()
	tokens.SeekOffset(1)
	chunks.Insert(chunk{sync: At(tokens)})
	tokens.SeekOffset(0)

	Rewind(func(c chunk) Sync[int] { return c.sync }, tokens, chunks)

	if tokens.Offset() != 0 || chunks.Offset() != 0 {
		t.Fatalf("expected both histories at origin, got tokens=%d chunks=%d", tokens.Offset(), chunks.Offset())
	}
}
