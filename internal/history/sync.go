package history

// Sync[A] identifies a position in a History[A] and is otherwise opaque to
// callers (spec.md §3 "Synchronization markers"). It is the only thing a
// downstream history is allowed to remember about an upstream one.
type Sync[A any] struct {
	offset int
}

// At captures the current cursor position of h.
func At[A any](h *History[A]) Sync[A] {
	return Sync[A]{offset: h.Offset()}
}

// Offset exposes the captured position for comparison against a live
// history's Offset(). This is the one place the marker stops being opaque:
// Rewind and the typer's module-closing back-reference both need it.
func (s Sync[A]) Offset() int {
	return s.offset
}

// Rewind is the single primitive gluing the pipeline's correlated
// histories together (spec.md §3). a : History[A] is already positioned
// at the point an edit invalidated — that position does not move here.
// b : History[B] carries a Sync[A] marker via proj on each element;
// Rewind retreats b alone until the marker on b's cursor-adjacent
// element points at or before a's (fixed) cursor, or b is exhausted.
func Rewind[A, B any](proj func(B) Sync[A], a *History[A], b *History[B]) {
	for {
		bLast, ok := b.Last()
		if !ok {
			b.SeekOffset(0)
			return
		}
		if proj(bLast).Offset() <= a.Offset() {
			return
		}
		b.Backward()
	}
}
