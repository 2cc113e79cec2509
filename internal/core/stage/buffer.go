package stage

// Buffer is a double-buffered, worker-sharded stage output. A producing
// stage appends to the back shard owned by its worker during frame N;
// consumers read the front shards, which hold everything produced during
// frame N-1. Shards keep producers lock-free and the front/back split keeps
// readers race-free without copying.
type Buffer[T any] struct {
	front [][]T
	back  [][]T
}

// NewBuffer returns a buffer with one shard per worker.
func NewBuffer[T any](workers int) *Buffer[T] {
	if workers < 1 {
		workers = 1
	}
	return &Buffer[T]{
		front: make([][]T, workers),
		back:  make([][]T, workers),
	}
}

// Append adds v to the back shard owned by worker w.
func (b *Buffer[T]) Append(w int, v T) {
	b.back[w] = append(b.back[w], v)
}

// Swap publishes the back shards as the new front and clears the new back,
// retaining shard capacity across frames.
func (b *Buffer[T]) Swap() {
	b.front, b.back = b.back, b.front
	for i := range b.back {
		b.back[i] = b.back[i][:0]
	}
}

// Front returns the shards produced during the previous frame. The returned
// slices are read-only until the next swap.
func (b *Buffer[T]) Front() [][]T {
	return b.front
}

// FrontLen reports the total element count across all front shards.
func (b *Buffer[T]) FrontLen() int {
	n := 0
	for _, s := range b.front {
		n += len(s)
	}
	return n
}

// EachFront calls fn for every element produced during the previous frame,
// in shard order.
func (b *Buffer[T]) EachFront(fn func(*T)) {
	for _, s := range b.front {
		for i := range s {
			fn(&s[i])
		}
	}
}
