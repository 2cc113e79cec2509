package stage

import "testing"

func TestBufferSwapPublishesBack(t *testing.T) {
	b := NewBuffer[int](2)
	b.Append(0, 10)
	b.Append(1, 20)
	b.Append(1, 21)

	if got := b.FrontLen(); got != 0 {
		t.Fatalf("front holds %d items before swap, want 0", got)
	}

	b.Swap()
	if got := b.FrontLen(); got != 3 {
		t.Fatalf("front holds %d items after swap, want 3", got)
	}

	var sum int
	b.EachFront(func(v *int) { sum += *v })
	if sum != 51 {
		t.Errorf("front sum = %d, want 51", sum)
	}
}

func TestBufferSwapClearsNewBack(t *testing.T) {
	b := NewBuffer[int](1)
	b.Append(0, 1)
	b.Swap()
	b.Swap()
	if got := b.FrontLen(); got != 0 {
		t.Fatalf("front holds %d items after double swap, want 0", got)
	}
	b.Append(0, 2)
	b.Swap()
	if got := b.FrontLen(); got != 1 {
		t.Fatalf("front holds %d items, want only the latest append", got)
	}
}

func TestBufferShardsStayPerWorker(t *testing.T) {
	b := NewBuffer[string](3)
	b.Append(2, "x")
	b.Swap()

	front := b.Front()
	if len(front) != 3 {
		t.Fatalf("front has %d shards, want 3", len(front))
	}
	if len(front[0]) != 0 || len(front[1]) != 0 {
		t.Error("untouched shards are not empty")
	}
	if len(front[2]) != 1 || front[2][0] != "x" {
		t.Errorf("shard 2 = %v, want [x]", front[2])
	}
}

func TestBufferMinimumOneShard(t *testing.T) {
	b := NewBuffer[int](0)
	b.Append(0, 7)
	b.Swap()
	if got := b.FrontLen(); got != 1 {
		t.Fatalf("front holds %d items, want 1", got)
	}
}
