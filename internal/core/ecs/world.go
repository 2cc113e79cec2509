package ecs

import "sync"

// World is the top-level ECS container: the entity pool, the component
// registry, and the deferred-mutation queues drained at the frame barrier.
// Structural changes (create, destroy, component add/remove) never happen
// while stages are running; stages queue them and the barrier applies them.
type World struct {
	pool     *EntityPool
	registry *Registry

	mu           sync.Mutex
	destroyQueue []EntityID
	deferred     []func()
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		destroyQueue: make([]EntityID, 0, 256),
		deferred:     make([]func(), 0, 64),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

// CreateEntity allocates an entity immediately. Only barrier-side code
// (wave spawns, deferred closures) may call it; stages must Defer instead.
func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Live is the number of currently allocated entities.
func (w *World) Live() int {
	return w.pool.Live()
}

// MarkForDestruction queues an entity for the next barrier drain.
// Safe to call from parallel stage workers. Stale or duplicate ids are
// harmless: Destroy is generation-checked.
func (w *World) MarkForDestruction(id EntityID) {
	w.mu.Lock()
	w.destroyQueue = append(w.destroyQueue, id)
	w.mu.Unlock()
}

// Defer queues a structural mutation (entity creation, component add) to run
// at the frame barrier. Safe to call from parallel stage workers.
func (w *World) Defer(fn func()) {
	w.mu.Lock()
	w.deferred = append(w.deferred, fn)
	w.mu.Unlock()
}

// ApplyDeferred drains the queues: destroys first, then deferred creations,
// so a creation queued this frame observes the post-destroy population.
// Runs single-threaded at the frame barrier.
func (w *World) ApplyDeferred() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, id := range w.destroyQueue {
		w.registry.RemoveAll(id)
		w.pool.Destroy(id)
	}
	w.destroyQueue = w.destroyQueue[:0]
	for _, fn := range w.deferred {
		fn()
	}
	w.deferred = w.deferred[:0]
}
