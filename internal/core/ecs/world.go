package ecs

// World is the top-level ECS container. It owns the entity pool, the component
// registry, the ordered live-entity table and a deferred destruction queue
// flushed by CleanupSystem each cycle.
//
// The live table keeps creation order. Every peer of a lockstep session walks it
// in the same order, so removal preserves the relative order of survivors.
type World struct {
	pool         *EntityPool
	registry     *Registry
	live         []EntityID
	destroyQueue []EntityID
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		live:         make([]EntityID, 0, 256),
		destroyQueue: make([]EntityID, 0, 64),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() EntityID {
	id := w.pool.Create()
	w.live = append(w.live, id)
	return id
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Live returns a copy of the live table in creation order. Destroyed
// entities drop out without reordering the rest; a reused slot goes to the end.
func (w *World) Live() []EntityID {
	out := make([]EntityID, len(w.live))
	copy(out, w.live)
	return out
}

// LiveCount returns the number of entities in the live table.
func (w *World) LiveCount() int { return len(w.live) }

// MarkForDestruction queues an entity for end-of-cycle cleanup.
// Queuing the same id twice is harmless.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// Pending returns the number of entities waiting for destruction.
func (w *World) Pending() int { return len(w.destroyQueue) }

// FlushDestroyQueue destroys all queued entities and clears their components.
// Called by CleanupSystem at the end of each cycle.
func (w *World) FlushDestroyQueue() {
	if len(w.destroyQueue) == 0 {
		return
	}
	for _, id := range w.destroyQueue {
		if !w.pool.Alive(id) {
			continue
		}
		w.registry.RemoveAll(id)
		w.pool.Destroy(id)
		w.unlink(id)
	}
	w.destroyQueue = w.destroyQueue[:0]
}

func (w *World) unlink(id EntityID) {
	for i, v := range w.live {
		if v == id {
			w.live = append(w.live[:i], w.live[i+1:]...)
			return
		}
	}
}
