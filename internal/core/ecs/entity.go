package ecs

import "fmt"

// EntityID encodes a 32-bit slot index in the lower bits and a 32-bit generation
// in the upper bits. Generation increments on destroy so stale references held by
// orders (goals, resource owners) stop resolving once the referent is gone.
//
// Generation starts at 1, which keeps the zero EntityID free to mean "no entity".
type EntityID uint64

// NoEntity is the empty reference.
const NoEntity EntityID = 0

func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == NoEntity }

// String renders the id the way saved order descriptors reference units.
func (id EntityID) String() string {
	if id.IsZero() {
		return "U----"
	}
	return fmt.Sprintf("U%04X", id.Index())
}

// EntityPool manages entity allocation with generational indices and a free list.
// Freed indices are reused LIFO, which is deterministic for a fixed command stream.
type EntityPool struct {
	generations []uint32
	freeList    []uint32
	nextIndex   uint32
}

func NewEntityPool() *EntityPool {
	return &EntityPool{
		generations: make([]uint32, 0, 1024),
		freeList:    make([]uint32, 0, 256),
	}
}

func (p *EntityPool) Create() EntityID {
	if len(p.freeList) > 0 {
		idx := p.freeList[len(p.freeList)-1]
		p.freeList = p.freeList[:len(p.freeList)-1]
		return NewEntityID(idx, p.generations[idx])
	}
	idx := p.nextIndex
	p.nextIndex++
	if int(idx) >= len(p.generations) {
		p.generations = append(p.generations, 1)
	}
	return NewEntityID(idx, p.generations[idx])
}

func (p *EntityPool) Alive(id EntityID) bool {
	if id.IsZero() {
		return false
	}
	idx := id.Index()
	if idx >= p.nextIndex {
		return false
	}
	return p.generations[idx] == id.Generation()
}

// Lookup returns the live id currently occupying a slot index.
func (p *EntityPool) Lookup(index uint32) (EntityID, bool) {
	if index >= p.nextIndex {
		return NoEntity, false
	}
	for _, free := range p.freeList {
		if free == index {
			return NoEntity, false
		}
	}
	return NewEntityID(index, p.generations[index]), true
}

func (p *EntityPool) Destroy(id EntityID) {
	idx := id.Index()
	if idx >= p.nextIndex {
		return
	}
	if p.generations[idx] != id.Generation() {
		return // already destroyed (stale reference)
	}
	p.generations[idx]++
	p.freeList = append(p.freeList, idx)
}
