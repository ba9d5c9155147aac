// Package scene is the entity arena shared by every simulation component.
//
// Entities are created while a session initializes and then mutated in place.
// Only goal markers and collectibles are ever removed; everything else is
// recycled by its owning effect module, so the working set never changes size
// once the first frame has run.
package scene

import (
	"github.com/go-gl/mathgl/mgl64"
)

// ID indexes an entity slot in the registry
type ID int

// Entity is the unit of simulation
type Entity struct {
	ID       ID
	Kind     Kind
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Rotation mgl64.Vec3 // euler angles, radians
	Scale    mgl64.Vec3
	Opacity  float64
	Alive    bool
	Data     Payload
}

// Span is a contiguous, half-open range of slots owned by one module
type Span struct {
	Start ID
	End   ID
}

// Len returns the number of slots in the span
func (s Span) Len() int {
	if s.End < s.Start {
		return 0
	}
	return int(s.End - s.Start)
}

// Registry owns every entity of a session
type Registry struct {
	entities []Entity
	alive    int
}

// NewRegistry creates a registry with room for capacity entities
func NewRegistry(capacity int) *Registry {
	if capacity < 0 {
		capacity = 0
	}
	return &Registry{entities: make([]Entity, 0, capacity)}
}

// Spawn adds one entity and returns its id
func (r *Registry) Spawn(kind Kind, pos mgl64.Vec3, data Payload) ID {
	id := ID(len(r.entities))
	r.entities = append(r.entities, Entity{
		ID:       id,
		Kind:     kind,
		Position: pos,
		Scale:    mgl64.Vec3{1, 1, 1},
		Opacity:  1,
		Alive:    true,
		Data:     data,
	})
	r.alive++
	return id
}

// SpawnN adds n entities of one kind in a contiguous block. build is called
// once per entity with its index inside the block.
func (r *Registry) SpawnN(kind Kind, n int, build func(i int) (mgl64.Vec3, Payload)) Span {
	start := ID(len(r.entities))
	for i := 0; i < n; i++ {
		pos, data := build(i)
		r.Spawn(kind, pos, data)
	}
	return Span{Start: start, End: ID(len(r.entities))}
}

// Get returns the live entity with the given id, or nil
func (r *Registry) Get(id ID) *Entity {
	if id < 0 || int(id) >= len(r.entities) {
		return nil
	}
	e := &r.entities[id]
	if !e.Alive {
		return nil
	}
	return e
}

// Remove permanently retires a consumed goal marker or collectible.
// Other kinds are recycled by their owners and cannot be removed.
func (r *Registry) Remove(id ID) bool {
	e := r.Get(id)
	if e == nil || !e.Kind.Consumable() {
		return false
	}
	e.Alive = false
	e.Data = nil
	r.alive--
	return true
}

// View returns the slots covered by s, clipped to the registry bounds.
// Callers must skip entries whose Alive flag is false.
func (r *Registry) View(s Span) []Entity {
	start, end := int(s.Start), int(s.End)
	if start < 0 {
		start = 0
	}
	if end > len(r.entities) {
		end = len(r.entities)
	}
	if start >= end {
		return nil
	}
	return r.entities[start:end]
}

// Each calls fn for every live entity in slot order
func (r *Registry) Each(fn func(e *Entity)) {
	for i := range r.entities {
		if r.entities[i].Alive {
			fn(&r.entities[i])
		}
	}
}

// Nearest returns the closest live entity of kind within radius of pos, or nil
func (r *Registry) Nearest(kind Kind, pos mgl64.Vec3, radius float64) *Entity {
	var best *Entity
	bestSq := radius * radius
	for i := range r.entities {
		e := &r.entities[i]
		if !e.Alive || e.Kind != kind {
			continue
		}
		if d := e.Position.Sub(pos); d.Dot(d) <= bestSq {
			bestSq = d.Dot(d)
			best = e
		}
	}
	return best
}

// Count returns the number of live entities of kind
func (r *Registry) Count(kind Kind) int {
	n := 0
	for i := range r.entities {
		if r.entities[i].Alive && r.entities[i].Kind == kind {
			n++
		}
	}
	return n
}

// Len returns the number of slots, live or retired
func (r *Registry) Len() int {
	return len(r.entities)
}

// Alive returns the number of live entities
func (r *Registry) Alive() int {
	return r.alive
}
