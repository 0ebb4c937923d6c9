// Package scene holds the entities a facet renderer draws: the world that
// owns them, their placement in world space, and the generation counters
// renderers use to decide whether a frame is stale.
package scene

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/taigrr/facet/pkg/models"
	"github.com/taigrr/facet/pkg/shapes"
)

// Marker is something placed in the world that is not a rendered object
// but may be drawn as an icon, such as a camera or a light.
type Marker interface {
	MarkerEntity() *Entity
	// Icon returns the model-space mesh drawn for the marker, or nil.
	Icon() *models.Structure
}

// World owns the entity ID allocator, the object and marker collections,
// and the frame guard that keeps mutations out of in-flight frames.
type World struct {
	nextID atomic.Uint64

	// frame is read-held for the duration of every frame and write-held by
	// every entity mutation.
	frame sync.RWMutex

	mu      sync.RWMutex
	objects []*Object
	markers []Marker

	// changes counts every mutation of the world or anything in it.
	changes atomic.Uint64
}

// NewWorld returns an empty world.
func NewWorld() *World {
	return &World{}
}

// NextID returns a fresh identifier, unique within this world.
func (w *World) NextID() uint64 {
	return w.nextID.Add(1)
}

// NewEntity creates an entity at the origin with the default orientation
// and unit scaling. It is not added to any collection.
func (w *World) NewEntity(name string) *Entity {
	return newEntity(w, w.NextID(), name)
}

// NewObject creates an object for mesh and adds it to the world.
func (w *World) NewObject(name string, mesh shapes.Meshed) *Object {
	o := newObject(w.NewEntity(name), mesh)
	w.AddObject(o)
	return o
}

// BeginFrame marks the start of a frame. Any number of frames may be in
// flight at once; entity mutations wait until all of them end. The returned
// function ends the frame and must be called exactly once.
func (w *World) BeginFrame() (end func()) {
	w.frame.RLock()
	var once sync.Once
	return func() { once.Do(w.frame.RUnlock) }
}

func (w *World) lockMutation() (unlock func()) {
	w.frame.Lock()
	return w.frame.Unlock
}

// AddObject adds o to the world. Adding the same object twice is a no-op.
func (w *World) AddObject(o *Object) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if slices.Contains(w.objects, o) {
		return
	}
	w.objects = append(w.objects, o)
	w.changes.Add(1)
}

// RemoveObject removes o and reports whether it was present.
func (w *World) RemoveObject(o *Object) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := slices.Index(w.objects, o)
	if i < 0 {
		return false
	}
	w.objects = slices.Delete(w.objects, i, i+1)
	w.changes.Add(1)
	return true
}

// Objects returns a snapshot of the world's objects in insertion order.
func (w *World) Objects() []*Object {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.objects)
}

// AddMarker registers m so other renderers can draw its icon.
func (w *World) AddMarker(m Marker) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if slices.Contains(w.markers, m) {
		return
	}
	w.markers = append(w.markers, m)
	w.changes.Add(1)
}

// RemoveMarker unregisters m and reports whether it was present.
func (w *World) RemoveMarker(m Marker) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := slices.Index(w.markers, m)
	if i < 0 {
		return false
	}
	w.markers = slices.Delete(w.markers, i, i+1)
	w.changes.Add(1)
	return true
}

// Markers returns a snapshot of the registered markers.
func (w *World) Markers() []Marker {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.markers)
}

// Generation returns a counter that increases whenever an entity of the
// world is mutated, an object's mesh is regenerated, or an object or marker
// is added or removed. It never decreases, so a value a renderer has drawn
// is never seen again after a change.
func (w *World) Generation() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, o := range w.objects {
		if o.syncMesh() {
			w.changes.Add(1)
		}
	}
	return w.changes.Load()
}
