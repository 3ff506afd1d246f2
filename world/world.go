// Package world hosts the rigid fixtures the fluid collides against, stored
// as entities so scene tooling can attach further components later.
package world

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brine/fluid"
)

// Collider is the shape component of a rigid fixture. Bounds caches the
// shape's AABB at creation time; fixtures are static.
type Collider struct {
	Shape  fluid.Shape
	Bounds r2.Box
}

// World owns the static collision scene.
type World struct {
	world     *ecs.World
	colliders *ecs.Map1[Collider]
	filter    *ecs.Filter1[Collider]
	count     int
}

// New creates an empty world.
func New() *World {
	world := ecs.NewWorld()
	return &World{
		world:     world,
		colliders: ecs.NewMap1[Collider](world),
		filter:    ecs.NewFilter1[Collider](world),
	}
}

// AddPolygon adds a static convex polygon fixture.
func (w *World) AddPolygon(verts []r2.Vec) ecs.Entity {
	shape := fluid.NewPolygon(verts)
	c := Collider{Shape: shape, Bounds: shape.AABB()}
	w.count++
	return w.colliders.NewEntity(&c)
}

// AddBox adds an axis-aligned rectangular fixture.
func (w *World) AddBox(min, max r2.Vec) ecs.Entity {
	return w.AddPolygon([]r2.Vec{
		min,
		{X: max.X, Y: min.Y},
		max,
		{X: min.X, Y: max.Y},
	})
}

// AddCircle adds a static circle fixture.
func (w *World) AddCircle(center r2.Vec, radius float64) ecs.Entity {
	shape := &fluid.Circle{Center: center, Radius: radius}
	c := Collider{Shape: shape, Bounds: shape.AABB()}
	w.count++
	return w.colliders.NewEntity(&c)
}

// Count returns the number of fixtures.
func (w *World) Count() int { return w.count }

// fixture adapts a collider to the fluid collision interface.
type fixture struct{ shape fluid.Shape }

func (f fixture) Shape() fluid.Shape { return f.shape }

// QueryAABB visits every fixture whose cached bounds overlap box. Implements
// the collision collaborator interface of the fluid package.
func (w *World) QueryAABB(box r2.Box, visit func(f fluid.Fixture) bool) {
	query := w.filter.Query()
	for query.Next() {
		c := query.Get()
		if !overlaps(c.Bounds, box) {
			continue
		}
		if !visit(fixture{shape: c.Shape}) {
			query.Close()
			return
		}
	}
}

// Each visits every fixture shape, for debug rendering.
func (w *World) Each(visit func(shape fluid.Shape) bool) {
	query := w.filter.Query()
	for query.Next() {
		if !visit(query.Get().Shape) {
			query.Close()
			return
		}
	}
}

func overlaps(a, b r2.Box) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y
}
