package fluid

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Shape is the closed set of collision geometries the resolver understands.
// Shapes are supplied by an external world in world space; the fluid core
// never mutates them.
type Shape interface {
	Contains(p r2.Vec) bool
	AABB() r2.Box
	isShape()
}

// Polygon is a convex polygon. Normals[i] is the outward unit normal of the
// edge from Verts[i] to Verts[(i+1)%len].
type Polygon struct {
	Verts   []r2.Vec
	Normals []r2.Vec
}

// NewPolygon builds a convex polygon from vertices, computing outward edge
// normals. Winding order does not matter: normals are oriented away from the
// centroid.
func NewPolygon(verts []r2.Vec) *Polygon {
	n := len(verts)
	var centroid r2.Vec
	for _, v := range verts {
		centroid = r2.Add(centroid, v)
	}
	centroid = r2.Scale(1/float64(n), centroid)

	normals := make([]r2.Vec, n)
	for i := range verts {
		e := r2.Sub(verts[(i+1)%n], verts[i])
		norm := r2.Unit(r2.Vec{X: e.Y, Y: -e.X})
		if r2.Dot(norm, r2.Sub(centroid, verts[i])) > 0 {
			norm = r2.Scale(-1, norm)
		}
		normals[i] = norm
	}
	return &Polygon{Verts: verts, Normals: normals}
}

// Contains reports whether pt lies inside the polygon.
func (p *Polygon) Contains(pt r2.Vec) bool {
	for i, v := range p.Verts {
		if r2.Dot(r2.Sub(pt, v), p.Normals[i]) > 0 {
			return false
		}
	}
	return true
}

// AABB returns the polygon's bounding box.
func (p *Polygon) AABB() r2.Box {
	box := r2.Box{
		Min: r2.Vec{X: math.Inf(1), Y: math.Inf(1)},
		Max: r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for _, v := range p.Verts {
		box.Min.X = math.Min(box.Min.X, v.X)
		box.Min.Y = math.Min(box.Min.Y, v.Y)
		box.Max.X = math.Max(box.Max.X, v.X)
		box.Max.Y = math.Max(box.Max.Y, v.Y)
	}
	return box
}

func (p *Polygon) isShape() {}

// Circle is a circle with a world-space center.
type Circle struct {
	Center r2.Vec
	Radius float64
}

// Contains reports whether pt lies inside the circle.
func (c *Circle) Contains(pt r2.Vec) bool {
	return r2.Norm2(r2.Sub(pt, c.Center)) < c.Radius*c.Radius
}

// AABB returns the circle's bounding box.
func (c *Circle) AABB() r2.Box {
	r := r2.Vec{X: c.Radius, Y: c.Radius}
	return r2.Box{Min: r2.Sub(c.Center, r), Max: r2.Add(c.Center, r)}
}

func (c *Circle) isShape() {}
