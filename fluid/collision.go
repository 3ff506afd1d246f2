package fluid

import "gonum.org/v1/gonum/spatial/r2"

// contactSlop pushes a resolved particle slightly past the surface so it does
// not re-penetrate on the next tick.
const contactSlop = 0.05

// Fixture is a handle to one rigid shape owned by an external world. Handles
// are stamped onto particles by the broad phase and stay valid for the tick.
type Fixture interface {
	Shape() Shape
}

// World is the rigid-body collaborator the simulation collides against.
// QueryAABB visits every fixture whose bounds overlap box; returning false
// from visit stops the query.
type World interface {
	QueryAABB(box r2.Box, visit func(f Fixture) bool)
}

// broadphase stamps candidate fixtures onto particles. For each fixture
// overlapping the simulation bounds, every particle whose current cell lies
// inside the fixture's AABB gets the handle, up to MaxPendingFixtures each.
// Runs sequentially; it writes per-particle pending lists across the whole
// pool.
func (s *Sim) broadphase() {
	s.world.QueryAABB(s.params.Bounds, func(f Fixture) bool {
		aabb := f.Shape().AABB()
		minX, minY := s.grid.CellCoords(aabb.Min.X, aabb.Min.Y)
		maxX, maxY := s.grid.CellCoords(aabb.Max.X, aabb.Max.Y)

		for cy := minY; cy <= maxY; cy++ {
			for cx := minX; cx <= maxX; cx++ {
				for _, i := range s.grid.Bucket(cx, cy) {
					p := s.pool.At(i)
					if p.pendingCount < MaxPendingFixtures {
						p.pending[p.pendingCount] = f
						p.pendingCount++
					}
				}
			}
		}
		return true
	})
}

// collideChunk narrow-phase tests active[start:end] against their stamped
// fixtures. A contact relocates the particle to the shape boundary, reflects
// its velocity about the contact normal, and discards the pending fluid
// delta for this tick. Multiple contacts resolve sequentially in stamped
// order.
func (s *Sim) collideChunk(start, end int) {
	active := s.pool.Active()
	restitution := s.params.Restitution
	friction := s.params.Friction

	for n := start; n < end; n++ {
		i := active[n]
		p := s.pool.At(i)

		for k := 0; k < p.pendingCount; k++ {
			// Prior contacts may have moved the particle or cleared its
			// delta, so the prediction is recomputed per fixture.
			next := r2.Add(r2.Add(p.Pos, p.Vel), s.delta[i])

			shape := p.pending[k].Shape()
			if !shape.Contains(next) {
				continue
			}

			var normal r2.Vec
			switch sh := shape.(type) {
			case *Polygon:
				p.Pos, normal = resolvePolygon(sh, p.Pos)
			case *Circle:
				p.Pos, normal = resolveCircle(sh, p.Pos)
			default:
				continue
			}

			vn := r2.Dot(p.Vel, normal)
			p.Vel = r2.Scale(friction, r2.Sub(p.Vel, r2.Scale((1+restitution)*vn, normal)))
			s.delta[i] = r2.Vec{}
			s.contacts.Add(1)
		}
	}
}

// resolvePolygon pushes pos out through the nearest edge. The edge of
// minimum penetration is the one with the largest signed distance, since
// inside the polygon every signed distance is non-positive.
func resolvePolygon(poly *Polygon, pos r2.Vec) (r2.Vec, r2.Vec) {
	best := 0
	bestDist := r2.Dot(r2.Sub(pos, poly.Verts[0]), poly.Normals[0])
	for e := 1; e < len(poly.Verts); e++ {
		if d := r2.Dot(r2.Sub(pos, poly.Verts[e]), poly.Normals[e]); d > bestDist {
			bestDist = d
			best = e
		}
	}

	normal := poly.Normals[best]
	closest := r2.Sub(pos, r2.Scale(bestDist, normal))
	return r2.Add(closest, r2.Scale(contactSlop, normal)), normal
}

// resolveCircle pushes pos radially out to the circle surface. A particle
// sitting exactly on the center has no defined normal; push straight up.
func resolveCircle(c *Circle, pos r2.Vec) (r2.Vec, r2.Vec) {
	rel := r2.Sub(pos, c.Center)
	if r2.Norm2(rel) < minPairDistance*minPairDistance {
		rel = r2.Vec{X: 0, Y: -1}
	}
	normal := r2.Unit(rel)
	out := r2.Add(c.Center, r2.Scale(c.Radius+contactSlop, normal))
	return out, normal
}
