package fluid

import "gonum.org/v1/gonum/spatial/r2"

// prepareChunk resets per-tick particle state and rebuilds the neighbor list
// for active[start:end]. The grid is frozen for the whole tick, so this phase
// only reads shared state and writes fields owned by its own particles.
//
// Every other particle found in the 3x3 block joins the list regardless of
// distance; the pressure phase measures pairs and marks the out-of-range
// ones. The cap truncates by discovery order, not by proximity.
func (s *Sim) prepareChunk(start, end int) {
	active := s.pool.Active()

	for n := start; n < end; n++ {
		i := active[n]
		p := s.pool.At(i)

		p.Pressure = 0
		p.NearPressure = 0
		p.neighborCount = 0
		p.pendingCount = 0
		s.delta[i] = r2.Vec{}
		s.scaled[i] = r2.Scale(s.multiplier, p.Pos)
		s.vel[i] = p.Vel

		s.grid.Neighborhood(p.CellX, p.CellY, func(bucket []int32) bool {
			for _, j := range bucket {
				if j == i {
					continue
				}
				if p.neighborCount == MaxNeighbors {
					// List is full; truncation is by discovery order.
					return false
				}
				p.neighbors[p.neighborCount] = j
				p.neighborCount++
			}
			return true
		})
	}
}
