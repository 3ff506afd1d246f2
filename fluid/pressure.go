package fluid

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// pressureChunk accumulates double density for active[start:end]. Distances
// are measured in the normalized space and cached for the force phase; pairs
// at or beyond the ideal radius cache a sentinel past the cutoff so the force
// phase skips them without re-measuring.
func (s *Sim) pressureChunk(start, end int) {
	active := s.pool.Active()
	r := s.params.IdealRadius
	rsq := r * r
	sentinel := r + 1

	for n := start; n < end; n++ {
		i := active[n]
		p := s.pool.At(i)
		si := s.scaled[i]

		var pressure, near float64
		for k := 0; k < p.neighborCount; k++ {
			j := p.neighbors[k]
			d := r2.Sub(si, s.scaled[j])
			dsq := d.X*d.X + d.Y*d.Y
			if dsq >= rsq {
				p.distances[k] = sentinel
				continue
			}
			dist := math.Sqrt(dsq)
			p.distances[k] = dist
			oneMinusQ := 1 - dist/r
			pressure += oneMinusQ * oneMinusQ
			near += oneMinusQ * oneMinusQ * oneMinusQ
		}
		p.Pressure = pressure
		p.NearPressure = near
	}
}
