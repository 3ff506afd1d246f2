package fluid

import "gonum.org/v1/gonum/spatial/r2"

// minPairDistance clamps the cached pair distance before division, so exactly
// coincident particles do not produce NaN displacements.
const minPairDistance = 1e-6

// forceChunk applies gravity and converts the accumulated pressures into pair
// displacements for active[start:end]. Displacements land in the worker's
// local scratch and are merged into the shared delta buffer once per chunk,
// under the merge lock, before the phase barrier releases.
//
// The viscosity term reads the velocity snapshot taken during prepare, never
// live velocities: the gravity write below touches particles in other
// workers' chunks' neighbor lists, and the snapshot keeps the phase free of
// cross-chunk reads of mutating state. Relative velocity is unchanged by the
// uniform gravity step, so the snapshot loses nothing.
//
// The pair kernel is evaluated once per ordered (i, j) pair using particle
// i's pressure. Each evaluation pushes j outward and pulls i by the opposite
// amount, so the swapped evaluation from j's chunk supplies the symmetric
// half and the total momentum change over a pair of evaluations is zero.
func (s *Sim) forceChunk(start, end int, scratch *workerScratch) {
	active := s.pool.Active()
	r := s.params.IdealRadius
	rest := s.params.RestDensity
	viscStep := s.params.Viscosity * s.params.DT
	gravity := r2.Scale(s.params.DT, s.params.Gravity)
	invMult := 1 / s.multiplier

	for n := start; n < end; n++ {
		i := active[n]
		pi := s.pool.At(i)

		pi.Vel = r2.Add(pi.Vel, gravity)

		pressureTerm := (pi.Pressure - rest) / 2
		nearTerm := pi.NearPressure / 2
		si := s.scaled[i]
		vi := s.vel[i]

		for k := 0; k < pi.neighborCount; k++ {
			dist := pi.distances[k]
			if dist >= r {
				continue
			}
			if dist < minPairDistance {
				dist = minPairDistance
			}
			j := pi.neighbors[k]

			oneMinusQ := 1 - dist/r
			factor := oneMinusQ * (pressureTerm + nearTerm*oneMinusQ) / (2 * dist)

			dv := r2.Scale(factor, r2.Sub(si, s.scaled[j]))
			dv = r2.Sub(dv, r2.Scale(oneMinusQ*viscStep, r2.Sub(s.vel[j], vi)))
			dv = r2.Scale(invMult, dv)

			scratch.add(j, dv)
			scratch.add(i, r2.Scale(-1, dv))
		}
	}

	s.mergeScratch(scratch)
}
