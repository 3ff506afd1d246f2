package fluid

import "gonum.org/v1/gonum/spatial/r2"

// integrate advances positions from the accumulated state and re-files moved
// particles in the grid. Runs sequentially: it is the only phase of the tick
// that mutates the grid.
func (s *Sim) integrate() {
	for _, i := range s.pool.Active() {
		p := s.pool.At(i)

		p.OldPos = p.Pos
		p.Vel = r2.Add(p.Vel, s.delta[i])
		p.Pos = r2.Add(p.Pos, p.Vel)

		cx, cy := s.grid.CellCoords(p.Pos.X, p.Pos.Y)
		if cx != p.CellX || cy != p.CellY {
			s.grid.Move(i, p.CellX, p.CellY, cx, cy)
			p.CellX, p.CellY = cx, cy
		}
	}
}
