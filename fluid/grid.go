package fluid

import "math"

// Grid is a sparse uniform grid mapping cells to buckets of particle indices.
// A bucket exists only while non-empty. Buckets trade memory locality for
// O(1) amortized neighbor queries independent of particle count.
//
// The grid is read-only during the parallel phases of a tick; it is mutated
// only by spawn and the sequential integrate phase.
type Grid struct {
	cellSize float64
	inv      float64
	buckets  map[uint64][]int32
}

// NewGrid creates a grid with the given cell size.
func NewGrid(cellSize float64) *Grid {
	return &Grid{
		cellSize: cellSize,
		inv:      1 / cellSize,
		buckets:  make(map[uint64][]int32, 256),
	}
}

// packCell packs signed cell coordinates into a single map key.
func packCell(cx, cy int) uint64 {
	return uint64(uint32(int32(cx)))<<32 | uint64(uint32(int32(cy)))
}

// CellCoords returns the cell containing (x, y). Floor division keeps
// negative coordinates consistent.
func (g *Grid) CellCoords(x, y float64) (int, int) {
	return int(math.Floor(x * g.inv)), int(math.Floor(y * g.inv))
}

// CellSize returns the grid cell size.
func (g *Grid) CellSize() float64 { return g.cellSize }

// Insert adds particle index i to cell (cx, cy), creating the bucket on first
// use.
func (g *Grid) Insert(i int32, cx, cy int) {
	key := packCell(cx, cy)
	g.buckets[key] = append(g.buckets[key], i)
}

// Remove deletes particle index i from cell (cx, cy). The bucket is destroyed
// once it becomes empty.
func (g *Grid) Remove(i int32, cx, cy int) {
	key := packCell(cx, cy)
	b := g.buckets[key]
	for n, idx := range b {
		if idx == i {
			b[n] = b[len(b)-1]
			b = b[:len(b)-1]
			break
		}
	}
	if len(b) == 0 {
		delete(g.buckets, key)
	} else {
		g.buckets[key] = b
	}
}

// Move relocates particle index i between cells. No-op when the cells match.
func (g *Grid) Move(i int32, oldX, oldY, newX, newY int) {
	if oldX == newX && oldY == newY {
		return
	}
	g.Remove(i, oldX, oldY)
	g.Insert(i, newX, newY)
}

// Bucket returns the indices in cell (cx, cy), nil when the cell is empty.
func (g *Grid) Bucket(cx, cy int) []int32 {
	return g.buckets[packCell(cx, cy)]
}

// Neighborhood visits the buckets of (cx, cy) and its 8 adjacent cells in row
// order. Returning false from visit stops the scan.
func (g *Grid) Neighborhood(cx, cy int, visit func(bucket []int32) bool) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if b := g.buckets[packCell(cx+dx, cy+dy)]; len(b) > 0 {
				if !visit(b) {
					return
				}
			}
		}
	}
}

// Cells returns the number of live buckets.
func (g *Grid) Cells() int { return len(g.buckets) }
