package fluid

import "testing"

func TestGridCellCoords(t *testing.T) {
	g := NewGrid(24)

	tests := []struct {
		name   string
		x, y   float64
		cx, cy int
	}{
		{"origin", 0, 0, 0, 0},
		{"inside first cell", 23.9, 0.1, 0, 0},
		{"cell boundary", 24, 24, 1, 1},
		{"negative floors down", -0.1, -23.9, -1, -1},
		{"negative boundary", -24, -24, -1, -1},
		{"past negative boundary", -24.1, 0, -2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cx, cy := g.CellCoords(tt.x, tt.y)
			if cx != tt.cx || cy != tt.cy {
				t.Errorf("CellCoords(%v, %v) = (%d, %d), want (%d, %d)",
					tt.x, tt.y, cx, cy, tt.cx, tt.cy)
			}
		})
	}
}

func TestGridInsertRemove(t *testing.T) {
	g := NewGrid(24)

	g.Insert(1, 0, 0)
	g.Insert(2, 0, 0)
	g.Insert(3, -1, 2)

	if got := len(g.Bucket(0, 0)); got != 2 {
		t.Fatalf("bucket(0,0) size = %d, want 2", got)
	}
	if g.Cells() != 2 {
		t.Fatalf("live cells = %d, want 2", g.Cells())
	}

	g.Remove(1, 0, 0)
	if got := g.Bucket(0, 0); len(got) != 1 || got[0] != 2 {
		t.Fatalf("bucket(0,0) after remove = %v, want [2]", got)
	}

	// Emptied buckets are destroyed, not kept around.
	g.Remove(3, -1, 2)
	if g.Cells() != 1 {
		t.Fatalf("live cells after emptying = %d, want 1", g.Cells())
	}
	if g.Bucket(-1, 2) != nil {
		t.Fatal("emptied bucket still present")
	}
}

func TestGridMove(t *testing.T) {
	g := NewGrid(24)
	g.Insert(7, 0, 0)

	// Same-cell move must not touch the bucket.
	g.Move(7, 0, 0, 0, 0)
	if got := len(g.Bucket(0, 0)); got != 1 {
		t.Fatalf("bucket size after no-op move = %d, want 1", got)
	}

	g.Move(7, 0, 0, 3, -2)
	if g.Bucket(0, 0) != nil {
		t.Fatal("old bucket not emptied after move")
	}
	if got := g.Bucket(3, -2); len(got) != 1 || got[0] != 7 {
		t.Fatalf("new bucket = %v, want [7]", got)
	}
}

func TestGridNeighborhood(t *testing.T) {
	g := NewGrid(24)
	g.Insert(1, 0, 0)
	g.Insert(2, 1, 0)
	g.Insert(3, -1, -1)
	g.Insert(4, 2, 2) // outside the 3x3 block around (0,0)

	seen := map[int32]bool{}
	g.Neighborhood(0, 0, func(bucket []int32) bool {
		for _, i := range bucket {
			seen[i] = true
		}
		return true
	})

	if !seen[1] || !seen[2] || !seen[3] {
		t.Fatalf("neighborhood missed in-range indices: %v", seen)
	}
	if seen[4] {
		t.Fatal("neighborhood visited a cell outside the 3x3 block")
	}

	// Early stop: the first visited bucket halts the scan.
	visits := 0
	g.Neighborhood(0, 0, func(bucket []int32) bool {
		visits++
		return false
	})
	if visits != 1 {
		t.Fatalf("visits after early stop = %d, want 1", visits)
	}
}
