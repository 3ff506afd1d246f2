package telemetry

import (
	"path/filepath"
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()

	snap := &Snapshot{
		Version:  SnapshotVersion,
		Tick:     420,
		Active:   2,
		Capacity: 100,
		Particles: []ParticleState{
			{X: 1.5, Y: 2.5, VelX: 0.1, VelY: -0.2, Pressure: 3.0},
			{X: 10, Y: 20, VelX: 0, VelY: 1, Pressure: 0.5},
		},
	}

	path, err := SaveSnapshot(snap, dir)
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if filepath.Base(path) != "snapshot_420.json" {
		t.Errorf("snapshot filename = %s, want snapshot_420.json", filepath.Base(path))
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}

	if loaded.Tick != snap.Tick || loaded.Active != snap.Active {
		t.Errorf("loaded header = %+v, want %+v", loaded, snap)
	}
	if len(loaded.Particles) != 2 {
		t.Fatalf("loaded %d particles, want 2", len(loaded.Particles))
	}
	if loaded.Particles[0] != snap.Particles[0] {
		t.Errorf("particle 0 = %+v, want %+v", loaded.Particles[0], snap.Particles[0])
	}
}

func TestLoadSnapshotMissing(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
