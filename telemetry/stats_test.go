package telemetry

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	values := []float64{10, 1, 2, 9, 3, 8, 4, 7, 5, 6}
	s := Summarize(values)

	if math.Abs(s.Mean-5.5) > 0.001 {
		t.Errorf("mean = %v, want 5.5", s.Mean)
	}
	if s.Std <= 0 {
		t.Errorf("std = %v, want positive", s.Std)
	}
	if !(s.P10 <= s.P50 && s.P50 <= s.P90) {
		t.Errorf("percentiles not ordered: p10=%v p50=%v p90=%v", s.P10, s.P50, s.P90)
	}
	if s.P10 < 1 || s.P90 > 10 {
		t.Errorf("percentiles outside value range: p10=%v p90=%v", s.P10, s.P90)
	}

	// Input must stay untouched.
	if values[0] != 10 || values[1] != 1 {
		t.Error("Summarize reordered its input")
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s != (Summary{}) {
		t.Errorf("empty input should summarize to zeros, got %+v", s)
	}
}

func TestSummarizeSingle(t *testing.T) {
	s := Summarize([]float64{3.5})
	if s.Mean != 3.5 || s.P10 != 3.5 || s.P50 != 3.5 || s.P90 != 3.5 {
		t.Errorf("single value summary = %+v, want all 3.5", s)
	}
	if s.Std != 0 {
		t.Errorf("std of one sample = %v, want 0", s.Std)
	}
}

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(2.0, 1.0/60)

	if got := c.WindowDurationTicks(); got != 120 {
		t.Fatalf("WindowDurationTicks = %d, want 120", got)
	}
	if c.ShouldFlush(119) {
		t.Error("flushed before window elapsed")
	}
	if !c.ShouldFlush(120) {
		t.Error("did not flush at window boundary")
	}
}

func TestCollectorFlushResets(t *testing.T) {
	c := NewCollector(1.0, 1.0/60)
	c.RecordSpawned(20)
	c.RecordSpawned(5)
	c.RecordContacts(7)

	stats := c.Flush(60, PoolSample{
		Particles:     25,
		Capacity:      100,
		AvgNeighbors:  4.5,
		GridCells:     9,
		KineticEnergy: 12.5,
		Speeds:        []float64{1, 2, 3},
	})

	if stats.Spawned != 25 {
		t.Errorf("Spawned = %d, want 25", stats.Spawned)
	}
	if stats.Contacts != 7 {
		t.Errorf("Contacts = %d, want 7", stats.Contacts)
	}
	if math.Abs(stats.SimTimeSec-1.0) > 0.001 {
		t.Errorf("SimTimeSec = %v, want 1.0", stats.SimTimeSec)
	}
	if math.Abs(stats.SpeedMean-2.0) > 0.001 {
		t.Errorf("SpeedMean = %v, want 2.0", stats.SpeedMean)
	}

	// Counters reset; the next window starts where this one ended.
	next := c.Flush(120, PoolSample{})
	if next.Spawned != 0 || next.Contacts != 0 {
		t.Error("counters not reset by Flush")
	}
	if next.WindowStartTick != 60 {
		t.Errorf("WindowStartTick = %d, want 60", next.WindowStartTick)
	}
}
