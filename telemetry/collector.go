package telemetry

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int64
	dt                  float64

	windowStartTick int64

	// Event counters for current window
	spawned  int
	contacts int64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int64(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordSpawned records n particles activated this tick.
func (c *Collector) RecordSpawned(n int) {
	c.spawned += n
}

// RecordContacts records n collision contacts resolved this tick.
func (c *Collector) RecordContacts(n int64) {
	c.contacts += n
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// PoolSample captures the pool state the caller reads at window end.
type PoolSample struct {
	Particles     int
	Capacity      int
	AvgNeighbors  float64
	GridCells     int
	KineticEnergy float64
	Speeds        []float64
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int64, sample PoolSample) WindowStats {
	speed := Summarize(sample.Speeds)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Particles: sample.Particles,
		Capacity:  sample.Capacity,

		Spawned:  c.spawned,
		Contacts: c.contacts,

		AvgNeighbors: sample.AvgNeighbors,
		GridCells:    sample.GridCells,

		KineticEnergy: sample.KineticEnergy,
		SpeedMean:     speed.Mean,
		SpeedStd:      speed.Std,
		SpeedP10:      speed.P10,
		SpeedP50:      speed.P50,
		SpeedP90:      speed.P90,
	}

	c.windowStartTick = currentTick
	c.spawned = 0
	c.contacts = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int64 {
	return c.windowDurationTicks
}
