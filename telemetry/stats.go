package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated fluid statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Pool occupancy at window end
	Particles int `csv:"particles"`
	Capacity  int `csv:"capacity"`

	// Events during window
	Spawned  int   `csv:"spawned"`
	Contacts int64 `csv:"contacts"`

	// Neighborhood and grid shape at window end
	AvgNeighbors float64 `csv:"avg_neighbors"`
	GridCells    int     `csv:"grid_cells"`

	// Kinetic energy and speed distribution at window end
	KineticEnergy float64 `csv:"kinetic_energy"`
	SpeedMean     float64 `csv:"speed_mean"`
	SpeedStd      float64 `csv:"speed_std"`
	SpeedP10      float64 `csv:"speed_p10"`
	SpeedP50      float64 `csv:"speed_p50"`
	SpeedP90      float64 `csv:"speed_p90"`
}

// Summary holds the distribution summary of one sampled quantity.
type Summary struct {
	Mean float64
	Std  float64
	P10  float64
	P50  float64
	P90  float64
}

// Summarize computes mean, standard deviation and percentiles of values.
// The input is not modified.
func Summarize(values []float64) Summary {
	n := len(values)
	if n == 0 {
		return Summary{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var std float64
	if n > 1 {
		std = stat.StdDev(sorted, nil)
	}

	return Summary{
		Mean: stat.Mean(sorted, nil),
		Std:  std,
		P10:  stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, sorted, nil),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("particles", s.Particles),
		slog.Int("capacity", s.Capacity),
		slog.Int("spawned", s.Spawned),
		slog.Int64("contacts", s.Contacts),
		slog.Float64("avg_neighbors", s.AvgNeighbors),
		slog.Int("grid_cells", s.GridCells),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"particles", s.Particles,
		"capacity", s.Capacity,
		"spawned", s.Spawned,
		"contacts", s.Contacts,
		"avg_neighbors", s.AvgNeighbors,
		"grid_cells", s.GridCells,
		"kinetic_energy", s.KineticEnergy,
		"speed_mean", s.SpeedMean,
		"speed_std", s.SpeedStd,
		"speed_p10", s.SpeedP10,
		"speed_p50", s.SpeedP50,
		"speed_p90", s.SpeedP90,
	)
}
