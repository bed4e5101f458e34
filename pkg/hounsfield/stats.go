package hounsfield

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"ctvolume/internal/models"
)

// Stats summarizes the intensity distribution of a calibrated volume.
// Used for audit output after conversion; no pipeline step depends on it.
type Stats struct {
	// Min and Max are the extreme HU values in the volume.
	Min int16
	Max int16

	// Mean and StdDev describe the overall HU distribution.
	Mean   float64
	StdDev float64

	// Median is the 50th percentile HU value.
	Median float64
}

// Summarize computes distribution statistics over an HU volume.
func Summarize(hu *models.HUVolume) Stats {
	if len(hu.Data) == 0 {
		return Stats{}
	}

	s := Stats{Min: math.MaxInt16, Max: math.MinInt16}
	vals := make([]float64, len(hu.Data))
	for i, v := range hu.Data {
		vals[i] = float64(v)
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}

	s.Mean, s.StdDev = stat.MeanStdDev(vals, nil)

	// stat.Quantile requires sorted input.
	sort.Float64s(vals)
	s.Median = stat.Quantile(0.5, stat.Empirical, vals, nil)

	return s
}
