package engine

import (
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"stratastats/domain/stats"
)

// Descriptive helpers shared by the statistic functions. Conventions
// match the rest of the federation: sample standard deviation
// (ddof=1), adjusted Fisher-Pearson skewness, quartiles by linear
// interpolation, missing values dropped before computation. A
// statistic that cannot be computed on the available observations is
// undefined (null on the wire), never NaN and never zero.

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}

// rounded guards against NaN and Inf leaking into results.
func rounded(v float64, decimals int) stats.FloatValue {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return stats.UndefinedFloat()
	}
	return stats.Float(roundTo(v, decimals))
}

func meanStat(data []float64, decimals int) stats.FloatValue {
	m, err := mstats.Mean(data)
	if err != nil {
		return stats.UndefinedFloat()
	}
	return rounded(m, decimals)
}

// stdStat needs at least two observations.
func stdStat(data []float64, decimals int) stats.FloatValue {
	if len(data) < 2 {
		return stats.UndefinedFloat()
	}
	sd, err := mstats.StandardDeviationSample(data)
	if err != nil {
		return stats.UndefinedFloat()
	}
	return rounded(sd, decimals)
}

func medianStat(data []float64, decimals int) stats.FloatValue {
	m, err := mstats.Median(data)
	if err != nil {
		return stats.UndefinedFloat()
	}
	return rounded(m, decimals)
}

// skewnessStat computes bias-corrected sample skewness; it needs at
// least three observations and nonzero spread.
func skewnessStat(data []float64, decimals int) stats.FloatValue {
	if len(data) < 3 {
		return stats.UndefinedFloat()
	}
	return rounded(stat.Skew(data, nil), decimals)
}

// quantile interpolates linearly between order statistics, the same
// convention the federation's aggregator assumes for quartiles. The
// nearest-rank percentile would shift the Tukey fences on small
// samples.
func quantile(data []float64, q float64) (float64, bool) {
	if len(data) == 0 {
		return 0, false
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo], true
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac, true
}

func quantileStat(data []float64, q float64, decimals int) stats.FloatValue {
	v, ok := quantile(data, q)
	if !ok {
		return stats.UndefinedFloat()
	}
	return rounded(v, decimals)
}
