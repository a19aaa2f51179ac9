package engine

import (
	"math"
	"testing"
)

func TestQuantileLinearInterpolation(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 100}

	q1, ok := quantile(data, 0.25)
	if !ok {
		t.Fatal("expected quantile to be defined")
	}
	q3, _ := quantile(data, 0.75)

	if q1 != 2.25 {
		t.Errorf("Q1 = %v, want 2.25", q1)
	}
	if q3 != 4.75 {
		t.Errorf("Q3 = %v, want 4.75", q3)
	}

	if _, ok := quantile(nil, 0.25); ok {
		t.Error("quantile of empty data should be undefined")
	}

	median, _ := quantile([]float64{1, 2, 3}, 0.5)
	if median != 2 {
		t.Errorf("median = %v, want 2", median)
	}
}

func TestTukeyOutlierCount(t *testing.T) {
	// Q1=2.25, Q3=4.75, IQR=2.5, fences [-1.5, 8.5]: only 100 is out.
	if got := tukeyOutlierCount([]float64{1, 2, 3, 4, 5, 100}); got != 1 {
		t.Errorf("outlier count = %d, want 1", got)
	}
	if got := tukeyOutlierCount(nil); got != 0 {
		t.Errorf("outlier count of empty data = %d, want 0", got)
	}
	if got := tukeyOutlierCount([]float64{7}); got != 0 {
		t.Errorf("single value cannot be its own outlier, got %d", got)
	}
}

func TestDescriptiveStatsUndefinedOnSmallSamples(t *testing.T) {
	if meanStat(nil, 2).IsDefined() {
		t.Error("mean of no data should be undefined")
	}
	if stdStat([]float64{1}, 2).IsDefined() {
		t.Error("std needs at least two observations")
	}
	if skewnessStat([]float64{1, 2}, 2).IsDefined() {
		t.Error("skewness needs at least three observations")
	}
}

func TestDescriptiveStatsValues(t *testing.T) {
	data := []float64{1, 2, 3, 4}

	if got := meanStat(data, 2).Value(); got != 2.5 {
		t.Errorf("mean = %v, want 2.5", got)
	}
	// Sample standard deviation, ddof=1.
	if got := stdStat(data, 3).Value(); math.Abs(got-1.291) > 1e-9 {
		t.Errorf("std = %v, want 1.291", got)
	}
	if got := medianStat(data, 2).Value(); got != 2.5 {
		t.Errorf("median = %v, want 2.5", got)
	}
	// Symmetric data has zero skewness.
	if got := skewnessStat([]float64{1, 2, 3}, 2).Value(); got != 0 {
		t.Errorf("skewness = %v, want 0", got)
	}
}
