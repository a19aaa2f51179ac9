// Package privacy implements the count-threshold disclosure policy:
// any aggregate that could identify a group smaller than the
// threshold is replaced by a sentinel string before it leaves the
// site.
package privacy

import (
	"fmt"
	"math"

	"stratastats/domain/stats"
)

// DefaultThreshold is the group size below which counts are
// suppressed when no explicit policy is configured.
const DefaultThreshold = 5

// MaskedProportion is the sentinel substituted for every proportion
// of a suppressed breakdown.
const MaskedProportion = "masked"

// Policy carries the privacy threshold. It is injected into the
// engine rather than read from a global so tests and deployments can
// vary it without process-wide side effects.
type Policy struct {
	Threshold int
}

// DefaultPolicy returns the standard count-threshold policy.
func DefaultPolicy() Policy {
	return Policy{Threshold: DefaultThreshold}
}

// Sentinel is the masked-count marker, e.g. "<5".
func (p Policy) Sentinel() string {
	return fmt.Sprintf("<%d", p.Threshold)
}

// MaskScalar suppresses a standalone count below the threshold.
func (p Policy) MaskScalar(count int) stats.CountValue {
	if count < p.Threshold {
		return stats.MaskedCount(p.Sentinel())
	}
	return stats.ExactCount(count)
}

// MaskCounts applies the all-or-nothing rule to a categorical
// breakdown: if any group is below the threshold, every count and
// every proportion in the breakdown is masked. Partial masking would
// leak the hidden counts through the complement of the revealed ones.
// Proportions are count/total rounded to 3 decimals, and undefined
// (null) when the total is zero.
func (p Policy) MaskCounts(counts map[string]int) stats.CategoryBreakdown {
	breakdown := stats.CategoryBreakdown{
		Counts:      make(map[string]stats.CountValue, len(counts)),
		Proportions: make(map[string]stats.RatioValue, len(counts)),
	}

	suppress := false
	total := 0
	for _, n := range counts {
		if n < p.Threshold {
			suppress = true
		}
		total += n
	}

	for group, n := range counts {
		if suppress {
			breakdown.Counts[group] = stats.MaskedCount(p.Sentinel())
			breakdown.Proportions[group] = stats.MaskedRatio(MaskedProportion)
			continue
		}
		breakdown.Counts[group] = stats.ExactCount(n)
		if total == 0 {
			breakdown.Proportions[group] = stats.UndefinedRatio()
			continue
		}
		breakdown.Proportions[group] = stats.Ratio(roundTo(float64(n)/float64(total), 3))
	}
	return breakdown
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
