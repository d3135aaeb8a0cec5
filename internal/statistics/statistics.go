// Package statistics holds the numeric primitives of the analysis engine:
// percentage rounding, the pairwise chi-square test, and weighting
// diagnostics. Everything is pure and deterministic.
package statistics

import "math"

// ChiSquareCritical95 is the chi-square critical value for df=1 at
// p < 0.05 (uncorrected).
const ChiSquareCritical95 = 3.841

// Percent computes count/denominator as a percentage with two-stage
// rounding: round(x * 1e10) / 1e10. The intermediate rounding exists to
// eliminate binary floating-point drift so identical inputs always yield
// bit-identical output; display rounding happens downstream.
// A zero denominator yields 0, never NaN.
func Percent(count, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	raw := float64(count) / float64(denominator) * 100
	return math.Round(raw*1e10) / 1e10
}

// RoundStable applies the same 1e10 stabilizing rounding to an arbitrary
// value, used for derived quantities (differences, weighted averages).
func RoundStable(v float64) float64 {
	return math.Round(v*1e10) / 1e10
}

// ChiSquare2x2 computes Pearson's chi-square statistic for the 2x2
// contingency table [[a,b],[c,d]] using the raw formula
//
//	chi2 = (ad-bc)^2 * N / ((a+b)(c+d)(a+c)(b+d))
//
// ok=false means the test was skipped: the table total is zero or one of
// the marginal products is zero.
func ChiSquare2x2(a, b, c, d int) (float64, bool) {
	fa, fb, fc, fd := float64(a), float64(b), float64(c), float64(d)
	n := fa + fb + fc + fd
	if n == 0 {
		return 0, false
	}
	denom := (fa + fb) * (fc + fd) * (fa + fc) * (fb + fd)
	if denom == 0 {
		return 0, false
	}
	diff := fa*fd - fb*fc
	return diff * diff * n / denom, true
}

// Significant2x2 reports whether the 2x2 table shows a significant
// difference at p < 0.05.
func Significant2x2(a, b, c, d int) (chi float64, significant, ok bool) {
	chi, ok = ChiSquare2x2(a, b, c, d)
	return chi, ok && chi >= ChiSquareCritical95, ok
}

// EffectiveSampleSize computes Kish's effective sample size
//
//	ESS = (sum w)^2 / sum w^2
//
// for a set of inverse-probability weights. A value much smaller than the
// raw sample size signals unstable weighting. Returns 0 for empty or
// all-zero weights.
func EffectiveSampleSize(weights []float64) float64 {
	var sum, sumSq float64
	for _, w := range weights {
		sum += w
		sumSq += w * w
	}
	if sumSq == 0 {
		return 0
	}
	return sum * sum / sumSq
}

// Mean computes the arithmetic mean of a float64 slice.
// Returns 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// WeightedMean computes sum(w_i * v_i) / sum(w_i), returning 0 when the
// weight total is zero.
func WeightedMean(values, weights []float64) float64 {
	var num, den float64
	for i, v := range values {
		num += weights[i] * v
		den += weights[i]
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// Clip bounds v to [lo, hi].
func Clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
