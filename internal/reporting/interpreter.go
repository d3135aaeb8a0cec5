// Package reporting turns engine output into plain-language text and
// markdown reports for the CLI and the dashboard.
package reporting

import (
	"fmt"
	"math"

	"github.com/surveylens/surveylens/internal/adjust"
)

// InterpretGap returns a plain-language label for an adjusted difference
// in percentage points.
func InterpretGap(points float64) string {
	gap := math.Abs(points)
	switch {
	case gap >= 20:
		return "Very large gap (>=20 points)"
	case gap >= 10:
		return "Large gap (10-20 points)"
	case gap >= adjust.SignificantGapPoints:
		return "Notable gap (5-10 points)"
	default:
		return "No meaningful gap (<5 points)"
	}
}

// InterpretComposition explains how much of a raw gap demographic
// composition accounts for.
func InterpretComposition(raw, composition float64) string {
	if raw == 0 {
		return "The groups show no raw difference."
	}
	share := composition / raw
	switch {
	case share >= 0.75:
		return fmt.Sprintf("Most of the raw gap (%.1f of %.1f points) reflects demographic composition, not behavior.", composition, raw)
	case share >= 0.25:
		return fmt.Sprintf("Composition explains part of the raw gap (%.1f of %.1f points); the rest persists after adjustment.", composition, raw)
	case share <= -0.25:
		return fmt.Sprintf("Composition masks the gap: adjusting for demographics widens it beyond the raw %.1f points.", raw)
	default:
		return fmt.Sprintf("The gap survives adjustment nearly intact (composition accounts for only %.1f of %.1f points).", composition, raw)
	}
}

// InterpretEffectiveSampleSize warns when inverse-probability weighting
// has collapsed the usable sample.
func InterpretEffectiveSampleSize(ess float64, rawSize int) string {
	if rawSize == 0 {
		return "No target-group respondents were available for weighting."
	}
	ratio := ess / float64(rawSize)
	switch {
	case ratio < 0.5:
		return fmt.Sprintf("Weighting is unstable: effective sample size %.1f is under half the raw %d respondents. Treat the weighted estimate with caution.", ess, rawSize)
	case ratio < 0.8:
		return fmt.Sprintf("Weighting cost some precision: effective sample size %.1f of %d respondents.", ess, rawSize)
	default:
		return fmt.Sprintf("Weighting is stable: effective sample size %.1f of %d respondents.", ess, rawSize)
	}
}
