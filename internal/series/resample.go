// Package series provides the value series math shared by the analysis
// services: resampling to arbitrary dates, cash flow simulation and the
// overhead and deflation transforms.
package series

import (
	"math"
	"time"

	"github.com/bobmcallan/extrato/internal/models"
)

// ValueAt resolves a series value on an arbitrary calendar date. Exact points
// come back as stored. Dates between two points interpolate geometrically
// over the calendar-day fraction, which keeps daily compounding consistent
// for index-style series. Dates past the end extrapolate from the last point
// at annualRatePct (percent per year), or at the series' own full-span growth
// rate when annualRatePct is nil; a single-point series extrapolates flat.
//
// The returned date is the point the value actually refers to: the target
// itself, or the final point's date when the series ends before the target.
// ok is false for an empty series or a date before the first point.
func ValueAt(series models.ValueSeries, target time.Time, annualRatePct *float64) (float64, time.Time, bool) {
	n := series.Len()
	if n == 0 {
		return 0, time.Time{}, false
	}

	first := series.Points[0]
	last := series.Points[n-1]
	if target.Before(first.Date) {
		return 0, time.Time{}, false
	}

	if target.After(last.Date) {
		rate := 0.0
		if annualRatePct != nil {
			rate = *annualRatePct
		} else if span := last.Date.Sub(first.Date).Hours() / 24; span > 0 && first.Value > 0 {
			rate = (math.Pow(last.Value/first.Value, 365/span) - 1) * 100
		}
		years := target.Sub(last.Date).Hours() / 24 / 365
		return last.Value * math.Pow(1+rate/100, years), last.Date, true
	}

	idx, exact := series.Search(target)
	if exact {
		return series.Points[idx].Value, target, true
	}

	// Strictly between idx-1 and idx.
	prev := series.Points[idx-1]
	next := series.Points[idx]
	gap := next.Date.Sub(prev.Date).Hours() / 24
	if gap <= 0 || prev.Value <= 0 {
		return prev.Value, target, true
	}
	fraction := target.Sub(prev.Date).Hours() / 24 / gap
	return prev.Value * math.Pow(next.Value/prev.Value, fraction), target, true
}
