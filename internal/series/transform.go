package series

import (
	"math"
	"time"

	"github.com/bobmcallan/extrato/internal/models"
)

// ApplyOverhead compounds an annual surcharge onto a series, growing with
// calendar time from the first point. It models the management fee a real
// product would charge on top of the raw index. A zero percentage returns an
// unmodified copy.
func ApplyOverhead(series models.ValueSeries, annualPct float64) models.ValueSeries {
	out := series.Copy()
	if annualPct == 0 || out.Len() == 0 {
		return out
	}

	start := out.Points[0].Date
	for i, p := range out.Points {
		years := p.Date.Sub(start).Hours() / 24 / 365
		out.Points[i].Value = p.Value * math.Pow(1+annualPct/100, years)
	}
	return out
}

// Deflate converts a nominal series to constant currency of the reference
// date: each point is scaled by index(reference)/index(date). Points the
// inflation index cannot price stay nominal, and a reference the index
// cannot price leaves the whole series untouched.
func Deflate(series, index models.ValueSeries, reference time.Time) models.ValueSeries {
	out := series.Copy()
	refValue, _, ok := ValueAt(index, reference, nil)
	if !ok || refValue <= 0 {
		return out
	}

	for i, p := range out.Points {
		value, _, ok := ValueAt(index, p.Date, nil)
		if !ok || value <= 0 {
			continue
		}
		out.Points[i].Value = p.Value * refValue / value
	}
	return out
}
