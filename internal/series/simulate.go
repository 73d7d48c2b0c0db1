package series

import (
	"sort"
	"time"

	"github.com/bobmcallan/extrato/internal/models"
)

// Simulate replays cash flows into a benchmark series under unit accounting:
// each flow buys amount/value units at the series value on its date, and the
// accumulated units are priced on every valuation date. Flows the series
// cannot price (date before the first point, or a non-positive value) buy
// nothing; valuation dates the series cannot price show a zero position.
// valuationDates must be ascending.
//
// Pricing a flow on its exact date keeps the invariant that a contribution
// made on a valuation date raises that date's position by exactly its amount.
func Simulate(series models.ValueSeries, flows []models.CashFlow, valuationDates []time.Time) []models.SeriesPoint {
	sorted := make([]models.CashFlow, len(flows))
	copy(sorted, flows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	points := make([]models.SeriesPoint, 0, len(valuationDates))
	units := 0.0
	next := 0
	for _, day := range valuationDates {
		for next < len(sorted) && !sorted[next].Date.After(day) {
			flow := sorted[next]
			next++
			value, _, ok := ValueAt(series, flow.Date, nil)
			if !ok || value <= 0 {
				continue
			}
			units += flow.Amount / value
		}

		value, _, ok := ValueAt(series, day, nil)
		if !ok {
			points = append(points, models.SeriesPoint{Date: day})
			continue
		}
		points = append(points, models.SeriesPoint{Date: day, Value: units * value})
	}
	return points
}
