package report

import (
	"time"

	"github.com/bobmcallan/extrato/internal/models"
	"github.com/bobmcallan/extrato/internal/series"
)

// deflateStatement converts positions and contributions to constant currency
// of the reference date: every value is scaled by index(reference)/index(date)
// resolved against the inflation index. Position and unit values scale
// together so unit arithmetic stays consistent, and each contribution column
// scales by its own date's factor. Rows the index cannot price keep their
// nominal values; an unpriceable reference leaves both series nominal. The
// inputs are never modified.
func deflateStatement(positions []models.PositionPoint, contributions []models.Contribution, index models.ValueSeries, reference time.Time) ([]models.PositionPoint, []models.Contribution) {
	outPositions := append([]models.PositionPoint(nil), positions...)
	outContributions := append([]models.Contribution(nil), contributions...)

	refValue, _, ok := series.ValueAt(index, reference, nil)
	if !ok || refValue <= 0 {
		return outPositions, outContributions
	}

	for i, p := range outPositions {
		value, _, ok := series.ValueAt(index, p.Date, nil)
		if !ok || value <= 0 {
			continue
		}
		factor := refValue / value
		outPositions[i].PositionValue = p.PositionValue * factor
		outPositions[i].UnitValue = p.UnitValue * factor
	}
	for i, c := range outContributions {
		value, _, ok := series.ValueAt(index, c.Date, nil)
		if !ok || value <= 0 {
			continue
		}
		factor := refValue / value
		outContributions[i].TotalAmount = c.TotalAmount * factor
		outContributions[i].ParticipantAmount = c.ParticipantAmount * factor
		outContributions[i].SponsorAmount = c.SponsorAmount * factor
	}
	return outPositions, outContributions
}
