package report

import (
	"testing"
	"time"

	"github.com/bobmcallan/extrato/internal/models"
)

func testIndex() models.ValueSeries {
	return models.NewValueSeries("IPCA", []models.SeriesPoint{
		{Date: date(2024, time.January, 31), Value: 1.0},
		{Date: date(2024, time.February, 29), Value: 1.25},
		{Date: date(2024, time.March, 31), Value: 2.0},
	})
}

func TestDeflateStatementScalesByReferenceRatio(t *testing.T) {
	positions := []models.PositionPoint{
		{Date: date(2024, time.February, 29), CumulativeUnits: 200, UnitValue: 10.5, PositionValue: 2100},
		{Date: date(2024, time.March, 31), CumulativeUnits: 300, UnitValue: 11, PositionValue: 3300},
	}
	contributions := []models.Contribution{
		{Date: date(2024, time.February, 29), TotalAmount: 1000, ParticipantAmount: 600, SponsorAmount: 400},
	}

	outPositions, outContributions := deflateStatement(positions, contributions, testIndex(), date(2024, time.January, 31))

	if !approxEqual(outPositions[0].PositionValue, 1680, 1e-9) {
		t.Errorf("February position = %.2f, want 2100 * 0.8", outPositions[0].PositionValue)
	}
	if !approxEqual(outPositions[0].UnitValue, 8.4, 1e-9) {
		t.Errorf("February unit value = %.4f, want 10.5 * 0.8", outPositions[0].UnitValue)
	}
	if !approxEqual(outPositions[1].PositionValue, 1650, 1e-9) {
		t.Errorf("March position = %.2f, want 3300 * 0.5", outPositions[1].PositionValue)
	}

	c := outContributions[0]
	if !approxEqual(c.TotalAmount, 800, 1e-9) || !approxEqual(c.ParticipantAmount, 480, 1e-9) || !approxEqual(c.SponsorAmount, 320, 1e-9) {
		t.Errorf("contribution = %.2f / %.2f / %.2f, want all columns scaled by 0.8",
			c.TotalAmount, c.ParticipantAmount, c.SponsorAmount)
	}

	// Inputs stay nominal.
	if !approxEqual(positions[0].PositionValue, 2100, 1e-9) || !approxEqual(contributions[0].TotalAmount, 1000, 1e-9) {
		t.Error("deflation mutated its inputs")
	}
}

func TestDeflateStatementUnpriceableRowStaysNominal(t *testing.T) {
	positions := []models.PositionPoint{
		{Date: date(2023, time.December, 31), UnitValue: 10, PositionValue: 1000},
		{Date: date(2024, time.March, 31), UnitValue: 11, PositionValue: 3300},
	}

	outPositions, _ := deflateStatement(positions, nil, testIndex(), date(2024, time.January, 31))

	if !approxEqual(outPositions[0].PositionValue, 1000, 1e-9) {
		t.Errorf("pre-index position = %.2f, want nominal 1000", outPositions[0].PositionValue)
	}
	if !approxEqual(outPositions[1].PositionValue, 1650, 1e-9) {
		t.Errorf("March position = %.2f, want deflated 1650", outPositions[1].PositionValue)
	}
}

func TestDeflateStatementUnpriceableReferenceKeepsEverythingNominal(t *testing.T) {
	positions := []models.PositionPoint{
		{Date: date(2024, time.February, 29), UnitValue: 10.5, PositionValue: 2100},
	}

	outPositions, _ := deflateStatement(positions, nil, testIndex(), date(2023, time.June, 30))

	if !approxEqual(outPositions[0].PositionValue, 2100, 1e-9) {
		t.Errorf("position = %.2f, want nominal when the reference predates the index", outPositions[0].PositionValue)
	}
}
