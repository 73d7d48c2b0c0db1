package statement

import (
	"math"
	"testing"
	"time"

	"github.com/bobmcallan/extrato/internal/models"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func contributionRow(anchor, exact time.Time, unitValue, units float64, participant bool) models.TransactionRow {
	return models.TransactionRow{
		MonthAnchor:    anchor,
		ExactDate:      exact,
		UnitValue:      unitValue,
		UnitsDelta:     units,
		IsContribution: true,
		IsParticipant:  participant,
	}
}

func TestBuildPositionsKeepsLastRowPerMonth(t *testing.T) {
	may := date(2023, time.May, 1)
	june := date(2023, time.June, 1)
	rows := []models.TransactionRow{
		contributionRow(may, date(2023, time.May, 5), 1.00, 100, true),
		contributionRow(may, date(2023, time.May, 20), 1.02, 50, false),
		contributionRow(june, date(2023, time.June, 5), 1.05, 100, true),
	}

	points := buildPositions(rows, 0)
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}

	// May keeps its second row: 150 units at 1.02, dated at month end.
	if !points[0].Date.Equal(date(2023, time.May, 31)) {
		t.Errorf("first point date = %s", points[0].Date.Format("2006-01-02"))
	}
	if points[0].CumulativeUnits != 150 {
		t.Errorf("May units = %v, want 150", points[0].CumulativeUnits)
	}
	if !approxEqual(points[0].PositionValue, 150*1.02, 1e-9) {
		t.Errorf("May position = %v", points[0].PositionValue)
	}

	if !points[1].Date.Equal(date(2023, time.June, 30)) {
		t.Errorf("second point date = %s", points[1].Date.Format("2006-01-02"))
	}
	if points[1].CumulativeUnits != 250 {
		t.Errorf("June units = %v, want 250", points[1].CumulativeUnits)
	}
}

func TestBuildPositionsSeedsStartingUnits(t *testing.T) {
	may := date(2023, time.May, 1)
	rows := []models.TransactionRow{
		contributionRow(may, date(2023, time.May, 5), 1.00, 100, true),
	}

	points := buildPositions(rows, 40)
	if points[0].CumulativeUnits != 140 {
		t.Errorf("units = %v, want 140 with the seed", points[0].CumulativeUnits)
	}
	if !approxEqual(points[0].PositionValue, 140*1.00, 1e-9) {
		t.Errorf("position = %v", points[0].PositionValue)
	}
}

func TestBuildPositionsFeeReducesUnits(t *testing.T) {
	may := date(2023, time.May, 1)
	rows := []models.TransactionRow{
		contributionRow(may, date(2023, time.May, 5), 1.00, 100, true),
		{MonthAnchor: may, ExactDate: date(2023, time.May, 31), UnitValue: 1.01, UnitsDelta: -2},
	}

	points := buildPositions(rows, 0)
	if points[0].CumulativeUnits != 98 {
		t.Errorf("units = %v, want 98 after the fee", points[0].CumulativeUnits)
	}
}

func TestBuildContributionsGroupsByExactDate(t *testing.T) {
	may := date(2023, time.May, 1)
	payday := date(2023, time.May, 5)
	rows := []models.TransactionRow{
		contributionRow(may, payday, 1.00, 100, true),
		contributionRow(may, payday, 1.00, 100, false),
		contributionRow(may, date(2023, time.May, 20), 1.02, 50, true),
		{MonthAnchor: may, ExactDate: payday, UnitValue: 1.00, UnitsDelta: -3}, // fee, excluded
	}

	contribs := buildContributions(rows)
	if len(contribs) != 2 {
		t.Fatalf("got %d contributions, want 2", len(contribs))
	}

	first := contribs[0]
	if !first.Date.Equal(payday) {
		t.Errorf("first date = %s", first.Date.Format("2006-01-02"))
	}
	if !approxEqual(first.ParticipantAmount, 100, 1e-9) || !approxEqual(first.SponsorAmount, 100, 1e-9) {
		t.Errorf("split = %v / %v, want 100 / 100", first.ParticipantAmount, first.SponsorAmount)
	}
	if !approxEqual(first.TotalAmount, 200, 1e-9) {
		t.Errorf("total = %v, want 200", first.TotalAmount)
	}

	if !approxEqual(contribs[1].TotalAmount, 51, 1e-9) {
		t.Errorf("second total = %v, want 50*1.02", contribs[1].TotalAmount)
	}
}
