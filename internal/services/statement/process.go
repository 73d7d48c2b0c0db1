package statement

import (
	"sort"
	"time"

	"github.com/bobmcallan/extrato/internal/models"
)

// buildPositions reconstructs the month-end position series. Units accumulate
// row by row in document order; each month keeps its last row's state, priced
// at that row's unit value and dated at month end. startingUnits seeds the
// accumulation for statements that begin mid-history.
func buildPositions(rows []models.TransactionRow, startingUnits float64) []models.PositionPoint {
	if len(rows) == 0 {
		return nil
	}

	cumulative := startingUnits
	byMonth := make(map[time.Time]models.PositionPoint)
	for _, row := range rows {
		cumulative += row.UnitsDelta
		monthEnd := models.EndOfMonth(row.MonthAnchor)
		byMonth[monthEnd] = models.PositionPoint{
			Date:            monthEnd,
			CumulativeUnits: cumulative,
			UnitValue:       row.UnitValue,
			PositionValue:   cumulative * row.UnitValue,
		}
	}

	points := make([]models.PositionPoint, 0, len(byMonth))
	for _, p := range byMonth {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}

// buildContributions groups contribution rows by their exact date. Each row
// contributes units times unit value, split into participant and sponsor
// money by the row keyword.
func buildContributions(rows []models.TransactionRow) []models.Contribution {
	byDate := make(map[time.Time]*models.Contribution)
	for _, row := range rows {
		if !row.IsContribution {
			continue
		}
		amount := row.UnitsDelta * row.UnitValue

		c, ok := byDate[row.ExactDate]
		if !ok {
			c = &models.Contribution{Date: row.ExactDate}
			byDate[row.ExactDate] = c
		}
		if row.IsParticipant {
			c.ParticipantAmount += amount
		} else {
			c.SponsorAmount += amount
		}
		c.TotalAmount += amount
	}

	out := make([]models.Contribution, 0, len(byDate))
	for _, c := range byDate {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
