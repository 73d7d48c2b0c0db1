package returns

import (
	"time"

	"github.com/bobmcallan/extrato/internal/models"
)

// SummaryStatistics assembles the whole-series headline figures: closing
// position, total contributed, absolute return and the annual rate over every
// contribution. The rate treats each contribution as an outflow on its date
// and the closing position as the single inflow; when the solver fails the
// CAGR is left nil rather than zeroed.
func SummaryStatistics(positions []models.PositionPoint, contributions []models.Contribution) models.SummaryStats {
	var stats models.SummaryStats
	if len(positions) == 0 {
		return stats
	}

	last := positions[len(positions)-1]
	stats.LastPosition = last.PositionValue
	stats.LastDate = last.Date

	dates := make([]time.Time, 0, len(contributions)+1)
	amounts := make([]float64, 0, len(contributions)+1)
	for _, c := range contributions {
		stats.TotalContributed += c.TotalAmount
		dates = append(dates, c.Date)
		amounts = append(amounts, -c.TotalAmount)
	}
	stats.TotalReturn = stats.LastPosition - stats.TotalContributed

	dates = append(dates, last.Date)
	amounts = append(amounts, last.PositionValue)

	if rate, ok := SolveRate(dates, amounts); ok {
		stats.CAGR = &rate
	}
	return stats
}
