package report

import (
	"time"

	"github.com/bobmcallan/extrato/internal/common"
	"github.com/bobmcallan/extrato/internal/models"
	"github.com/bobmcallan/extrato/internal/returns"
)

// monthLabel renders the MM/YYYY form the headline cards use.
func monthLabel(t time.Time) string {
	return t.Format("01/2006")
}

func emptyStats() *models.AccountStats {
	return &models.AccountStats{
		PositionLabel:   "Posição",
		PositionText:    common.FormatCurrency(0),
		InvestedLabel:   "Total Investido",
		InvestedText:    common.FormatCurrency(0),
		CAGRText:        common.NotAvailable,
		TotalReturnText: common.FormatCurrency(0) + " total",
	}
}

// computeStats builds the headline cards for one window: filter and rebase,
// convert any pre-window history into invisible units, grow the window's
// contributions at the period's time-weighted rate and solve the annual rate
// over the resulting flows.
//
// The position card always shows the full holding, invisible prefix included;
// the return and rate cover only the money visible inside the window, so a
// trailing-window statement and a date-filtered complete one read the same.
func computeStats(positions []models.PositionPoint, contributions []models.Contribution, options models.AnalysisOptions, missingUnits float64) *models.AccountStats {
	view := filterWindow(positions, contributions, options.StartDate, options.EndDate)
	if len(view.Positions) == 0 {
		return emptyStats()
	}

	var invested float64
	for _, c := range view.Contributions {
		invested += c.Amount(options.CompanyAsMine)
	}

	last := view.Positions[len(view.Positions)-1]
	periodStart := view.Positions[0].Date
	if view.Before != nil {
		periodStart = view.Before.Date
	}
	periodEnd := last.Date
	endOriginal := last.PositionValue + view.beforeValue()

	// A window opening mid-history behaves exactly like a partial statement:
	// the pre-window position converts to units at the unit value where it
	// was last quoted. It replaces the statement-level missing units rather
	// than adding to them, because that position already contains their value.
	if view.Before != nil && view.Before.PositionValue > 0 && view.Before.UnitValue > 0 {
		missingUnits = view.Before.PositionValue / view.Before.UnitValue
	}

	adjustedEnd := endOriginal
	adjustedStart := view.beforeValue()
	if missingUnits > 0 {
		adjustedEnd = endOriginal - missingUnits*last.UnitValue
		adjustedStart = 0
	}

	flows := contributionFlows(view.Contributions, options.CompanyAsMine)
	_, grown := returns.TimeWeightedReturn(flows, adjustedStart, adjustedEnd, periodStart, periodEnd)
	totalReturn := grown - invested

	dates := make([]time.Time, 0, len(flows)+1)
	amounts := make([]float64, 0, len(flows)+1)
	for _, f := range flows {
		dates = append(dates, f.Date)
		amounts = append(amounts, -f.Amount)
	}
	dates = append(dates, periodEnd)
	amounts = append(amounts, grown)

	stats := &models.AccountStats{
		PositionLabel:   "Posição em " + monthLabel(periodEnd),
		Position:        endOriginal,
		PositionText:    common.FormatCurrency(endOriginal),
		Invested:        invested,
		InvestedText:    common.FormatCurrency(invested),
		CAGRText:        common.NotAvailable,
		TotalReturn:     totalReturn,
		TotalReturnText: common.FormatCurrency(totalReturn) + " total",
		PeriodStart:     periodStart,
		PeriodEnd:       periodEnd,
		MissingUnits:    missingUnits,
		IsPartial:       missingUnits > 0,
	}

	startLabel, endLabel := monthLabel(periodStart), monthLabel(periodEnd)
	if startLabel == endLabel {
		stats.InvestedLabel = "Investido em " + endLabel
	} else {
		stats.InvestedLabel = "Investido de " + startLabel + " a " + endLabel
	}

	if rate, ok := returns.SolveRate(dates, amounts); ok {
		stats.CAGR = &rate
		stats.CAGRText = common.FormatAnnualRate(rate)
	}
	return stats
}
