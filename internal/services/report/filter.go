package report

import (
	"time"

	"github.com/bobmcallan/extrato/internal/models"
)

// windowView is one analysis window cut out of a statement: the positions
// inside the window rebased to the last position before it, the contributions
// of the window's months, and the boundary point the rebasing subtracted.
type windowView struct {
	Positions     []models.PositionPoint
	Contributions []models.Contribution
	Before        *models.PositionPoint
}

// beforeValue returns the position subtracted during rebasing, zero when the
// window starts at the first statement month.
func (w windowView) beforeValue() float64 {
	if w.Before == nil {
		return 0
	}
	return w.Before.PositionValue
}

// filterWindow cuts the analysis window out of the position and contribution
// series. Filtering only happens when both bounds are set. Positions match by
// date; contributions match by calendar month, so a contribution made
// mid-month stays with its month-end position even when the window starts at
// that month's end. Filtered positions are rebased by subtracting the last
// position before the window; that point is kept unrebased in Before for
// callers that price the history it stands for.
func filterWindow(positions []models.PositionPoint, contributions []models.Contribution, start, end *time.Time) windowView {
	var view windowView
	if len(positions) == 0 || len(contributions) == 0 {
		view.Positions = append(view.Positions, positions...)
		view.Contributions = append(view.Contributions, contributions...)
		return view
	}

	if start != nil && end != nil {
		startMonth, endMonth := monthOf(*start), monthOf(*end)
		for _, p := range positions {
			if !p.Date.Before(*start) && !p.Date.After(*end) {
				view.Positions = append(view.Positions, p)
			}
		}
		for _, c := range contributions {
			month := monthOf(c.Date)
			if !month.Before(startMonth) && !month.After(endMonth) {
				view.Contributions = append(view.Contributions, c)
			}
		}
	} else {
		view.Positions = append(view.Positions, positions...)
		view.Contributions = append(view.Contributions, contributions...)
	}

	if len(view.Positions) == 0 {
		return view
	}
	first := view.Positions[0].Date
	for i := range positions {
		if positions[i].Date.Before(first) {
			before := positions[i]
			view.Before = &before
		}
	}
	if view.Before != nil {
		for i := range view.Positions {
			view.Positions[i].PositionValue -= view.Before.PositionValue
		}
	}
	return view
}

// filterMonthly applies the window bounds to monthly rows, each bound
// independently, matching rows by their month-end date.
func filterMonthly(monthly []models.MonthlyContribution, start, end *time.Time) []models.MonthlyContribution {
	var out []models.MonthlyContribution
	for _, m := range monthly {
		if start != nil && m.Date.Before(*start) {
			continue
		}
		if end != nil && m.Date.After(*end) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// filterMonthlyWindow cuts the analysis window out of the monthly rows the
// way filterWindow cuts contributions: only when both bounds are set,
// matching rows by calendar month.
func filterMonthlyWindow(monthly []models.MonthlyContribution, start, end *time.Time) []models.MonthlyContribution {
	if start == nil || end == nil {
		return append([]models.MonthlyContribution(nil), monthly...)
	}
	startMonth, endMonth := monthOf(*start), monthOf(*end)
	var out []models.MonthlyContribution
	for _, m := range monthly {
		month := monthOf(m.Date)
		if !month.Before(startMonth) && !month.After(endMonth) {
			out = append(out, m)
		}
	}
	return out
}

// monthOf truncates a date to the first day of its month, UTC.
func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// contributionFlows converts contributions into dated cash flows under the
// active accounting toggle.
func contributionFlows(contributions []models.Contribution, companyAsMine bool) []models.CashFlow {
	flows := make([]models.CashFlow, 0, len(contributions))
	for _, c := range contributions {
		flows = append(flows, models.CashFlow{Date: c.Date, Amount: c.Amount(companyAsMine)})
	}
	return flows
}
