// Package models defines data structures for Extrato
package models

import (
	"sort"
	"time"
)

// TransactionRow is one parsed statement line: a contribution, a fee or any
// other movement of units.
type TransactionRow struct {
	MonthAnchor    time.Time `json:"month_anchor"` // first day of the statement month the row belongs to
	ExactDate      time.Time `json:"exact_date"`
	Description    string    `json:"description"`
	UnitValue      float64   `json:"unit_value"`
	UnitsDelta     float64   `json:"units_delta"` // negative for fees
	IsContribution bool      `json:"is_contribution"`
	IsParticipant  bool      `json:"is_participant"` // participant (vs sponsor) contribution
}

// PositionPoint is one month-end point of the reconstructed position series.
// PositionValue is always CumulativeUnits * UnitValue.
type PositionPoint struct {
	Date            time.Time `json:"date"` // normalized to month end
	CumulativeUnits float64   `json:"cumulative_units"`
	UnitValue       float64   `json:"unit_value"`
	PositionValue   float64   `json:"position_value"`
}

// Contribution aggregates the contribution rows sharing one exact date.
// ParticipantAmount + SponsorAmount equals TotalAmount within rounding.
type Contribution struct {
	Date              time.Time `json:"date"`
	TotalAmount       float64   `json:"total_amount"`
	ParticipantAmount float64   `json:"participant_amount"`
	SponsorAmount     float64   `json:"sponsor_amount"`
}

// Amount returns the contribution amount under the active accounting toggle:
// participant money only when sponsor contributions are treated as free.
func (c Contribution) Amount(companyAsMine bool) float64 {
	if companyAsMine {
		return c.ParticipantAmount
	}
	return c.TotalAmount
}

// MonthlyContribution is the per-month aggregation of contributions with
// running totals, keyed like the position series by month end.
type MonthlyContribution struct {
	Date                  time.Time `json:"date"` // month end
	Total                 float64   `json:"total"`
	Participant           float64   `json:"participant"`
	Sponsor               float64   `json:"sponsor"`
	CumulativeTotal       float64   `json:"cumulative_total"`
	CumulativeParticipant float64   `json:"cumulative_participant"`
}

// MonthlyFromContributions aggregates contributions by calendar month, dated
// at month end like the position series, with running totals.
func MonthlyFromContributions(contributions []Contribution) []MonthlyContribution {
	if len(contributions) == 0 {
		return nil
	}

	byMonth := make(map[time.Time]*MonthlyContribution)
	for _, c := range contributions {
		monthEnd := EndOfMonth(c.Date)
		m, ok := byMonth[monthEnd]
		if !ok {
			m = &MonthlyContribution{Date: monthEnd}
			byMonth[monthEnd] = m
		}
		m.Total += c.TotalAmount
		m.Participant += c.ParticipantAmount
		m.Sponsor += c.SponsorAmount
	}

	out := make([]MonthlyContribution, 0, len(byMonth))
	for _, m := range byMonth {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	var runTotal, runParticipant float64
	for i := range out {
		runTotal += out[i].Total
		runParticipant += out[i].Participant
		out[i].CumulativeTotal = runTotal
		out[i].CumulativeParticipant = runParticipant
	}
	return out
}

// EndOfMonth returns the last day of t's month at midnight UTC, the date both
// monthly series are keyed by.
func EndOfMonth(t time.Time) time.Time {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1)
}

// CashFlow is a dated amount, the input shape of the rate solvers.
// Negative = money leaving the investor, positive = money returning.
type CashFlow struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// BalanceSummary holds the figures scraped from the statement's total-balance
// section: the fund's own view of the account at statement date.
type BalanceSummary struct {
	TotalBalance  float64   `json:"total_balance"`
	TotalUnits    float64   `json:"total_units"`
	UnitValue     float64   `json:"unit_value,omitempty"`      // quoted unit value, when present
	UnitValueDate time.Time `json:"unit_value_date,omitempty"` // date the quoted unit value refers to
}

// PartialMetadata describes whether the statement covers the account's full
// history and, if not, the size of the invisible prefix.
type PartialMetadata struct {
	IsPartial         bool      `json:"is_partial"`
	MissingUnits      float64   `json:"missing_units"`
	StartingPosition  float64   `json:"starting_position"` // missing units priced at the first visible month's unit value
	FirstVisibleMonth time.Time `json:"first_visible_month"`
}

// Statement is everything parsed and derived from one PDF statement.
// All series are immutable snapshots; adjustments always produce new series.
type Statement struct {
	FileName         string                `json:"file_name"`
	Rows             []TransactionRow      `json:"rows"`
	Contributions    []Contribution        `json:"contributions"` // by exact date, ascending
	Monthly          []MonthlyContribution `json:"monthly"`
	Positions        []PositionPoint       `json:"positions"`
	Balance          *BalanceSummary       `json:"balance,omitempty"`             // nil when the section was not found
	UnitValueByMonth map[string]float64    `json:"unit_value_by_month,omitempty"` // "01/2024" -> unit value, from the profitability section
	Partial          PartialMetadata       `json:"partial"`
	HasSponsor       bool                  `json:"has_sponsor"` // statement distinguishes participant and sponsor rows
}

// FirstContributionDate returns the date of the earliest contribution, or
// zero time when there are none.
func (s *Statement) FirstContributionDate() time.Time {
	if len(s.Contributions) == 0 {
		return time.Time{}
	}
	return s.Contributions[0].Date
}

// LastPositionDate returns the date of the latest position point, or zero
// time when the series is empty.
func (s *Statement) LastPositionDate() time.Time {
	if len(s.Positions) == 0 {
		return time.Time{}
	}
	return s.Positions[len(s.Positions)-1].Date
}

// FetchWindow returns the span benchmark fetches should cover: the first
// contribution (or first position) through the last position. Missing ends
// fall back to now.
func (s *Statement) FetchWindow(now time.Time) (time.Time, time.Time) {
	from := s.FirstContributionDate()
	if from.IsZero() && len(s.Positions) > 0 {
		from = s.Positions[0].Date
	}
	if from.IsZero() {
		from = now
	}
	to := s.LastPositionDate()
	if to.IsZero() {
		to = now
	}
	return from, to
}
