package models

import (
	"time"
)

// AnalysisOptions carries the view-time toggles of one analysis: the date
// window, benchmark selection, overhead, deflation and contribution
// accounting. Nil dates mean "full range".
type AnalysisOptions struct {
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	Benchmark      string     `json:"benchmark,omitempty"`
	OverheadPct    float64    `json:"overhead_pct,omitempty"`
	Deflate        bool       `json:"deflate,omitempty"`
	DeflationIndex string     `json:"deflation_index,omitempty"`
	ReferenceMonth *time.Time `json:"reference_month,omitempty"` // deflation reference; default first position month
	CompanyAsMine  bool       `json:"company_as_mine,omitempty"` // count only participant money as invested
	LogScale       bool       `json:"log_scale,omitempty"`       // chart hint
}

// AccountStats is the headline card set for a statement window.
type AccountStats struct {
	PositionLabel string  `json:"position_label"` // "Posição em 12/2024"
	Position      float64 `json:"position"`       // total position incl. any invisible prefix
	PositionText  string  `json:"position_text"`

	InvestedLabel string  `json:"invested_label"` // "Investido de 01/2023 a 12/2024"
	Invested      float64 `json:"invested"`
	InvestedText  string  `json:"invested_text"`

	CAGR     *float64 `json:"cagr,omitempty"` // decimal annual rate, nil = not computable
	CAGRText string   `json:"cagr_text"`

	TotalReturn     float64 `json:"total_return"` // growth of visible contributions only
	TotalReturnText string  `json:"total_return_text"`

	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`

	MissingUnits float64 `json:"missing_units,omitempty"` // effective invisible prefix for this window
	IsPartial    bool    `json:"is_partial"`
}

// SummaryStats is the whole-series aggregate computed before any window
// filtering: last position, money in, growth and headline CAGR.
type SummaryStats struct {
	LastPosition     float64   `json:"last_position"`
	LastDate         time.Time `json:"last_date"`
	TotalContributed float64   `json:"total_contributed"`
	TotalReturn      float64   `json:"total_return"`
	CAGR             *float64  `json:"cagr,omitempty"` // decimal annual rate
}

// BenchmarkComparison is the counterfactual result of investing the same
// contributions into one benchmark.
type BenchmarkComparison struct {
	Name          string        `json:"name"`
	Label         string        `json:"label"` // includes overhead, e.g. "CDI +2%"
	OverheadPct   float64       `json:"overhead_pct"`
	Available     bool          `json:"available"` // false when the series could not be fetched
	FinalPosition *float64      `json:"final_position,omitempty"`
	FinalText     string        `json:"final_text"`
	CAGR          *float64      `json:"cagr,omitempty"` // decimal annual rate
	CAGRText      string        `json:"cagr_text"`
	Series        []SeriesPoint `json:"series,omitempty"` // display curve (synthetic start included when partial)
}

// Table is an ordered set of named columns with formatted cell values, the
// shape consumed by the table views and the CSV export.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// StatementSummary is the upload response: enough for a client to render the
// initial view and configure its range selectors.
type StatementSummary struct {
	SessionID     string          `json:"session_id,omitempty"`
	FileName      string          `json:"file_name"`
	RowCount      int             `json:"row_count"`
	MonthCount    int             `json:"month_count"`
	FirstMonth    time.Time       `json:"first_month"`
	LastMonth     time.Time       `json:"last_month"`
	HasSponsor    bool            `json:"has_sponsor"`
	Partial       PartialMetadata `json:"partial"`
	Balance       *BalanceSummary `json:"balance,omitempty"`
	Benchmarks    []BenchmarkSpec `json:"benchmarks,omitempty"`
	Summary       SummaryStats    `json:"summary"`
	UploadedAtUTC time.Time       `json:"uploaded_at_utc"`
}
