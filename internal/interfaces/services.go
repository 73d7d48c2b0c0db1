// Package interfaces defines service contracts for Extrato
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/extrato/internal/models"
)

// StatementService parses and reconciles uploaded statements
type StatementService interface {
	// LoadStatement extracts rows, contributions and positions from a statement PDF
	LoadStatement(ctx context.Context, path string) (*models.Statement, error)
}

// SeriesProvider hands out benchmark series by name. Implementations decide
// the fetch window; a miss (unknown name or failed fetch) reports false.
type SeriesProvider interface {
	Get(ctx context.Context, name string) (models.ValueSeries, bool)
}

// BenchmarkService fetches and prepares comparison series
type BenchmarkService interface {
	// Catalog lists the benchmarks the service knows how to fetch
	Catalog() []models.BenchmarkSpec

	// Fetch retrieves one benchmark normalized to 1.0 at its first point
	Fetch(ctx context.Context, name string, from, to time.Time) (models.ValueSeries, error)

	// NewSessionCache builds a read-through cache over a fixed fetch window
	NewSessionCache(from, to time.Time) SeriesProvider
}

// ReportService computes statistics, comparisons and rendered outputs.
// Operations that honor the deflation or benchmark toggles take a
// SeriesProvider to resolve the index series they need.
type ReportService interface {
	// Summary aggregates the whole statement before any window filtering
	Summary(statement *models.Statement) models.SummaryStats

	// Stats computes the headline account statistics for the selected window
	Stats(ctx context.Context, statement *models.Statement, provider SeriesProvider, options models.AnalysisOptions) (*models.AccountStats, error)

	// Comparison simulates the statement's cash flows on the selected benchmark
	Comparison(ctx context.Context, statement *models.Statement, provider SeriesProvider, options models.AnalysisOptions) ([]models.BenchmarkComparison, error)

	// MonthlyTable renders the month-by-month position table
	MonthlyTable(ctx context.Context, statement *models.Statement, provider SeriesProvider, options models.AnalysisOptions) models.Table

	// ContributionsTable renders the per-month contribution table
	ContributionsTable(ctx context.Context, statement *models.Statement, provider SeriesProvider, options models.AnalysisOptions) models.Table

	// ExportCSV serializes a rendered table
	ExportCSV(table models.Table) ([]byte, error)

	// RenderPositionChart draws positions against the simulated benchmark as PNG
	RenderPositionChart(ctx context.Context, statement *models.Statement, provider SeriesProvider, options models.AnalysisOptions) ([]byte, error)

	// RenderContributionsChart draws monthly contributions and running totals as PNG
	RenderContributionsChart(ctx context.Context, statement *models.Statement, provider SeriesProvider, options models.AnalysisOptions) ([]byte, error)
}

// InsightService produces AI commentary over computed results
type InsightService interface {
	// GenerateInsight writes a short narrative over the statement and stats
	GenerateInsight(ctx context.Context, statement *models.Statement, stats *models.AccountStats, comparisons []models.BenchmarkComparison) (string, error)
}
