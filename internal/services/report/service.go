// Package report computes statement statistics, benchmark comparisons and the
// rendered table, CSV and chart outputs
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/extrato/internal/common"
	"github.com/bobmcallan/extrato/internal/interfaces"
	"github.com/bobmcallan/extrato/internal/models"
	"github.com/bobmcallan/extrato/internal/returns"
)

// Service implements ReportService
type Service struct {
	logger *common.Logger
}

// NewService creates a new report service
func NewService(logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewDefaultLogger()
	}
	return &Service{logger: logger}
}

// Summary aggregates the whole statement before any window filtering.
func (s *Service) Summary(statement *models.Statement) models.SummaryStats {
	return returns.SummaryStatistics(statement.Positions, statement.Contributions)
}

// Stats computes the headline account statistics for the selected window.
func (s *Service) Stats(ctx context.Context, statement *models.Statement, provider interfaces.SeriesProvider, options models.AnalysisOptions) (*models.AccountStats, error) {
	if statement == nil {
		return nil, fmt.Errorf("no statement loaded")
	}

	view := s.resolveView(ctx, statement, provider, options)
	missing := 0.0
	if statement.Partial.IsPartial {
		missing = statement.Partial.MissingUnits
	}

	stats := computeStats(view.Positions, view.Contributions, options, missing)
	s.logger.Debug().
		Str("file", statement.FileName).
		Str("period", stats.PeriodStart.Format("2006-01")+".."+stats.PeriodEnd.Format("2006-01")).
		Bool("deflated", view.Deflated).
		Msg("Computed account stats")
	return stats, nil
}

// statementView is the data one report operation works on: the statement's
// own series, or constant-currency copies when the deflation toggle is on.
type statementView struct {
	Positions     []models.PositionPoint
	Contributions []models.Contribution
	Monthly       []models.MonthlyContribution
	Deflated      bool
	Index         models.ValueSeries
	Reference     time.Time
}

// resolveView applies the deflation toggle. When the index cannot be fetched
// the nominal series are served instead; a missing index degrades the view,
// it does not fail the operation.
func (s *Service) resolveView(ctx context.Context, statement *models.Statement, provider interfaces.SeriesProvider, options models.AnalysisOptions) statementView {
	view := statementView{
		Positions:     statement.Positions,
		Contributions: statement.Contributions,
		Monthly:       statement.Monthly,
	}
	if !options.Deflate || options.DeflationIndex == "" || provider == nil {
		return view
	}

	index, ok := provider.Get(ctx, options.DeflationIndex)
	if !ok {
		s.logger.Warn().Str("index", options.DeflationIndex).Msg("Deflation index unavailable, serving nominal values")
		return view
	}

	reference := time.Time{}
	switch {
	case options.ReferenceMonth != nil:
		reference = *options.ReferenceMonth
	case len(statement.Positions) > 0:
		reference = statement.Positions[0].Date
	}

	view.Positions, view.Contributions = deflateStatement(statement.Positions, statement.Contributions, index, reference)
	view.Monthly = models.MonthlyFromContributions(view.Contributions)
	view.Deflated = true
	view.Index = index
	view.Reference = reference
	return view
}

// Ensure Service implements ReportService
var _ interfaces.ReportService = (*Service)(nil)
