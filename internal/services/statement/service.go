package statement

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/bobmcallan/extrato/internal/common"
	"github.com/bobmcallan/extrato/internal/models"
)

// Service implements the StatementService interface
type Service struct {
	logger *common.Logger
}

// NewService creates a new statement service
func NewService(logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewDefaultLogger()
	}
	return &Service{logger: logger}
}

// LoadStatement extracts, reconciles and derives every series the analyzer
// needs from one statement PDF.
func (s *Service) LoadStatement(ctx context.Context, path string) (*models.Statement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := extractDocument(path)
	if err != nil {
		return nil, fmt.Errorf("extracting statement: %w", err)
	}
	if len(doc.rows) == 0 {
		return nil, fmt.Errorf("no transaction rows found in %s", filepath.Base(path))
	}

	stmt := &models.Statement{
		FileName:         filepath.Base(path),
		Rows:             doc.rows,
		Balance:          doc.balance,
		UnitValueByMonth: doc.unitValues,
	}

	visibleUnits := 0.0
	for _, row := range doc.rows {
		visibleUnits += row.UnitsDelta
	}

	// The balance section is the only source that can reveal a missing
	// prefix; without it the statement is taken at face value.
	if doc.balance != nil {
		first := doc.rows[0]
		stmt.Partial = Reconcile(doc.balance.TotalUnits, visibleUnits, first.UnitValue, first.MonthAnchor)
	}

	startingUnits := 0.0
	if stmt.Partial.IsPartial {
		startingUnits = stmt.Partial.MissingUnits
	}
	stmt.Positions = buildPositions(doc.rows, startingUnits)
	stmt.Contributions = buildContributions(doc.rows)
	stmt.Monthly = models.MonthlyFromContributions(stmt.Contributions)

	for _, c := range stmt.Contributions {
		if c.SponsorAmount > 0 {
			stmt.HasSponsor = true
			break
		}
	}

	s.logger.Info().
		Str("file", stmt.FileName).
		Int("rows", len(stmt.Rows)).
		Int("months", len(stmt.Positions)).
		Bool("partial", stmt.Partial.IsPartial).
		Msg("Statement loaded")
	return stmt, nil
}
