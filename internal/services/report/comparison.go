package report

import (
	"context"
	"time"

	"github.com/bobmcallan/extrato/internal/common"
	"github.com/bobmcallan/extrato/internal/interfaces"
	"github.com/bobmcallan/extrato/internal/models"
	"github.com/bobmcallan/extrato/internal/returns"
	"github.com/bobmcallan/extrato/internal/series"
)

// Comparison runs the counterfactual for the selected benchmark, or for the
// whole catalog when none is named. Benchmarks whose series cannot be fetched
// come back with Available false rather than failing the set.
func (s *Service) Comparison(ctx context.Context, statement *models.Statement, provider interfaces.SeriesProvider, options models.AnalysisOptions) ([]models.BenchmarkComparison, error) {
	view := s.resolveView(ctx, statement, provider, options)

	var names []string
	if options.Benchmark != "" {
		names = []string{options.Benchmark}
	} else {
		for _, spec := range models.BenchmarkCatalog() {
			names = append(names, spec.Name)
		}
	}

	comparisons := make([]models.BenchmarkComparison, 0, len(names))
	for _, name := range names {
		comparisons = append(comparisons, s.compareBenchmark(ctx, name, statement, provider, view, options))
	}
	return comparisons, nil
}

// compareBenchmark replays the window's contributions into one benchmark and
// prices the result the way the account itself is priced: the display curve
// carries any inherited balance, while the annual rate covers only the money
// visible in the statement.
func (s *Service) compareBenchmark(ctx context.Context, name string, statement *models.Statement, provider interfaces.SeriesProvider, view statementView, options models.AnalysisOptions) models.BenchmarkComparison {
	label := name
	if spec, found := models.FindBenchmark(name); found {
		label = spec.OverheadLabel(options.OverheadPct)
	}
	cmp := models.BenchmarkComparison{
		Name:        name,
		Label:       label,
		OverheadPct: options.OverheadPct,
		FinalText:   common.EmptyCell,
		CAGRText:    common.EmptyCell,
	}

	filtered := filterWindow(view.Positions, view.Contributions, options.StartDate, options.EndDate)
	// Simulation always buys with nominal money; deflation is applied to the
	// simulated positions afterwards, like the account's own series.
	nominal := filterWindow(view.Positions, statement.Contributions, options.StartDate, options.EndDate)
	if len(nominal.Contributions) == 0 || len(filtered.Positions) == 0 {
		return cmp
	}

	index, ok := provider.Get(ctx, name)
	if !ok {
		s.logger.Warn().Str("benchmark", name).Msg("Benchmark series unavailable")
		return cmp
	}
	cmp.Available = true
	withOverhead := series.ApplyOverhead(index, options.OverheadPct)

	flows := contributionFlows(nominal.Contributions, options.CompanyAsMine)
	display := withInheritedBalance(flows, statement.Partial, filtered.Positions[0].Date)
	dates := valuationDates(filtered.Positions, display)

	sim := simulateForDisplay(withOverhead, display, dates)
	if view.Deflated {
		sim = deflatePoints(sim, view.Index, view.Reference)
	}
	if len(sim) == 0 {
		return cmp
	}

	final := sim[len(sim)-1].Value
	lastDate := filtered.Positions[len(filtered.Positions)-1].Date

	// A partial statement's rate must measure visible money only, so it gets
	// its own simulation without the inherited balance.
	cagrFinal := final
	if statement.Partial.IsPartial {
		visible := simulateForAttribution(withOverhead, flows, dates)
		if view.Deflated {
			visible = deflatePoints(visible, view.Index, view.Reference)
		}
		cagrFinal = 0
		if len(visible) > 0 {
			cagrFinal = visible[len(visible)-1].Value
		}
	}

	cagrDates := make([]time.Time, 0, len(filtered.Contributions)+1)
	cagrAmounts := make([]float64, 0, len(filtered.Contributions)+1)
	for _, c := range filtered.Contributions {
		cagrDates = append(cagrDates, c.Date)
		cagrAmounts = append(cagrAmounts, -c.Amount(options.CompanyAsMine))
	}
	cagrDates = append(cagrDates, lastDate)
	cagrAmounts = append(cagrAmounts, cagrFinal)

	cmp.FinalPosition = &final
	cmp.FinalText = "Posição " + label + ": " + common.FormatCurrency(final)
	cmp.Series = sim
	cmp.CAGRText = common.NotAvailable
	if rate, solved := returns.SolveRate(cagrDates, cagrAmounts); solved {
		cmp.CAGR = &rate
		cmp.CAGRText = common.FormatAnnualRate(rate)
	}
	return cmp
}

// simulateForDisplay prices flows that already include any inherited balance,
// producing the curve shown next to the account's own positions.
func simulateForDisplay(index models.ValueSeries, display []models.CashFlow, dates []time.Time) []models.SeriesPoint {
	return series.Simulate(index, display, dates)
}

// simulateForAttribution prices only the statement's visible flows, the same
// money the account's own rate is computed on. Kept separate from the display
// simulation so the two figures cannot silently drift together.
func simulateForAttribution(index models.ValueSeries, flows []models.CashFlow, dates []time.Time) []models.SeriesPoint {
	return series.Simulate(index, flows, dates)
}

// withInheritedBalance prepends a partial statement's reconstructed starting
// position as a synthetic flow dated at the first displayed position, the
// date that balance is first seen.
func withInheritedBalance(flows []models.CashFlow, partial models.PartialMetadata, start time.Time) []models.CashFlow {
	if !partial.IsPartial {
		return flows
	}
	synthetic := models.CashFlow{Date: start, Amount: partial.StartingPosition}
	return append([]models.CashFlow{synthetic}, flows...)
}

// valuationDates keeps the position dates from the first flow month onward,
// the span over which the benchmark actually holds money.
func valuationDates(positions []models.PositionPoint, flows []models.CashFlow) []time.Time {
	if len(flows) == 0 {
		dates := make([]time.Time, len(positions))
		for i, p := range positions {
			dates[i] = p.Date
		}
		return dates
	}

	first := flows[0].Date
	for _, f := range flows[1:] {
		if f.Date.Before(first) {
			first = f.Date
		}
	}
	firstMonth := monthOf(first)

	var dates []time.Time
	for _, p := range positions {
		if !monthOf(p.Date).Before(firstMonth) {
			dates = append(dates, p.Date)
		}
	}
	return dates
}

// deflatePoints converts simulated positions to constant currency.
func deflatePoints(points []models.SeriesPoint, index models.ValueSeries, reference time.Time) []models.SeriesPoint {
	wrapped := models.NewValueSeries("", points)
	return series.Deflate(wrapped, index, reference).Points
}
