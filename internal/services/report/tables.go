package report

import (
	"context"
	"time"

	"github.com/bobmcallan/extrato/internal/common"
	"github.com/bobmcallan/extrato/internal/interfaces"
	"github.com/bobmcallan/extrato/internal/models"
	"github.com/bobmcallan/extrato/internal/series"
)

// tableDash marks a table cell with no value for that month.
const tableDash = "-"

// MonthlyTable renders the month-by-month position table: rebased position,
// cumulative contributions and, when a benchmark is selected, the simulated
// benchmark positions and raw index values side by side. Column sets follow
// the active toggles.
func (s *Service) MonthlyTable(ctx context.Context, statement *models.Statement, provider interfaces.SeriesProvider, options models.AnalysisOptions) models.Table {
	if statement == nil || len(statement.Positions) == 0 || len(statement.Contributions) == 0 {
		return models.Table{}
	}

	view := s.resolveView(ctx, statement, provider, options)
	filtered := filterWindow(view.Positions, view.Contributions, options.StartDate, options.EndDate)
	if len(filtered.Positions) == 0 {
		return models.Table{}
	}

	showParticipant := options.CompanyAsMine && statement.HasSponsor
	columns := []string{"Data", "Posição (Nucleos)", "Contrib. Total"}
	if showParticipant {
		columns = append(columns, "Contrib. Participante")
	}
	if view.Deflated {
		columns = append(columns, "Deflator ("+options.DeflationIndex+")")
	}

	deflator := lastValueByMonth(view.Index.Points)

	rows := make([][]string, 0, len(filtered.Positions))
	for _, p := range filtered.Positions {
		var total, participant float64
		for _, c := range filtered.Contributions {
			if !c.Date.After(p.Date) {
				total += c.TotalAmount
				participant += c.ParticipantAmount
			}
		}

		row := []string{
			common.FormatMonth(p.Date),
			common.FormatCurrency(p.PositionValue),
			common.FormatCurrency(total),
		}
		if showParticipant {
			row = append(row, common.FormatCurrency(participant))
		}
		if view.Deflated {
			row = append(row, numberCell(deflator, p.Date, 6))
		}
		rows = append(rows, row)
	}

	table := models.Table{Columns: columns, Rows: rows}
	if options.Benchmark != "" && len(filtered.Contributions) > 0 {
		s.appendBenchmarkColumns(ctx, &table, statement, provider, view, filtered, options)
	}
	return table
}

// appendBenchmarkColumns extends each table row with the simulated benchmark
// positions and the raw index values, with and without overhead. The
// simulation buys with nominal money and deflates the results afterwards,
// the same pipeline the comparison uses.
func (s *Service) appendBenchmarkColumns(ctx context.Context, table *models.Table, statement *models.Statement, provider interfaces.SeriesProvider, view statementView, filtered windowView, options models.AnalysisOptions) {
	index, ok := provider.Get(ctx, options.Benchmark)
	if !ok {
		s.logger.Warn().Str("benchmark", options.Benchmark).Msg("Benchmark series unavailable")
		return
	}

	spec, found := models.FindBenchmark(options.Benchmark)
	if !found {
		spec = models.BenchmarkSpec{Name: options.Benchmark}
	}
	name := spec.Name
	overheadLabel := spec.OverheadLabel(options.OverheadPct)

	nominal := filterWindow(view.Positions, statement.Contributions, options.StartDate, options.EndDate)
	flows := contributionFlows(nominal.Contributions, options.CompanyAsMine)
	display := withInheritedBalance(flows, statement.Partial, filtered.Positions[0].Date)
	dates := valuationDates(filtered.Positions, display)

	sim := simulateForDisplay(index, display, dates)
	if view.Deflated {
		sim = deflatePoints(sim, view.Index, view.Reference)
	}
	simByMonth := lastValueByMonth(sim)
	indexByMonth := lastValueByMonth(index.Points)

	withOverhead := options.OverheadPct > 0
	var simOverByMonth, indexOverByMonth map[time.Time]float64
	if withOverhead {
		boosted := series.ApplyOverhead(index, options.OverheadPct)
		simOver := simulateForDisplay(boosted, display, dates)
		if view.Deflated {
			simOver = deflatePoints(simOver, view.Index, view.Reference)
		}
		simOverByMonth = lastValueByMonth(simOver)
		indexOverByMonth = lastValueByMonth(boosted.Points)
	}

	if withOverhead {
		table.Columns = append(table.Columns, overheadLabel+" (simulado)")
	}
	table.Columns = append(table.Columns, name+" (simulado)")
	if withOverhead {
		table.Columns = append(table.Columns, overheadLabel+" (índice)")
	}
	table.Columns = append(table.Columns, name+" (índice)")

	for i, p := range filtered.Positions {
		if withOverhead {
			table.Rows[i] = append(table.Rows[i], currencyCell(simOverByMonth, p.Date))
		}
		table.Rows[i] = append(table.Rows[i], currencyCell(simByMonth, p.Date))
		if withOverhead {
			table.Rows[i] = append(table.Rows[i], numberCell(indexOverByMonth, p.Date, 4))
		}
		table.Rows[i] = append(table.Rows[i], numberCell(indexByMonth, p.Date, 4))
	}
}

// ContributionsTable renders the monthly contribution table with running
// totals, the participant and sponsor split when the accounting toggle is on,
// and the account position for months that have one.
func (s *Service) ContributionsTable(ctx context.Context, statement *models.Statement, provider interfaces.SeriesProvider, options models.AnalysisOptions) models.Table {
	if statement == nil || len(statement.Monthly) == 0 {
		return models.Table{}
	}

	view := s.resolveView(ctx, statement, provider, options)
	monthly := filterMonthly(view.Monthly, options.StartDate, options.EndDate)
	if len(monthly) == 0 {
		return models.Table{}
	}

	showSplit := options.CompanyAsMine
	hasPositions := len(view.Positions) > 0

	columns := []string{"Data"}
	if showSplit {
		columns = append(columns, "Contrib. Participante", "Contrib. Patrocinador")
	}
	columns = append(columns, "Contrib. Total", "Total Investido")
	if showSplit {
		columns = append(columns, "Contrib. Total Acum.")
	}
	if hasPositions {
		columns = append(columns, "Posição")
	}
	if view.Deflated {
		columns = append(columns, "Deflator ("+options.DeflationIndex+")")
	}

	positionByDate := make(map[time.Time]float64, len(view.Positions))
	for _, p := range view.Positions {
		positionByDate[p.Date] = p.PositionValue
	}
	deflator := lastValueByMonth(view.Index.Points)

	// Running totals restart at the window, they are not the statement-wide
	// cumulative columns.
	var invested, totalAccum float64
	rows := make([][]string, 0, len(monthly))
	for _, m := range monthly {
		if showSplit {
			invested += m.Participant
			totalAccum += m.Total
		} else {
			invested += m.Total
		}

		row := []string{common.FormatMonth(m.Date)}
		if showSplit {
			row = append(row, common.FormatCurrency(m.Participant), common.FormatCurrency(m.Sponsor))
		}
		row = append(row, common.FormatCurrency(m.Total), common.FormatCurrency(invested))
		if showSplit {
			row = append(row, common.FormatCurrency(totalAccum))
		}
		if hasPositions {
			if v, ok := positionByDate[m.Date]; ok {
				row = append(row, common.FormatCurrency(v))
			} else {
				row = append(row, tableDash)
			}
		}
		if view.Deflated {
			row = append(row, numberCell(deflator, m.Date, 6))
		}
		rows = append(rows, row)
	}
	return models.Table{Columns: columns, Rows: rows}
}

// lastValueByMonth keys a point series by calendar month, the last value
// within each month winning.
func lastValueByMonth(points []models.SeriesPoint) map[time.Time]float64 {
	out := make(map[time.Time]float64, len(points))
	for _, p := range points {
		out[monthOf(p.Date)] = p.Value
	}
	return out
}

func currencyCell(values map[time.Time]float64, date time.Time) string {
	if v, ok := values[monthOf(date)]; ok {
		return common.FormatCurrency(v)
	}
	return tableDash
}

func numberCell(values map[time.Time]float64, date time.Time, decimals int) string {
	if v, ok := values[monthOf(date)]; ok {
		return common.FormatNumber(v, decimals)
	}
	return tableDash
}
