package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/extrato/internal/common"
	"github.com/bobmcallan/extrato/internal/interfaces"
	"github.com/bobmcallan/extrato/internal/models"
)

var (
	colorNucleos     = drawing.ColorFromHex("1e40af") // blue-800
	colorInvested    = drawing.ColorFromHex("0891b2") // cyan-600
	colorParticipant = drawing.ColorFromHex("059669") // emerald-600
	colorSponsor     = drawing.ColorFromHex("d97706") // amber-600
)

// benchmarkColor maps a catalog name to its chart color.
func benchmarkColor(name string) drawing.Color {
	if spec, found := models.FindBenchmark(name); found {
		name = spec.Name
	}
	switch name {
	case "CDI":
		return drawing.ColorFromHex("22c55e")
	case "IPCA":
		return drawing.ColorFromHex("ef4444")
	case "INPC":
		return drawing.ColorFromHex("f97316")
	case "SP500":
		return drawing.ColorFromHex("3b82f6")
	case "USD":
		return drawing.ColorFromHex("a855f7")
	}
	return drawing.ColorFromHex("888888")
}

func monthTickFormatter(v interface{}) string {
	if t, ok := v.(float64); ok {
		return common.FormatMonth(chart.TimeFromFloat64(t))
	}
	return ""
}

func currencyTickFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return "R$ " + common.FormatNumber(f, 0)
	}
	return ""
}

// RenderPositionChart renders the position evolution line chart as PNG, with
// the simulated benchmark curve overlaid when one is selected.
func (s *Service) RenderPositionChart(ctx context.Context, statement *models.Statement, provider interfaces.SeriesProvider, options models.AnalysisOptions) ([]byte, error) {
	if statement == nil || len(statement.Positions) == 0 {
		return nil, fmt.Errorf("no statement loaded")
	}

	view := s.resolveView(ctx, statement, provider, options)
	filtered := filterWindow(view.Positions, view.Contributions, options.StartDate, options.EndDate)
	if len(filtered.Positions) < 2 {
		return nil, fmt.Errorf("need at least 2 position points, got %d", len(filtered.Positions))
	}

	xValues := make([]time.Time, len(filtered.Positions))
	yValues := make([]float64, len(filtered.Positions))
	for i, p := range filtered.Positions {
		xValues[i] = p.Date
		yValues[i] = p.PositionValue
	}

	seriesList := []chart.Series{
		chart.TimeSeries{
			Name: "Nucleos",
			Style: chart.Style{
				StrokeColor: colorNucleos,
				StrokeWidth: 3.0,
			},
			XValues: xValues,
			YValues: yValues,
		},
	}

	if options.Benchmark != "" {
		cmp := s.compareBenchmark(ctx, options.Benchmark, statement, provider, view, options)
		if cmp.Available && len(cmp.Series) > 0 {
			bx := make([]time.Time, len(cmp.Series))
			by := make([]float64, len(cmp.Series))
			for i, p := range cmp.Series {
				bx[i] = p.Date
				by[i] = p.Value
			}
			seriesList = append(seriesList, chart.TimeSeries{
				Name: cmp.Label,
				Style: chart.Style{
					StrokeColor:     benchmarkColor(cmp.Name),
					StrokeWidth:     2.0,
					StrokeDashArray: []float64{5.0, 3.0},
				},
				XValues: bx,
				YValues: by,
			})
		}
	}

	yAxis := chart.YAxis{
		Name:           "Posição (R$)",
		ValueFormatter: currencyTickFormatter,
	}
	if options.LogScale {
		yAxis.Range = &chart.LogarithmicRange{}
	}

	graph := chart.Chart{
		Title:  "Evolução da Posição",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition:   chart.TickPositionBetweenTicks,
			ValueFormatter: monthTickFormatter,
		},
		YAxis:  yAxis,
		Series: seriesList,
	}
	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderContributionsChart renders the monthly contribution chart as PNG:
// per-month amounts on the left axis, cumulative invested and the account
// position on the right. A partial statement plots only the growth of its
// visible units, labeled as a delta.
func (s *Service) RenderContributionsChart(ctx context.Context, statement *models.Statement, provider interfaces.SeriesProvider, options models.AnalysisOptions) ([]byte, error) {
	if statement == nil || len(statement.Monthly) == 0 || len(statement.Positions) == 0 {
		return nil, fmt.Errorf("no statement loaded")
	}

	view := s.resolveView(ctx, statement, provider, options)
	monthly := filterMonthlyWindow(view.Monthly, options.StartDate, options.EndDate)
	if len(monthly) < 2 {
		return nil, fmt.Errorf("need at least 2 monthly points, got %d", len(monthly))
	}
	filtered := filterWindow(view.Positions, view.Contributions, options.StartDate, options.EndDate)

	positions := filtered.Positions
	positionLabel := "Nucleos"
	if statement.Partial.IsPartial {
		// Only the visible units' growth; the inherited balance is not the
		// window's contribution story.
		adjusted := make([]models.PositionPoint, len(positions))
		copy(adjusted, positions)
		for i := range adjusted {
			adjusted[i].PositionValue -= statement.Partial.MissingUnits * adjusted[i].UnitValue
		}
		positions = adjusted
		positionLabel = "ΔNucleos"
	}

	months := make([]time.Time, len(monthly))
	for i, m := range monthly {
		months[i] = m.Date
	}

	showSplit := options.CompanyAsMine
	var seriesList []chart.Series
	if showSplit {
		participant := make([]float64, len(monthly))
		sponsor := make([]float64, len(monthly))
		for i, m := range monthly {
			participant[i] = m.Participant
			sponsor[i] = m.Sponsor
		}
		seriesList = append(seriesList,
			chart.TimeSeries{
				Name:    "Participante",
				Style:   chart.Style{StrokeColor: colorParticipant, StrokeWidth: 1.5},
				XValues: months,
				YValues: participant,
			},
			chart.TimeSeries{
				Name:    "Patrocinador",
				Style:   chart.Style{StrokeColor: colorSponsor, StrokeWidth: 1.5},
				XValues: months,
				YValues: sponsor,
			},
		)
	} else {
		totals := make([]float64, len(monthly))
		for i, m := range monthly {
			totals[i] = m.Total
		}
		seriesList = append(seriesList, chart.TimeSeries{
			Name:    "Contribuição Mensal",
			Style:   chart.Style{StrokeColor: colorParticipant, StrokeWidth: 1.5},
			XValues: months,
			YValues: totals,
		})
	}

	// Cumulative invested restarts at the window, like the table column.
	investedLabel := "Total Investido"
	if showSplit {
		investedLabel = "Total Investido (Participante)"
	}
	invested := make([]float64, len(monthly))
	var sum float64
	for i, m := range monthly {
		if showSplit {
			sum += m.Participant
		} else {
			sum += m.Total
		}
		invested[i] = sum
	}
	seriesList = append(seriesList, chart.TimeSeries{
		Name:    investedLabel,
		Style:   chart.Style{StrokeColor: colorInvested, StrokeWidth: 3.0},
		YAxis:   chart.YAxisSecondary,
		XValues: months,
		YValues: invested,
	})

	if showSplit {
		totalAccum := make([]float64, len(monthly))
		var total float64
		for i, m := range monthly {
			total += m.Total
			totalAccum[i] = total
		}
		seriesList = append(seriesList, chart.TimeSeries{
			Name:    "Contribuição Total",
			Style:   chart.Style{StrokeColor: colorSponsor, StrokeWidth: 2.0},
			YAxis:   chart.YAxisSecondary,
			XValues: months,
			YValues: totalAccum,
		})
	}

	if len(positions) > 0 {
		px := make([]time.Time, len(positions))
		py := make([]float64, len(positions))
		for i, p := range positions {
			px[i] = p.Date
			py[i] = p.PositionValue
		}
		seriesList = append(seriesList, chart.TimeSeries{
			Name:    positionLabel,
			Style:   chart.Style{StrokeColor: colorNucleos, StrokeWidth: 3.0},
			YAxis:   chart.YAxisSecondary,
			XValues: px,
			YValues: py,
		})
	}

	graph := chart.Chart{
		Title:  "Contribuições Mensais",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition:   chart.TickPositionBetweenTicks,
			ValueFormatter: monthTickFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Contribuição Mensal (R$)",
			ValueFormatter: currencyTickFormatter,
		},
		YAxisSecondary: chart.YAxis{
			Name:           "Valor (R$)",
			ValueFormatter: currencyTickFormatter,
		},
		Series: seriesList,
	}
	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
