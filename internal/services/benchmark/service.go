// Package benchmark fetches and normalizes the comparison index series
package benchmark

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/extrato/internal/common"
	"github.com/bobmcallan/extrato/internal/interfaces"
	"github.com/bobmcallan/extrato/internal/models"
)

// Service implements the BenchmarkService interface
type Service struct {
	bcb        interfaces.BCBClient
	yahoo      interfaces.YahooClient
	logger     *common.Logger
	bufferDays int
}

// NewService creates a new benchmark service. bufferDays widens the fetch
// window backwards so the first portfolio date never falls before the first
// series point.
func NewService(bcb interfaces.BCBClient, yahoo interfaces.YahooClient, bufferDays int, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewDefaultLogger()
	}
	return &Service{
		bcb:        bcb,
		yahoo:      yahoo,
		logger:     logger,
		bufferDays: bufferDays,
	}
}

// Catalog lists the benchmarks the service knows how to fetch.
func (s *Service) Catalog() []models.BenchmarkSpec {
	return models.BenchmarkCatalog()
}

// Fetch retrieves one benchmark over [from, to], normalized to 1.0 at its
// first point.
func (s *Service) Fetch(ctx context.Context, name string, from, to time.Time) (models.ValueSeries, error) {
	spec, found := models.FindBenchmark(name)
	if !found {
		return models.ValueSeries{}, fmt.Errorf("unknown benchmark %q", name)
	}

	fetchFrom := from.AddDate(0, 0, -s.bufferDays)

	var raw []models.SeriesPoint
	var err error
	switch spec.Source {
	case models.BenchmarkSourceBCB:
		if s.bcb == nil {
			return models.ValueSeries{}, fmt.Errorf("benchmark %s: BCB client not configured", spec.Name)
		}
		raw, err = s.bcb.FetchSeries(ctx, spec.SeriesCode, fetchFrom, to)
	case models.BenchmarkSourceYahoo:
		if s.yahoo == nil {
			return models.ValueSeries{}, fmt.Errorf("benchmark %s: Yahoo client not configured", spec.Name)
		}
		raw, err = s.yahoo.FetchDailyCloses(ctx, spec.Symbol, fetchFrom, to)
	default:
		return models.ValueSeries{}, fmt.Errorf("benchmark %s: unsupported source %q", spec.Name, spec.Source)
	}
	if err != nil {
		return models.ValueSeries{}, fmt.Errorf("fetching %s: %w", spec.Name, err)
	}

	series := normalize(spec, raw)
	if series.Len() == 0 {
		return models.ValueSeries{}, fmt.Errorf("benchmark %s: no usable points", spec.Name)
	}

	first := series.Points[0]
	last := series.Points[series.Len()-1]
	s.logger.Debug().
		Str("benchmark", spec.Name).
		Int("points", series.Len()).
		Str("from", first.Date.Format("2006-01-02")).
		Str("to", last.Date.Format("2006-01-02")).
		Msg("Fetched benchmark series")
	return series, nil
}

// NewSessionCache builds a read-through cache over a fixed fetch window.
func (s *Service) NewSessionCache(from, to time.Time) interfaces.SeriesProvider {
	return newCache(s, from, to)
}

// normalize turns raw upstream points into an index worth 1.0 at its first
// point. Rate series compound each point's percent change; close series
// rebase on the first positive close, dropping non-positive ticks.
func normalize(spec models.BenchmarkSpec, raw []models.SeriesPoint) models.ValueSeries {
	series := models.NewValueSeries(spec.Name, nil)

	switch spec.Kind {
	case models.SeriesKindDailyRate, models.SeriesKindMonthlyIndex:
		index := 1.0
		for i, p := range raw {
			if i > 0 {
				index *= 1 + p.Value/100
			}
			series.Append(p.Date, index)
		}
	case models.SeriesKindDailyClose:
		base := 0.0
		for _, p := range raw {
			if p.Value <= 0 {
				continue
			}
			if base == 0 {
				base = p.Value
			}
			series.Append(p.Date, p.Value/base)
		}
	}
	return series
}
