// Package interfaces defines service contracts for Extrato
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/extrato/internal/models"
)

// BCBClient provides access to the Banco Central do Brasil SGS API
type BCBClient interface {
	// FetchSeries retrieves one SGS series over a date range, oldest first
	FetchSeries(ctx context.Context, code int, from, to time.Time) ([]models.SeriesPoint, error)
}

// YahooClient provides access to Yahoo Finance chart data
type YahooClient interface {
	// FetchDailyCloses retrieves daily closing prices for a symbol, oldest first
	FetchDailyCloses(ctx context.Context, symbol string, from, to time.Time) ([]models.SeriesPoint, error)
}

// GeminiClient provides access to Gemini API
type GeminiClient interface {
	// GenerateContent generates AI content from a prompt
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
