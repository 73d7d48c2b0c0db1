package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bobmcallan/extrato/internal/common"
	"github.com/bobmcallan/extrato/internal/models"
)

// --- Mock gemini client ---

type mockGemini struct {
	response   string
	err        error
	lastPrompt string
}

func (m *mockGemini) GenerateContent(_ context.Context, prompt string) (string, error) {
	m.lastPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func testStats() *models.AccountStats {
	cagr := 0.0741
	return &models.AccountStats{
		PositionLabel:   "Posição em 03/2024",
		Position:        3300,
		PositionText:    "R$ 3.300,00",
		InvestedLabel:   "Investido de 01/2024 a 03/2024",
		Invested:        3000,
		InvestedText:    "R$ 3.000,00",
		CAGR:            &cagr,
		CAGRText:        "+7,41% a.a.",
		TotalReturn:     300,
		TotalReturnText: "R$ 300,00 total",
		PeriodStart:     time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
		PeriodEnd:       time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
	}
}

func testStatement() *models.Statement {
	return &models.Statement{
		FileName: "extrato.pdf",
		Monthly: []models.MonthlyContribution{
			{Date: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), Total: 1000},
			{Date: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), Total: 1000},
			{Date: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), Total: 1000},
		},
	}
}

func TestGenerateInsightNotConfigured(t *testing.T) {
	svc := NewService(nil, common.NewSilentLogger())

	_, err := svc.GenerateInsight(context.Background(), testStatement(), testStats(), nil)
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("error = %v, want ErrNotConfigured", err)
	}
}

func TestGenerateInsightRequiresStats(t *testing.T) {
	svc := NewService(&mockGemini{response: "ok"}, common.NewSilentLogger())

	if _, err := svc.GenerateInsight(context.Background(), testStatement(), nil, nil); err == nil {
		t.Error("expected error for nil stats")
	}
	if _, err := svc.GenerateInsight(context.Background(), nil, testStats(), nil); err == nil {
		t.Error("expected error for nil statement")
	}
}

func TestGenerateInsightPromptCarriesNumbers(t *testing.T) {
	final := 3100.0
	cagr := 0.055
	comparisons := []models.BenchmarkComparison{
		{Name: "CDI", Label: "CDI +2%", Available: true, FinalPosition: &final, FinalText: "Posição CDI: R$ 3.100,00", CAGR: &cagr, CAGRText: "+5,50% a.a."},
		{Name: "SP500TR", Label: "SP500TR", Available: false, FinalText: "--", CAGRText: "--"},
	}

	mock := &mockGemini{response: "  O plano rendeu acima do CDI no período.\n"}
	svc := NewService(mock, common.NewSilentLogger())

	text, err := svc.GenerateInsight(context.Background(), testStatement(), testStats(), comparisons)
	if err != nil {
		t.Fatalf("GenerateInsight returned error: %v", err)
	}

	if text != "O plano rendeu acima do CDI no período." {
		t.Errorf("response not trimmed: %q", text)
	}

	for _, want := range []string{
		"extrato.pdf",
		"R$ 3.300,00",
		"R$ 3.000,00",
		"+7,41% a.a.",
		"R$ 300,00 total",
		"CDI +2%",
		"Posição CDI: R$ 3.100,00",
	} {
		if !strings.Contains(mock.lastPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	// The unavailable benchmark must not leak into the prompt
	if strings.Contains(mock.lastPrompt, "SP500TR") {
		t.Error("prompt should omit unavailable benchmarks")
	}
}

func TestGenerateInsightPartialCaveat(t *testing.T) {
	stats := testStats()
	stats.IsPartial = true
	stats.MissingUnits = 100

	mock := &mockGemini{response: "leitura"}
	svc := NewService(mock, common.NewSilentLogger())

	if _, err := svc.GenerateInsight(context.Background(), testStatement(), stats, nil); err != nil {
		t.Fatalf("GenerateInsight returned error: %v", err)
	}
	if !strings.Contains(mock.lastPrompt, "parcial") {
		t.Error("prompt missing the partial-history caveat")
	}
}

func TestGenerateInsightWrapsClientError(t *testing.T) {
	mock := &mockGemini{err: fmt.Errorf("quota exceeded")}
	svc := NewService(mock, common.NewSilentLogger())

	_, err := svc.GenerateInsight(context.Background(), testStatement(), testStats(), nil)
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("error = %v, want wrapped client error", err)
	}
}
