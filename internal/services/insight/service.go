// Package insight produces a short AI reading of computed statement results
package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bobmcallan/extrato/internal/common"
	"github.com/bobmcallan/extrato/internal/interfaces"
	"github.com/bobmcallan/extrato/internal/models"
)

// ErrNotConfigured is returned when no Gemini client is available. Callers
// treat it as "feature off", not as a failure.
var ErrNotConfigured = errors.New("insight service not configured")

// Service implements the InsightService interface
type Service struct {
	gemini interfaces.GeminiClient
	logger *common.Logger
}

// NewService creates a new insight service. A nil gemini client disables the
// service; GenerateInsight then returns ErrNotConfigured.
func NewService(gemini interfaces.GeminiClient, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewDefaultLogger()
	}
	return &Service{
		gemini: gemini,
		logger: logger,
	}
}

// GenerateInsight writes a short narrative over the statement and stats
func (s *Service) GenerateInsight(ctx context.Context, statement *models.Statement, stats *models.AccountStats, comparisons []models.BenchmarkComparison) (string, error) {
	if s.gemini == nil {
		return "", ErrNotConfigured
	}
	if statement == nil || stats == nil {
		return "", fmt.Errorf("no computed statistics to read")
	}

	prompt := buildInsightPrompt(statement, stats, comparisons)

	s.logger.Debug().Str("file", statement.FileName).Int("comparisons", len(comparisons)).Msg("Generating insight")

	text, err := s.gemini.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generating insight: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// buildInsightPrompt creates a prompt over the computed numbers. The reading
// is for the participant, so the answer is requested in Portuguese.
func buildInsightPrompt(statement *models.Statement, stats *models.AccountStats, comparisons []models.BenchmarkComparison) string {
	var sb strings.Builder

	sb.WriteString("Você é um analista de previdência complementar. Com base apenas nos números abaixo, ")
	sb.WriteString("escreva uma leitura de 3 a 5 frases, em português claro, para o participante do plano: ")
	sb.WriteString("como a posição evoluiu, como se compara aos benchmarks e o que merece atenção. ")
	sb.WriteString("Não invente números além dos fornecidos.\n\n")

	fmt.Fprintf(&sb, "Extrato: %s (%d meses de contribuição)\n", statement.FileName, len(statement.Monthly))
	fmt.Fprintf(&sb, "%s: %s\n", stats.PositionLabel, stats.PositionText)
	fmt.Fprintf(&sb, "%s: %s\n", stats.InvestedLabel, stats.InvestedText)
	fmt.Fprintf(&sb, "Rentabilidade anualizada: %s\n", stats.CAGRText)
	fmt.Fprintf(&sb, "Resultado: %s\n", stats.TotalReturnText)

	if stats.IsPartial {
		sb.WriteString("Atenção: o extrato é parcial; a rentabilidade considera apenas as contribuições visíveis, ")
		sb.WriteString("com o saldo anterior tratado como já existente no início do período.\n")
	}

	available := make([]models.BenchmarkComparison, 0, len(comparisons))
	for _, cmp := range comparisons {
		if cmp.Available {
			available = append(available, cmp)
		}
	}
	if len(available) > 0 {
		sb.WriteString("\nSimulação dos mesmos aportes em benchmarks:\n")
		for _, cmp := range available {
			fmt.Fprintf(&sb, "- %s: %s (%s)\n", cmp.Label, cmp.FinalText, cmp.CAGRText)
		}
	}

	return sb.String()
}

// Ensure Service implements InsightService
var _ interfaces.InsightService = (*Service)(nil)
