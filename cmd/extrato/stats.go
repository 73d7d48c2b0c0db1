package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/bobmcallan/extrato/internal/models"
)

type statsCmd struct {
	analysisFlags
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "display account statistics for a statement PDF" }
func (*statsCmd) Usage() string {
	return `extrato stats [-start <month>] [-end <month>] [-benchmark <name>] [-overhead <pct>] [-deflate] [-mine] <statement.pdf>

  Prints the headline figures of the statement: final position, total
  invested, annualized return and absolute result, plus a comparison
  against the selected benchmark.
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	c.windowFlags(f)
	c.benchmarkFlags(f)
}

func (c *statsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	stmt, err := loadStatement(ctx, a, f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	options, err := c.options(a.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	options.Benchmark = resolveBenchmark(c.benchmark, a.Config)

	provider := newProvider(a, stmt)

	stats, err := a.ReportService.Stats(ctx, stmt, provider, options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing statistics: %v\n", err)
		return subcommands.ExitFailure
	}

	var comparisons []models.BenchmarkComparison
	if options.Benchmark != "" {
		comparisons, err = a.ReportService.Comparison(ctx, stmt, provider, options)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error computing comparison: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	printMarkdown(statsMarkdown(stmt, stats, comparisons))
	return subcommands.ExitSuccess
}

func statsMarkdown(stmt *models.Statement, stats *models.AccountStats, comparisons []models.BenchmarkComparison) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", stmt.FileName)
	fmt.Fprintf(&b, "- **%s**: %s\n", stats.PositionLabel, stats.PositionText)
	fmt.Fprintf(&b, "- **%s**: %s\n", stats.InvestedLabel, stats.InvestedText)
	fmt.Fprintf(&b, "- **Rentabilidade anualizada**: %s\n", stats.CAGRText)
	fmt.Fprintf(&b, "- **Resultado**: %s\n", stats.TotalReturnText)

	if stats.IsPartial {
		b.WriteString("\n> Extrato parcial: contribuições anteriores ao período visível não entram nos totais.\n")
	}

	if len(comparisons) > 0 {
		b.WriteString("\n## Simulação nos benchmarks\n\n")
		b.WriteString(comparisonTable(comparisons))
	}

	return b.String()
}
