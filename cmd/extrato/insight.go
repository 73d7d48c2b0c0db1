package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/bobmcallan/extrato/internal/services/insight"
)

type insightCmd struct {
	analysisFlags
}

func (*insightCmd) Name() string     { return "insight" }
func (*insightCmd) Synopsis() string { return "ask the AI for a short reading of the statement" }
func (*insightCmd) Usage() string {
	return `extrato insight [-start <month>] [-end <month>] <statement.pdf>

  Computes the statement statistics and benchmark comparison, then asks
  Gemini for a short plain-language reading. Requires GEMINI_API_KEY (or
  the configured key).
`
}

func (c *insightCmd) SetFlags(f *flag.FlagSet) {
	c.windowFlags(f)
	c.benchmarkFlags(f)
}

func (c *insightCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	// Whole catalog unless one benchmark was picked.
	if v := strings.TrimSpace(c.benchmark); v != "" && !strings.EqualFold(v, "none") {
		options.Benchmark = strings.ToUpper(v)
	}

	provider := newProvider(a, stmt)

	stats, err := a.ReportService.Stats(ctx, stmt, provider, options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing statistics: %v\n", err)
		return subcommands.ExitFailure
	}

	comparisons, err := a.ReportService.Comparison(ctx, stmt, provider, options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing comparison: %v\n", err)
		return subcommands.ExitFailure
	}

	text, err := a.InsightService.GenerateInsight(ctx, stmt, stats, comparisons)
	if err != nil {
		if errors.Is(err, insight.ErrNotConfigured) {
			fmt.Fprintln(os.Stderr, "AI insight is not configured: set GEMINI_API_KEY or clients.gemini.api_key.")
		} else {
			fmt.Fprintf(os.Stderr, "Error generating insight: %v\n", err)
		}
		return subcommands.ExitFailure
	}

	printMarkdown(text + "\n")
	return subcommands.ExitSuccess
}
