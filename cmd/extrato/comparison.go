package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

type comparisonCmd struct {
	analysisFlags
}

func (*comparisonCmd) Name() string { return "comparison" }
func (*comparisonCmd) Synopsis() string {
	return "simulate the statement's contributions on each benchmark"
}
func (*comparisonCmd) Usage() string {
	return `extrato comparison [-start <month>] [-end <month>] [-benchmark <name>] [-overhead <pct>] <statement.pdf>

  Replays the statement's contributions into each benchmark of the catalog
  and prints the counterfactual final values and annualized returns.
  -benchmark restricts the comparison to one benchmark.
`
}

func (c *comparisonCmd) SetFlags(f *flag.FlagSet) {
	c.windowFlags(f)
	c.benchmarkFlags(f)
}

func (c *comparisonCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	// Empty selection means the whole catalog here.
	if v := strings.TrimSpace(c.benchmark); v != "" {
		options.Benchmark = strings.ToUpper(v)
	}

	comparisons, err := a.ReportService.Comparison(ctx, stmt, newProvider(a, stmt), options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing comparison: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown("# Comparação com benchmarks\n\n" + comparisonTable(comparisons))
	return subcommands.ExitSuccess
}
