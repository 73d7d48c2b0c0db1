package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/bobmcallan/extrato/internal/interfaces"
	"github.com/bobmcallan/extrato/internal/models"
)

type positionsCmd struct {
	analysisFlags
	csvPath string
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "display the month-by-month position table" }
func (*positionsCmd) Usage() string {
	return `extrato positions [-start <month>] [-end <month>] [-benchmark <name>] [-deflate] [-csv <path>] <statement.pdf>

  Prints the reconstructed monthly positions with cumulative contributions
  and, when a benchmark is selected, the simulated benchmark value.
  -csv writes raw CSV to a file instead ("-" for stdout).
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	c.windowFlags(f)
	c.benchmarkFlags(f)
	f.StringVar(&c.csvPath, "csv", "", "Write CSV to this path instead of printing a table ('-' for stdout).")
}

func (c *positionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runTable(ctx, f, &c.analysisFlags, c.csvPath, "Posições mensais",
		func(ctx context.Context, a tableApp, stmt *models.Statement, options models.AnalysisOptions) models.Table {
			return a.reports.MonthlyTable(ctx, stmt, a.provider, options)
		})
}

type contributionsCmd struct {
	analysisFlags
	csvPath string
}

func (*contributionsCmd) Name() string     { return "contributions" }
func (*contributionsCmd) Synopsis() string { return "display the monthly contribution table" }
func (*contributionsCmd) Usage() string {
	return `extrato contributions [-start <month>] [-end <month>] [-mine] [-csv <path>] <statement.pdf>

  Prints the monthly contributions split between participant and sponsor,
  with running totals. -csv writes raw CSV instead ("-" for stdout).
`
}

func (c *contributionsCmd) SetFlags(f *flag.FlagSet) {
	c.windowFlags(f)
	c.benchmarkFlags(f)
	f.StringVar(&c.csvPath, "csv", "", "Write CSV to this path instead of printing a table ('-' for stdout).")
}

func (c *contributionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runTable(ctx, f, &c.analysisFlags, c.csvPath, "Contribuições mensais",
		func(ctx context.Context, a tableApp, stmt *models.Statement, options models.AnalysisOptions) models.Table {
			return a.reports.ContributionsTable(ctx, stmt, a.provider, options)
		})
}

// tableApp carries the pieces a table builder needs.
type tableApp struct {
	reports  interfaces.ReportService
	provider interfaces.SeriesProvider
}

// runTable loads the statement, renders one of the tables and prints or
// exports it.
func runTable(ctx context.Context, f *flag.FlagSet, flags *analysisFlags, csvPath, title string,
	build func(context.Context, tableApp, *models.Statement, models.AnalysisOptions) models.Table) subcommands.ExitStatus {

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

	options, err := flags.options(a.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	options.Benchmark = resolveBenchmark(flags.benchmark, a.Config)

	table := build(ctx, tableApp{reports: a.ReportService, provider: newProvider(a, stmt)}, stmt, options)

	if csvPath != "" {
		data, err := a.ReportService.ExportCSV(table)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting CSV: %v\n", err)
			return subcommands.ExitFailure
		}
		if csvPath == "-" {
			os.Stdout.Write(data)
			return subcommands.ExitSuccess
		}
		if err := os.WriteFile(csvPath, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", csvPath, err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", csvPath)
		return subcommands.ExitSuccess
	}

	printMarkdown("# " + title + "\n\n" + markdownTable(table))
	return subcommands.ExitSuccess
}
