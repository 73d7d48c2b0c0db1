// Command extrato analyzes a Nucleos pension statement PDF from the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/bobmcallan/extrato/internal/app"
	"github.com/bobmcallan/extrato/internal/common"
	"github.com/bobmcallan/extrato/internal/interfaces"
	"github.com/bobmcallan/extrato/internal/models"
)

// Register the subcommands.
func register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(&benchmarksCmd{}, "")

	c.Register(&statsCmd{}, "analysis")
	c.Register(&comparisonCmd{}, "analysis")
	c.Register(&insightCmd{}, "analysis")

	c.Register(&positionsCmd{}, "tables")
	c.Register(&contributionsCmd{}, "tables")

	c.Register(&chartCmd{}, "output")
}

// Short lived process; globals are fine here.
var (
	configFlag  = flag.String("config", "", "Path to extrato.toml. Defaults to EXTRATO_CONFIG, then the binary directory.")
	verboseFlag = flag.Bool("v", false, "Verbose logging to stderr.")
)

// openApp loads config and wires clients and services with a quiet logger.
func openApp() (*app.App, error) {
	common.LoadVersionFromFile()

	config, err := common.LoadConfig(app.ResolveConfigPath(*configFlag))
	if err != nil {
		return nil, err
	}

	level := "warn"
	if *verboseFlag {
		level = "debug"
	}
	return app.NewAppWithLogger(config, common.NewLogger(level)), nil
}

// loadStatement parses the PDF named by the first positional argument.
func loadStatement(ctx context.Context, a *app.App, f *flag.FlagSet) (*models.Statement, error) {
	path := f.Arg(0)
	if path == "" {
		return nil, fmt.Errorf("a statement PDF path is required")
	}
	return a.StatementService.LoadStatement(ctx, path)
}

// newProvider builds a benchmark series cache spanning the statement's dates.
func newProvider(a *app.App, stmt *models.Statement) interfaces.SeriesProvider {
	from, to := stmt.FetchWindow(time.Now().UTC())
	return a.BenchmarkService.NewSessionCache(from, to)
}

// analysisFlags holds the window and toggle flags shared by the analysis
// subcommands. Each command registers only the groups it honors.
type analysisFlags struct {
	start     string
	end       string
	benchmark string
	overhead  float64
	deflate   bool
	index     string
	reference string
	mine      bool
}

func (c *analysisFlags) windowFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "start", "", "Start of the analysis window (YYYY-MM or YYYY-MM-DD).")
	f.StringVar(&c.end, "end", "", "End of the analysis window (YYYY-MM or YYYY-MM-DD).")
	f.BoolVar(&c.deflate, "deflate", false, "Show values in the reference month's money.")
	f.StringVar(&c.index, "index", "", "Deflation index, IPCA or INPC. Defaults to the configured index.")
	f.StringVar(&c.reference, "reference", "", "Deflation reference month (YYYY-MM). Defaults to the first position month.")
	f.BoolVar(&c.mine, "mine", false, "Count only participant contributions as invested money.")
}

func (c *analysisFlags) benchmarkFlags(f *flag.FlagSet) {
	f.StringVar(&c.benchmark, "benchmark", "", "Benchmark to compare against. 'none' disables; defaults to the configured benchmark.")
	f.Float64Var(&c.overhead, "overhead", 0, "Annual percentage added over the benchmark.")
}

// options validates the flags and folds in configured defaults. The
// benchmark selection is left to each command.
func (c *analysisFlags) options(cfg *common.Config) (models.AnalysisOptions, error) {
	options := models.AnalysisOptions{
		DeflationIndex: cfg.Analysis.DeflationIndex,
		CompanyAsMine:  cfg.Analysis.CompanyAsMine || c.mine,
		Deflate:        c.deflate,
		OverheadPct:    c.overhead,
	}

	if c.overhead < 0 {
		return options, fmt.Errorf("-overhead must be >= 0")
	}

	start, err := common.ParseMonthOrDate(c.start, false)
	if err != nil {
		return options, fmt.Errorf("invalid -start: %w", err)
	}
	options.StartDate = start

	end, err := common.ParseMonthOrDate(c.end, true)
	if err != nil {
		return options, fmt.Errorf("invalid -end: %w", err)
	}
	options.EndDate = end

	if start != nil && end != nil && start.After(*end) {
		return options, fmt.Errorf("-start is after -end")
	}

	if c.index != "" {
		options.DeflationIndex = strings.ToUpper(c.index)
	}

	if c.reference != "" {
		ref, err := common.ParseMonthOrDate(c.reference, false)
		if err != nil {
			return options, fmt.Errorf("invalid -reference: %w", err)
		}
		options.ReferenceMonth = ref
	}

	return options, nil
}

// resolveBenchmark applies the configured default when the flag is unset.
// The literal "none" switches the benchmark off.
func resolveBenchmark(flagValue string, cfg *common.Config) string {
	v := strings.TrimSpace(flagValue)
	if v == "" {
		return strings.ToUpper(cfg.Analysis.DefaultBenchmark)
	}
	if strings.EqualFold(v, "none") {
		return ""
	}
	return strings.ToUpper(v)
}

// printMarkdown renders markdown to the terminal, falling back to the raw
// text when rendering fails.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// markdownTable renders a Table as a markdown table, first column
// left-aligned, the rest right-aligned.
func markdownTable(table models.Table) string {
	if len(table.Columns) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("| " + strings.Join(table.Columns, " | ") + " |\n")
	b.WriteString("|:---")
	for range table.Columns[1:] {
		b.WriteString("|---:")
	}
	b.WriteString("|\n")
	for _, row := range table.Rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	return b.String()
}

func comparisonTable(comparisons []models.BenchmarkComparison) string {
	table := models.Table{Columns: []string{"Benchmark", "Valor final", "Rentabilidade"}}
	for _, c := range comparisons {
		table.Rows = append(table.Rows, []string{c.Label, c.FinalText, c.CAGRText})
	}
	return markdownTable(table)
}
