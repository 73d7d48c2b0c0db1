package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type chartCmd struct {
	analysisFlags
	kind     string
	output   string
	logScale bool
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "render a chart PNG from a statement PDF" }
func (*chartCmd) Usage() string {
	return `extrato chart [-kind position|contributions] [-o <path>] [-benchmark <name>] [-log] <statement.pdf>

  Renders the position-vs-benchmark chart or the monthly contributions
  chart to a PNG file.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	c.windowFlags(f)
	c.benchmarkFlags(f)
	f.StringVar(&c.kind, "kind", "position", "Chart to render: position or contributions.")
	f.StringVar(&c.output, "o", "", "Output PNG path. Defaults to extrato_posicao.png or extrato_contribuicoes.png.")
	f.BoolVar(&c.logScale, "log", false, "Use a logarithmic value axis.")
}

func (c *chartCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	options.LogScale = c.logScale

	provider := newProvider(a, stmt)

	var png []byte
	output := c.output
	switch c.kind {
	case "position":
		png, err = a.ReportService.RenderPositionChart(ctx, stmt, provider, options)
		if output == "" {
			output = "extrato_posicao.png"
		}
	case "contributions":
		png, err = a.ReportService.RenderContributionsChart(ctx, stmt, provider, options)
		if output == "" {
			output = "extrato_contribuicoes.png"
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown chart kind %q: use position or contributions\n", c.kind)
		return subcommands.ExitUsageError
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering chart: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := os.WriteFile(output, png, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", output, err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(os.Stderr, "Wrote %s\n", output)
	return subcommands.ExitSuccess
}
