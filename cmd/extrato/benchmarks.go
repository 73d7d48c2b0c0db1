package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/bobmcallan/extrato/internal/models"
)

type benchmarksCmd struct{}

func (*benchmarksCmd) Name() string     { return "benchmarks" }
func (*benchmarksCmd) Synopsis() string { return "list the benchmarks available for comparison" }
func (*benchmarksCmd) Usage() string {
	return `extrato benchmarks

  Lists the catalog of external series the analyzer can compare against.
`
}

func (*benchmarksCmd) SetFlags(*flag.FlagSet) {}

func (*benchmarksCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	table := models.Table{Columns: []string{"Nome", "Descrição", "Fonte", "Série"}}
	for _, spec := range a.BenchmarkService.Catalog() {
		series := spec.Symbol
		if spec.Source == models.BenchmarkSourceBCB {
			series = fmt.Sprintf("SGS %d", spec.SeriesCode)
		}
		table.Rows = append(table.Rows, []string{spec.Name, spec.Label, string(spec.Source), series})
	}

	printMarkdown("# Benchmarks\n\n" + markdownTable(table))
	return subcommands.ExitSuccess
}
