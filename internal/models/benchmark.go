package models

import (
	"fmt"
	"strconv"
	"strings"
)

// BenchmarkSource identifies where a benchmark's raw series comes from.
type BenchmarkSource string

const (
	BenchmarkSourceBCB   BenchmarkSource = "bcb"
	BenchmarkSourceYahoo BenchmarkSource = "yahoo"
)

// SeriesKind describes how raw fetched data converts into a cumulative index.
type SeriesKind string

const (
	SeriesKindDailyRate    SeriesKind = "daily_rate"    // daily percent rates, compounded
	SeriesKindMonthlyIndex SeriesKind = "monthly_index" // monthly percent variations, compounded
	SeriesKindDailyClose   SeriesKind = "daily_close"   // daily price closes
)

// BenchmarkSpec is one catalog entry: a named external series the account can
// be compared against.
type BenchmarkSpec struct {
	Name       string          `json:"name"`  // stable key ("CDI", "IPCA", ...)
	Label      string          `json:"label"` // display label
	Source     BenchmarkSource `json:"source"`
	SeriesCode int             `json:"series_code,omitempty"` // BCB SGS series number
	Symbol     string          `json:"symbol,omitempty"`      // Yahoo ticker
	Kind       SeriesKind      `json:"kind"`
	Inflation  bool            `json:"inflation"` // usable as a deflation index
}

// OverheadLabel renders the comparison label for a benchmark with an annual
// overhead applied, e.g. "CDI +2%".
func (b BenchmarkSpec) OverheadLabel(overheadPct float64) string {
	if overheadPct == 0 {
		return b.Name
	}
	return fmt.Sprintf("%s +%s%%", b.Name, strconv.FormatFloat(overheadPct, 'f', -1, 64))
}

// BenchmarkCatalog lists the external series the analyzer can compare
// against. BCB series arrive as percent changes and are compounded into an
// index; Yahoo symbols arrive as price closes and are rebased.
func BenchmarkCatalog() []BenchmarkSpec {
	return []BenchmarkSpec{
		{Name: "CDI", Label: "CDI", Source: BenchmarkSourceBCB, SeriesCode: 12, Kind: SeriesKindDailyRate},
		{Name: "IPCA", Label: "IPCA (inflação)", Source: BenchmarkSourceBCB, SeriesCode: 433, Kind: SeriesKindMonthlyIndex, Inflation: true},
		{Name: "INPC", Label: "INPC (inflação)", Source: BenchmarkSourceBCB, SeriesCode: 188, Kind: SeriesKindMonthlyIndex, Inflation: true},
		{Name: "SP500", Label: "S&P 500 Total Return", Source: BenchmarkSourceYahoo, Symbol: "^SP500TR", Kind: SeriesKindDailyClose},
		{Name: "USD", Label: "Dólar (USD/BRL)", Source: BenchmarkSourceYahoo, Symbol: "USDBRL=X", Kind: SeriesKindDailyClose},
	}
}

// FindBenchmark looks a catalog entry up by name, case-insensitively.
func FindBenchmark(name string) (BenchmarkSpec, bool) {
	for _, spec := range BenchmarkCatalog() {
		if strings.EqualFold(spec.Name, name) {
			return spec, true
		}
	}
	return BenchmarkSpec{}, false
}
