package returns

import (
	"time"

	"github.com/bobmcallan/extrato/internal/models"
)

// TimeWeightedReturn computes the Modified Dietz return of a period together
// with the value the period's contributions grew to. Each contribution is
// weighted by the fraction of the period it stayed invested:
//
//	rate = (end - start - Σc) / (start + Σ(c_i × f_i))
//
// The second result distributes that rate back over the contributions,
//
//	grown = Σ(c_i × (1 + rate × f_i))
//
// which for a zero starting position reproduces end exactly. This is the
// attribution figure that bridges contributions to the closing position; the
// headline annual rate comes from SolveRate and the two must not be mixed.
//
// With no contributions the rate degrades to the simple return end/start - 1
// (zero when there is no starting position) and grown is zero. A non-positive
// denominator also yields a zero rate, with grown equal to the plain sum of
// contributions.
func TimeWeightedReturn(flows []models.CashFlow, startPosition, endPosition float64, periodStart, periodEnd time.Time) (rate, grown float64) {
	if len(flows) == 0 {
		if startPosition > 0 {
			return endPosition/startPosition - 1, 0
		}
		return 0, 0
	}

	totalDays := periodEnd.Sub(periodStart).Hours() / 24
	if totalDays <= 0 {
		totalDays = 1
	}

	fractions := make([]float64, len(flows))
	var totalContributed, weighted float64
	for i, flow := range flows {
		remaining := periodEnd.Sub(flow.Date).Hours() / 24
		fraction := remaining / totalDays
		if fraction < 0 {
			fraction = 0
		}
		if fraction > 1 {
			fraction = 1
		}
		fractions[i] = fraction
		totalContributed += flow.Amount
		weighted += flow.Amount * fraction
	}

	denominator := startPosition + weighted
	if denominator <= 0 {
		return 0, totalContributed
	}

	rate = (endPosition - startPosition - totalContributed) / denominator
	for i, flow := range flows {
		grown += flow.Amount * (1 + rate*fractions[i])
	}
	return rate, grown
}
