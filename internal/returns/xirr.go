package returns

import (
	"math"
	"time"
)

const (
	rateBracketLow  = -0.99
	rateBracketHigh = 10.0
	rateTolerance   = 1e-10
	maxIterations   = 200
	businessYear    = 252.0
	calendarYear    = 365.0
)

// SolveRate finds the annual rate that zeroes the net present value of the
// dated cash flows. Negative amounts are money paid in, positive amounts
// money taken out or the closing position. Each flow is discounted by its
// business-day distance from the earliest flow over a 252-day year, so the
// result reads directly against CDI-style published rates.
//
// The root is bracketed in [-99%, +1000%] and bisected to 1e-10. When no
// sign change exists in that bracket the solver retries with calendar-day
// year fractions and Newton-Raphson before reporting failure.
func SolveRate(dates []time.Time, amounts []float64) (float64, bool) {
	if len(dates) != len(amounts) || len(dates) < 2 {
		return 0, false
	}

	origin := dates[0]
	for _, d := range dates[1:] {
		if d.Before(origin) {
			origin = d
		}
	}

	years := make([]float64, len(dates))
	for i, d := range dates {
		years[i] = float64(BusinessDays(origin, d)) / businessYear
	}

	if rate, ok := bisectRate(amounts, years); ok {
		return rate, true
	}
	return solveCalendarRate(dates, amounts, origin)
}

// bisectRate bisects NPV(r) over [rateBracketLow, rateBracketHigh]. It fails
// when the bracket holds no sign change.
func bisectRate(amounts, years []float64) (float64, bool) {
	lo, hi := rateBracketLow, rateBracketHigh
	npvLo := netPresentValue(amounts, years, lo)
	npvHi := netPresentValue(amounts, years, hi)

	if npvLo == 0 {
		return lo, true
	}
	if npvHi == 0 {
		return hi, true
	}
	if math.IsNaN(npvLo) || math.IsNaN(npvHi) || npvLo*npvHi > 0 {
		return 0, false
	}

	for iter := 0; iter < maxIterations && hi-lo > rateTolerance; iter++ {
		mid := (lo + hi) / 2
		npvMid := netPresentValue(amounts, years, mid)
		if npvMid == 0 {
			return mid, true
		}
		if npvLo*npvMid < 0 {
			hi = mid
		} else {
			lo = mid
			npvLo = npvMid
		}
	}
	return (lo + hi) / 2, true
}

func netPresentValue(amounts, years []float64, rate float64) float64 {
	npv := 0.0
	for i, amount := range amounts {
		npv += amount / math.Pow(1+rate, years[i])
	}
	return npv
}

// solveCalendarRate is the fallback: the same flows under actual/365 year
// fractions, solved by Newton-Raphson from an annualized-total-return guess.
func solveCalendarRate(dates []time.Time, amounts []float64, origin time.Time) (float64, bool) {
	years := make([]float64, len(dates))
	for i, d := range dates {
		years[i] = d.Sub(origin).Hours() / 24 / calendarYear
	}

	var invested, returned, maxYears float64
	for i, amount := range amounts {
		if amount < 0 {
			invested -= amount
		} else {
			returned += amount
		}
		if years[i] > maxYears {
			maxYears = years[i]
		}
	}
	if invested == 0 || returned == 0 || maxYears <= 0 {
		return 0, false
	}

	rate := math.Pow(returned/invested, 1/maxYears) - 1
	if rate <= rateBracketLow {
		rate = -0.9
	}
	if rate > rateBracketHigh {
		rate = rateBracketHigh
	}

	for iter := 0; iter < 100; iter++ {
		var npv, deriv float64
		for i, amount := range amounts {
			pow := math.Pow(1+rate, years[i])
			npv += amount / pow
			deriv -= years[i] * amount / (pow * (1 + rate))
		}
		if math.Abs(npv) < 1e-7 {
			return rate, true
		}
		if deriv == 0 || math.IsNaN(deriv) {
			return 0, false
		}

		next := rate - npv/deriv
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return 0, false
		}
		if next <= rateBracketLow {
			next = (rate + rateBracketLow) / 2
		}
		if math.Abs(next-rate) < rateTolerance {
			return next, true
		}
		rate = next
	}
	return 0, false
}
