// Package returns implements the rate calculations: the business-day XIRR
// solver, the Modified Dietz period return and the whole-series summary.
package returns

import "time"

// Brazilian market calendar: weekends plus the national holidays observed by
// the exchanges. Fixed dates, plus the Easter-derived Carnival Monday and
// Tuesday, Good Friday and Corpus Christi. Nov 20 is national from 2024
// (law 14759/2023).

const (
	calendarFirstYear = 1990
	calendarLastYear  = 2100
)

var holidayTable = buildHolidayTable()

func dateKey(year int, month time.Month, day int) int {
	return year*10000 + int(month)*100 + day
}

func buildHolidayTable() map[int]struct{} {
	fixed := [][2]int{
		{1, 1},   // Confraternização Universal
		{4, 21},  // Tiradentes
		{5, 1},   // Dia do Trabalho
		{9, 7},   // Independência
		{10, 12}, // Nossa Senhora Aparecida
		{11, 2},  // Finados
		{11, 15}, // Proclamação da República
		{12, 25}, // Natal
	}

	table := make(map[int]struct{})
	for year := calendarFirstYear; year <= calendarLastYear; year++ {
		for _, md := range fixed {
			table[dateKey(year, time.Month(md[0]), md[1])] = struct{}{}
		}
		if year >= 2024 {
			table[dateKey(year, time.November, 20)] = struct{}{} // Consciência Negra
		}
		easter := easterSunday(year)
		for _, offset := range []int{-48, -47, -2, 60} {
			h := easter.AddDate(0, 0, offset)
			table[dateKey(h.Year(), h.Month(), h.Day())] = struct{}{}
		}
	}
	return table
}

// easterSunday computes Gregorian Easter using the Meeus/Jones/Butcher
// algorithm.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// IsBusinessDay reports whether t falls on a trading day: a weekday that is
// not a national holiday.
func IsBusinessDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	_, holiday := holidayTable[dateKey(t.Year(), t.Month(), t.Day())]
	return !holiday
}

// BusinessDays counts business days in the half-open interval [from, to).
// The count is negative when to precedes from.
func BusinessDays(from, to time.Time) int {
	from = midnightUTC(from)
	to = midnightUTC(to)
	if to.Before(from) {
		return -BusinessDays(to, from)
	}

	count := 0
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		if IsBusinessDay(day) {
			count++
		}
	}
	return count
}

func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
