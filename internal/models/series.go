package models

import (
	"sort"
	"time"
)

// SeriesPoint is one dated value of a time series.
type SeriesPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// ValueSeries is a date-sorted, date-unique series of values. The zero value
// is an empty series ready to use.
type ValueSeries struct {
	Name   string        `json:"name,omitempty"`
	Points []SeriesPoint `json:"points"`
}

// Len returns the number of points.
func (s *ValueSeries) Len() int { return len(s.Points) }

// First returns the earliest point and true, or a zero point and false.
func (s *ValueSeries) First() (SeriesPoint, bool) {
	if len(s.Points) == 0 {
		return SeriesPoint{}, false
	}
	return s.Points[0], true
}

// Last returns the latest point and true, or a zero point and false.
func (s *ValueSeries) Last() (SeriesPoint, bool) {
	if len(s.Points) == 0 {
		return SeriesPoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Append adds a point, keeping the series sorted and dates unique.
// An existing value at the same date is overwritten.
func (s *ValueSeries) Append(date time.Time, value float64) {
	i, exact := s.Search(date)
	if exact {
		s.Points[i].Value = value
		return
	}
	s.Points = append(s.Points, SeriesPoint{})
	copy(s.Points[i+1:], s.Points[i:])
	s.Points[i] = SeriesPoint{Date: date, Value: value}
}

// Search returns the index of the first point not before date, and whether
// that point falls exactly on date.
func (s *ValueSeries) Search(date time.Time) (int, bool) {
	i := sort.Search(len(s.Points), func(i int) bool {
		return !s.Points[i].Date.Before(date)
	})
	exact := i < len(s.Points) && s.Points[i].Date.Equal(date)
	return i, exact
}

// Copy returns an independent copy of the series.
func (s *ValueSeries) Copy() ValueSeries {
	out := ValueSeries{Name: s.Name}
	if len(s.Points) > 0 {
		out.Points = make([]SeriesPoint, len(s.Points))
		copy(out.Points, s.Points)
	}
	return out
}

// NewValueSeries builds a sorted, date-unique series from arbitrary points.
// Later duplicates win, matching the append semantics.
func NewValueSeries(name string, points []SeriesPoint) ValueSeries {
	s := ValueSeries{Name: name}
	for _, p := range points {
		s.Append(p.Date, p.Value)
	}
	return s
}
