// Package metrics observes rendered frames of a particle field.
package metrics

import "github.com/san-kum/nodefield/internal/field"

// Metric is a frame observer that folds every frame into one number.
type Metric interface {
	field.Observer
	Name() string
	Value() float64
	Reset()
}

// Defaults returns the metrics recorded for every session.
func Defaults() []Metric {
	return []Metric{NewLinkDensity(), NewLinkOpacity(), NewPulseLevel(), NewContainment()}
}

// Values snapshots each metric by name.
func Values(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// Observers adapts metrics for field.WithObserver.
func Observers(ms []Metric) []field.Observer {
	out := make([]field.Observer, len(ms))
	for i, m := range ms {
		out[i] = m
	}
	return out
}
