// Package impact computes the One Cup impact report: headline metrics with
// administrator overrides, month buckets for a selected year, and tree
// location aggregates.
//
// The package is storage agnostic. Collections are reached through the
// interfaces in sources.go, which the Mongo stores implement.
package impact

import (
	"errors"
	"strings"
)

// Metric is a headline impact metric that an administrator may override.
type Metric string

const (
	TreesPlanted     Metric = "trees_planted"
	YouthTrained     Metric = "youth_trained"
	CoffeeCupsSold   Metric = "coffee_cups_sold"
	FarmersSupported Metric = "farmers_supported"
	TotalDonations   Metric = "total_donations"
)

// SuccessStories keys the published-story count in Stats.Origins. It is
// always computed: it is not in Metrics, and ParseMetric rejects it, so no
// override can target it.
const SuccessStories Metric = "total_success_stories"

// Metrics lists every overridable metric in display order.
var Metrics = []Metric{
	TreesPlanted,
	YouthTrained,
	CoffeeCupsSold,
	FarmersSupported,
	TotalDonations,
}

var metricLabels = map[Metric]string{
	TreesPlanted:     "Trees Planted",
	YouthTrained:     "Youth Trained",
	CoffeeCupsSold:   "Coffee Cups Sold",
	FarmersSupported: "Farmers Supported",
	TotalDonations:   "Total Donations",
}

// ErrUnknownMetric is returned by ParseMetric for names outside the enum.
var ErrUnknownMetric = errors.New("unknown impact metric")

// Valid reports whether m is one of the enumerated metrics.
func (m Metric) Valid() bool {
	_, ok := metricLabels[m]
	return ok
}

// Label returns the human-readable name of m.
func (m Metric) Label() string {
	if l, ok := metricLabels[m]; ok {
		return l
	}
	return string(m)
}

func (m Metric) String() string { return string(m) }

// ParseMetric maps an administrator-entered name to a Metric.
// "Trees Planted", "trees-planted" and "trees_planted" all resolve to
// TreesPlanted. Normalization happens here, at write time, so stored
// override rows always carry the canonical key.
func ParseMetric(name string) (Metric, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.Join(strings.FieldsFunc(key, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "_")
	m := Metric(key)
	if !m.Valid() {
		return "", ErrUnknownMetric
	}
	return m, nil
}
