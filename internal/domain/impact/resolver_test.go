package impact_test

import (
	"context"
	"testing"
	"time"

	"github.com/onecuponetree/onecup/internal/domain/impact"
	"github.com/onecuponetree/onecup/internal/domain/models"
	"go.uber.org/zap"
)

func TestResolve_OverrideTakesPrecedence(t *testing.T) {
	src := impact.Sources{
		Overrides: fixedOverrides{vals: map[impact.Metric]int64{impact.TreesPlanted: 999}},
		Trees: &memTrees{rows: []models.Tree{
			tree("T1", date(2024, time.March, 1), "Huye", true),
			tree("T2", date(2024, time.March, 2), "Huye", true),
		}},
		Donations: &memDonations{},
		Farmers:   fixedCount{n: 4},
	}

	res := impact.NewResolver(src, zap.NewNop()).Resolve(context.Background(), 5)

	if res.Stats.TreesPlanted != 999 {
		t.Errorf("TreesPlanted: got %d, want 999", res.Stats.TreesPlanted)
	}
	if res.Stats.Origins[impact.TreesPlanted] != impact.OriginOverride {
		t.Errorf("origin: got %q, want %q", res.Stats.Origins[impact.TreesPlanted], impact.OriginOverride)
	}
	if res.Stats.FarmersSupported != 4 {
		t.Errorf("FarmersSupported: got %d, want 4", res.Stats.FarmersSupported)
	}
}

func TestResolve_FallbackCountsActiveTrees(t *testing.T) {
	src := impact.Sources{
		Trees: &memTrees{rows: []models.Tree{
			tree("T1", date(2024, time.March, 1), "Huye", true),
			tree("T2", date(2024, time.April, 1), "Huye", false),
			tree("T3", date(2023, time.May, 1), "Musanze", true),
		}},
		Donations: &memDonations{},
		Farmers:   fixedCount{},
	}

	res := impact.NewResolver(src, zap.NewNop()).Resolve(context.Background(), 5)

	if res.Stats.TreesPlanted != 2 {
		t.Errorf("TreesPlanted: got %d, want 2", res.Stats.TreesPlanted)
	}
	if res.Stats.Origins[impact.TreesPlanted] != impact.OriginComputed {
		t.Errorf("origin: got %q, want computed", res.Stats.Origins[impact.TreesPlanted])
	}
}

func TestResolve_TotalDonationsOnlyPaid(t *testing.T) {
	now := date(2024, time.June, 1)
	src := impact.Sources{
		Trees: &memTrees{},
		Donations: &memDonations{rows: []models.Donation{
			donation("100", models.PaymentPaid, now),
			donation("50", models.PaymentPending, now),
			donation("25", models.PaymentPaid, now),
			donation("10", models.PaymentFailed, now),
		}},
		Farmers: fixedCount{},
	}

	res := impact.NewResolver(src, zap.NewNop()).Resolve(context.Background(), 5)

	if res.Stats.TotalDonations != 125 {
		t.Errorf("TotalDonations: got %v, want 125", res.Stats.TotalDonations)
	}
}

func TestResolve_TotalDonationsOverrideIsVerbatim(t *testing.T) {
	src := impact.Sources{
		Overrides: fixedOverrides{vals: map[impact.Metric]int64{impact.TotalDonations: 5000}},
		Trees:     &memTrees{},
		Donations: &memDonations{rows: []models.Donation{donation("100", models.PaymentPaid, date(2024, 1, 1))}},
		Farmers:   fixedCount{},
	}

	res := impact.NewResolver(src, zap.NewNop()).Resolve(context.Background(), 5)

	if res.Stats.TotalDonations != 5000 {
		t.Errorf("TotalDonations: got %v, want 5000", res.Stats.TotalDonations)
	}
}

func TestResolve_OptionalSourcesMissing(t *testing.T) {
	src := impact.Sources{
		Trees:     &memTrees{},
		Donations: &memDonations{},
		Farmers:   fixedCount{},
	}

	res := impact.NewResolver(src, zap.NewNop()).Resolve(context.Background(), 5)

	if res.Stats.YouthTrained != 0 || res.Stats.CoffeeCupsSold != 0 {
		t.Errorf("optional metrics: got youth=%d cups=%d, want 0,0", res.Stats.YouthTrained, res.Stats.CoffeeCupsSold)
	}
	for _, m := range []impact.Metric{impact.YouthTrained, impact.CoffeeCupsSold} {
		if got := res.Stats.Origins[m]; got != impact.OriginUnavailable {
			t.Errorf("%s origin: got %q, want unavailable", m, got)
		}
	}
	if res.Stats.TotalSuccessStories != 0 {
		t.Errorf("TotalSuccessStories: got %d, want 0", res.Stats.TotalSuccessStories)
	}
	if got := res.Stats.Origins[impact.SuccessStories]; got != impact.OriginUnavailable {
		t.Errorf("stories origin: got %q, want unavailable", got)
	}
}

func TestResolve_OptionalSourcesPresent(t *testing.T) {
	src := impact.Sources{
		Trees:     &memTrees{},
		Donations: &memDonations{},
		Farmers:   fixedCount{},
		Training:  fixedCount{n: 12},
		Cups:      fixedCount{n: 340},
		Stories:   fixedCount{n: 3},
	}

	res := impact.NewResolver(src, zap.NewNop()).Resolve(context.Background(), 5)

	if res.Stats.YouthTrained != 12 {
		t.Errorf("YouthTrained: got %d, want 12", res.Stats.YouthTrained)
	}
	if res.Stats.CoffeeCupsSold != 340 {
		t.Errorf("CoffeeCupsSold: got %d, want 340", res.Stats.CoffeeCupsSold)
	}
	if res.Stats.TotalSuccessStories != 3 {
		t.Errorf("TotalSuccessStories: got %d, want 3", res.Stats.TotalSuccessStories)
	}
	if got := res.Stats.Origins[impact.SuccessStories]; got != impact.OriginComputed {
		t.Errorf("stories origin: got %q, want computed", got)
	}
}

func TestResolve_FailingSourcesDegradeToZero(t *testing.T) {
	src := impact.Sources{
		Overrides: fixedOverrides{err: errBoom},
		Trees:     &memTrees{err: errBoom},
		Donations: &memDonations{err: errBoom},
		Farmers:   fixedCount{err: errBoom},
		Training:  fixedCount{err: errBoom},
		Cups:      fixedCount{err: errBoom},
		Stories:   fixedCount{err: errBoom},
	}

	res := impact.NewResolver(src, zap.NewNop()).Resolve(context.Background(), 5)

	st := res.Stats
	if st.TreesPlanted != 0 || st.YouthTrained != 0 || st.CoffeeCupsSold != 0 ||
		st.FarmersSupported != 0 || st.TotalDonations != 0 || st.TotalSuccessStories != 0 {
		t.Errorf("expected all zero stats, got %+v", st)
	}
	for _, m := range append([]impact.Metric{impact.SuccessStories}, impact.Metrics...) {
		if st.Origins[m] != impact.OriginFailed {
			t.Errorf("%s origin: got %q, want failed", m, st.Origins[m])
		}
	}
	if res.RecentDonations == nil || len(res.RecentDonations) != 0 {
		t.Errorf("RecentDonations: got %v, want empty non-nil", res.RecentDonations)
	}
}

func TestResolve_RecentDonationsNewestPaidFirst(t *testing.T) {
	src := impact.Sources{
		Trees: &memTrees{},
		Donations: &memDonations{rows: []models.Donation{
			donation("1", models.PaymentPaid, date(2024, 1, 1)),
			donation("2", models.PaymentPaid, date(2024, 2, 1)),
			donation("3", models.PaymentPending, date(2024, 3, 1)),
			donation("4", models.PaymentPaid, date(2024, 4, 1)),
		}},
		Farmers: fixedCount{},
	}

	res := impact.NewResolver(src, zap.NewNop()).Resolve(context.Background(), 2)

	if len(res.RecentDonations) != 2 {
		t.Fatalf("RecentDonations: got %d rows, want 2", len(res.RecentDonations))
	}
	if res.RecentDonations[0].Amount != 4 || res.RecentDonations[1].Amount != 2 {
		t.Errorf("RecentDonations amounts: got %v,%v want 4,2",
			res.RecentDonations[0].Amount, res.RecentDonations[1].Amount)
	}
}

func TestParseMetric(t *testing.T) {
	cases := map[string]impact.Metric{
		"trees_planted":     impact.TreesPlanted,
		"Trees Planted":     impact.TreesPlanted,
		"  youth-trained ":  impact.YouthTrained,
		"Coffee Cups  Sold": impact.CoffeeCupsSold,
		"FARMERS_SUPPORTED": impact.FarmersSupported,
		"total donations":   impact.TotalDonations,
	}
	for in, want := range cases {
		got, err := impact.ParseMetric(in)
		if err != nil {
			t.Errorf("ParseMetric(%q) error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseMetric(%q): got %q, want %q", in, got, want)
		}
	}

	for _, bad := range []string{"", "trees", "co2_offset", "total_success_stories"} {
		if _, err := impact.ParseMetric(bad); err != impact.ErrUnknownMetric {
			t.Errorf("ParseMetric(%q): got err %v, want ErrUnknownMetric", bad, err)
		}
	}
}

func TestParseMetric_RejectsSuccessStories(t *testing.T) {
	if _, err := impact.ParseMetric(string(impact.SuccessStories)); err == nil {
		t.Error("success stories are always computed and must not accept overrides")
	}
}
