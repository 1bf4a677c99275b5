package impact_test

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/onecuponetree/onecup/internal/domain/impact"
	"github.com/onecuponetree/onecup/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errBoom = errors.New("boom")

// memTrees is an in-memory TreeSource.
type memTrees struct {
	rows []models.Tree
	err  error
}

func (m *memTrees) CountActive(ctx context.Context) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	var n int64
	for _, t := range m.rows {
		if t.IsActive {
			n++
		}
	}
	return n, nil
}

func (m *memTrees) CountByMonth(ctx context.Context, year int) (map[time.Month]int64, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := map[time.Month]int64{}
	for _, t := range m.rows {
		if t.PlantedDate.Year() == year {
			out[t.PlantedDate.Month()]++
		}
	}
	return out, nil
}

func (m *memTrees) Years(ctx context.Context) ([]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	var ys []int
	for _, t := range m.rows {
		ys = append(ys, t.PlantedDate.Year())
	}
	return ys, nil
}

func (m *memTrees) TopLocations(ctx context.Context, limit int) ([]impact.LocationCount, error) {
	if m.err != nil {
		return nil, m.err
	}
	counts := map[string]int64{}
	for _, t := range m.rows {
		if t.Location != "" {
			counts[t.Location]++
		}
	}
	out := make([]impact.LocationCount, 0, len(counts))
	for loc, n := range counts {
		out = append(out, impact.LocationCount{Location: loc, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Location < out[j].Location })
	return out, nil
}

func (m *memTrees) Geocoded(ctx context.Context) ([]models.Tree, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Tree
	for _, t := range m.rows {
		if t.HasCoordinates() {
			out = append(out, t)
		}
	}
	return out, nil
}

// memDonations is an in-memory DonationSource.
type memDonations struct {
	rows []models.Donation
	err  error
}

func (m *memDonations) paid() []models.Donation {
	var out []models.Donation
	for _, d := range m.rows {
		if d.PaymentStatus == models.PaymentPaid {
			out = append(out, d)
		}
	}
	return out
}

func (m *memDonations) SumPaid(ctx context.Context) (float64, error) {
	if m.err != nil {
		return 0, m.err
	}
	var total float64
	for _, d := range m.paid() {
		total += impact.DecimalToFloat(d.Amount)
	}
	return total, nil
}

func (m *memDonations) SumPaidByMonth(ctx context.Context, year int) (map[time.Month]float64, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := map[time.Month]float64{}
	for _, d := range m.paid() {
		if d.CreatedAt.Year() == year {
			out[d.CreatedAt.Month()] += impact.DecimalToFloat(d.Amount)
		}
	}
	return out, nil
}

func (m *memDonations) PaidYears(ctx context.Context) ([]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	var ys []int
	for _, d := range m.paid() {
		ys = append(ys, d.CreatedAt.Year())
	}
	return ys, nil
}

func (m *memDonations) RecentPaid(ctx context.Context, limit int) ([]models.Donation, error) {
	if m.err != nil {
		return nil, m.err
	}
	paid := m.paid()
	sort.Slice(paid, func(i, j int) bool { return paid[i].CreatedAt.After(paid[j].CreatedAt) })
	if len(paid) > limit {
		paid = paid[:limit]
	}
	return paid, nil
}

type fixedCount struct {
	n   int64
	err error
}

func (f fixedCount) Count(ctx context.Context) (int64, error)          { return f.n, f.err }
func (f fixedCount) CountSelected(ctx context.Context) (int64, error)  { return f.n, f.err }
func (f fixedCount) CupsSold(ctx context.Context) (int64, error)       { return f.n, f.err }
func (f fixedCount) CountPublished(ctx context.Context) (int64, error) { return f.n, f.err }

type fixedOverrides struct {
	vals map[impact.Metric]int64
	err  error
}

func (f fixedOverrides) ActiveOverrides(ctx context.Context) (map[impact.Metric]int64, error) {
	return f.vals, f.err
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func coord(v float64) *float64 { return &v }

func tree(id string, planted time.Time, location string, active bool) models.Tree {
	return models.Tree{
		ID:          primitive.NewObjectID(),
		TreeID:      id,
		Species:     models.SpeciesCoffee,
		PlantedDate: planted,
		Location:    location,
		IsActive:    active,
	}
}

func donation(amount, status string, created time.Time) models.Donation {
	d, err := primitive.ParseDecimal128(amount)
	if err != nil {
		panic(err)
	}
	return models.Donation{
		ID:            primitive.NewObjectID(),
		DonorName:     "Donor " + amount,
		Amount:        d,
		Currency:      "RWF",
		PaymentStatus: status,
		CreatedAt:     created,
	}
}
