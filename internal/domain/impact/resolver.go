package impact

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/onecuponetree/onecup/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Origin records where a resolved metric value came from.
type Origin string

const (
	OriginOverride    Origin = "override"
	OriginComputed    Origin = "computed"
	OriginUnavailable Origin = "unavailable" // optional source not configured
	OriginFailed      Origin = "failed"      // source returned an error
)

// Stats holds the resolved headline metrics.
type Stats struct {
	TreesPlanted        int64
	YouthTrained        int64
	CoffeeCupsSold      int64
	FarmersSupported    int64
	TotalDonations      float64
	TotalSuccessStories int64

	Origins map[Metric]Origin
}

// RecentDonation is a paid donation shown on the staff dashboard.
type RecentDonation struct {
	DonorName string
	Amount    float64
	Currency  string
	Purpose   string
	CreatedAt time.Time
}

// Resolution is the output of Resolver.Resolve.
type Resolution struct {
	Stats           Stats
	RecentDonations []RecentDonation
}

// Resolver resolves each metric to an override or a computed fallback.
type Resolver struct {
	src Sources
	log *zap.Logger
}

// NewResolver builds a Resolver over src.
func NewResolver(src Sources, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{src: src, log: logger}
}

type countFunc func(context.Context) (int64, error)

// Resolve computes every metric. It never fails: a failing or missing source
// contributes zero and the outcome is recorded in Stats.Origins.
func (r *Resolver) Resolve(ctx context.Context, recentLimit int) Resolution {
	overrides := r.overrides(ctx)

	var youth, cups countFunc
	if r.src.Training != nil {
		youth = r.src.Training.CountSelected
	}
	if r.src.Cups != nil {
		cups = r.src.Cups.CupsSold
	}
	var trees, farmers countFunc
	if r.src.Trees != nil {
		trees = r.src.Trees.CountActive
	}
	if r.src.Farmers != nil {
		farmers = r.src.Farmers.Count
	}

	st := Stats{Origins: make(map[Metric]Origin, len(Metrics)+1)}
	st.TreesPlanted = r.count(ctx, TreesPlanted, overrides, trees, st.Origins)
	st.YouthTrained = r.count(ctx, YouthTrained, overrides, youth, st.Origins)
	st.CoffeeCupsSold = r.count(ctx, CoffeeCupsSold, overrides, cups, st.Origins)
	st.FarmersSupported = r.count(ctx, FarmersSupported, overrides, farmers, st.Origins)
	st.TotalDonations = r.donations(ctx, overrides, st.Origins)
	st.TotalSuccessStories = r.stories(ctx, st.Origins)

	return Resolution{
		Stats:           st,
		RecentDonations: r.recent(ctx, recentLimit),
	}
}

func (r *Resolver) overrides(ctx context.Context) map[Metric]int64 {
	if r.src.Overrides == nil {
		return nil
	}
	ov, err := r.src.Overrides.ActiveOverrides(ctx)
	if err != nil {
		r.log.Warn("impact: loading overrides failed; using computed values", zap.Error(err))
		return nil
	}
	return ov
}

func (r *Resolver) count(ctx context.Context, m Metric, overrides map[Metric]int64, fn countFunc, origins map[Metric]Origin) int64 {
	if v, ok := overrides[m]; ok {
		origins[m] = OriginOverride
		return v
	}
	if fn == nil {
		origins[m] = OriginUnavailable
		return 0
	}
	n, err := fn(ctx)
	if err != nil {
		r.log.Warn("impact: metric source failed", zap.String("metric", string(m)), zap.Error(err))
		origins[m] = OriginFailed
		return 0
	}
	origins[m] = OriginComputed
	return n
}

func (r *Resolver) donations(ctx context.Context, overrides map[Metric]int64, origins map[Metric]Origin) float64 {
	if v, ok := overrides[TotalDonations]; ok {
		origins[TotalDonations] = OriginOverride
		return float64(v)
	}
	if r.src.Donations == nil {
		origins[TotalDonations] = OriginUnavailable
		return 0
	}
	total, err := r.src.Donations.SumPaid(ctx)
	if err != nil {
		r.log.Warn("impact: metric source failed", zap.String("metric", string(TotalDonations)), zap.Error(err))
		origins[TotalDonations] = OriginFailed
		return 0
	}
	origins[TotalDonations] = OriginComputed
	return total
}

func (r *Resolver) stories(ctx context.Context, origins map[Metric]Origin) int64 {
	if r.src.Stories == nil {
		origins[SuccessStories] = OriginUnavailable
		return 0
	}
	n, err := r.src.Stories.CountPublished(ctx)
	if err != nil {
		r.log.Warn("impact: counting success stories failed", zap.Error(err))
		origins[SuccessStories] = OriginFailed
		return 0
	}
	origins[SuccessStories] = OriginComputed
	return n
}

func (r *Resolver) recent(ctx context.Context, limit int) []RecentDonation {
	if r.src.Donations == nil || limit <= 0 {
		return []RecentDonation{}
	}
	rows, err := r.src.Donations.RecentPaid(ctx, limit)
	if err != nil {
		r.log.Warn("impact: loading recent donations failed", zap.Error(err))
		return []RecentDonation{}
	}
	return toRecent(rows)
}

// DecimalToFloat converts a Decimal128 amount to float64 for charting.
// Unparseable values convert to 0.
func DecimalToFloat(d primitive.Decimal128) float64 {
	f, err := strconv.ParseFloat(d.String(), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func toRecent(rows []models.Donation) []RecentDonation {
	out := make([]RecentDonation, 0, len(rows))
	for _, d := range rows {
		out = append(out, RecentDonation{
			DonorName: d.DonorName,
			Amount:    DecimalToFloat(d.Amount),
			Currency:  d.Currency,
			Purpose:   d.Purpose,
			CreatedAt: d.CreatedAt,
		})
	}
	return out
}
