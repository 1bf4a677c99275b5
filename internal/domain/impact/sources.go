package impact

import (
	"context"
	"time"

	"github.com/onecuponetree/onecup/internal/domain/models"
)

// LocationCount is the number of trees planted at one location.
type LocationCount struct {
	Location string `bson:"_id"`
	Count    int64  `bson:"count"`
}

// OverrideSource returns the active administrator overrides.
type OverrideSource interface {
	ActiveOverrides(ctx context.Context) (map[Metric]int64, error)
}

// TreeSource reads the trees collection.
type TreeSource interface {
	CountActive(ctx context.Context) (int64, error)
	CountByMonth(ctx context.Context, year int) (map[time.Month]int64, error)
	Years(ctx context.Context) ([]int, error)
	TopLocations(ctx context.Context, limit int) ([]LocationCount, error)
	Geocoded(ctx context.Context) ([]models.Tree, error)
}

// DonationSource reads paid donations.
type DonationSource interface {
	SumPaid(ctx context.Context) (float64, error)
	SumPaidByMonth(ctx context.Context, year int) (map[time.Month]float64, error)
	PaidYears(ctx context.Context) ([]int, error)
	RecentPaid(ctx context.Context, limit int) ([]models.Donation, error)
}

// FarmerSource counts supported farmers.
type FarmerSource interface {
	Count(ctx context.Context) (int64, error)
}

// TrainingSource counts applicants selected for barista training.
type TrainingSource interface {
	CountSelected(ctx context.Context) (int64, error)
}

// CupsSource sums cups sold through the shop.
type CupsSource interface {
	CupsSold(ctx context.Context) (int64, error)
}

// StorySource counts published farmer success stories.
type StorySource interface {
	CountPublished(ctx context.Context) (int64, error)
}

// Sources bundles the collaborators the report reads from.
//
// Trees, Donations and Farmers are required. Overrides, Training, Cups and
// Stories are optional: a nil value means the collection is not deployed and
// the dependent metric resolves to zero with OriginUnavailable.
type Sources struct {
	Overrides OverrideSource
	Trees     TreeSource
	Donations DonationSource
	Farmers   FarmerSource
	Training  TrainingSource
	Cups      CupsSource
	Stories   StorySource
}
