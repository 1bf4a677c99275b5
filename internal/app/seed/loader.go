package seed

import (
	"context"
	"fmt"
	"time"

	impactstatstore "github.com/onecuponetree/onecup/internal/app/store/impactstats"
	"github.com/onecuponetree/onecup/internal/domain/models"
	"go.uber.org/zap"
)

type TreeWriter interface {
	Insert(context.Context, models.Tree) error
}

type DonationWriter interface {
	Insert(context.Context, models.Donation) error
}

type TrainingWriter interface {
	Insert(context.Context, models.TrainingApplication) error
}

type OrderWriter interface {
	Insert(context.Context, models.Order) error
}

type TestimonialWriter interface {
	Insert(context.Context, models.Testimonial) error
}

type FarmerWriter interface {
	Insert(context.Context, models.Farmer) (models.Farmer, error)
	InsertStory(context.Context, models.FarmerStory) error
}

type OverrideWriter interface {
	Set(context.Context, impactstatstore.SetInput) (models.ImpactStat, error)
}

// Writers are the stores a Loader writes through.
type Writers struct {
	Farmers      FarmerWriter
	Trees        TreeWriter
	Donations    DonationWriter
	Training     TrainingWriter
	Orders       OrderWriter
	Testimonials TestimonialWriter
	Overrides    OverrideWriter
}

// Summary counts inserted records per section.
type Summary struct {
	Farmers, Stories, Trees, Donations, Training, Orders, Testimonials, Overrides int
}

// Loader applies a validated File.
type Loader struct {
	w   Writers
	log *zap.Logger
	now func() time.Time
}

func NewLoader(w Writers, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{w: w, log: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Apply validates f and inserts it section by section. It stops at the
// first write error; records written before it stay written.
func (l *Loader) Apply(ctx context.Context, f File) (Summary, error) {
	var sum Summary
	if err := f.Validate(); err != nil {
		return sum, err
	}
	now := l.now()

	farmerIDs := map[string]models.Farmer{}
	for _, fm := range f.Farmers {
		saved, err := l.w.Farmers.Insert(ctx, models.Farmer{
			HouseholdID: fm.HouseholdID,
			FullName:    fm.Name,
			Village:     fm.Village,
			CreatedAt:   now,
		})
		if err != nil {
			return sum, err
		}
		if fm.HouseholdID != "" {
			farmerIDs[fm.HouseholdID] = saved
		}
		sum.Farmers++
	}
	for _, st := range f.Stories {
		err := l.w.Farmers.InsertStory(ctx, models.FarmerStory{
			FarmerID:    farmerIDs[st.Farmer].ID,
			Title:       st.Title,
			Content:     st.Content,
			IsPublished: st.Published,
			CreatedAt:   now,
		})
		if err != nil {
			return sum, err
		}
		sum.Stories++
	}
	for _, t := range f.Trees {
		if err := l.w.Trees.Insert(ctx, t.TreeModel(now)); err != nil {
			return sum, err
		}
		sum.Trees++
	}
	for _, d := range f.Donations {
		if err := l.w.Donations.Insert(ctx, d.DonationModel()); err != nil {
			return sum, err
		}
		sum.Donations++
	}
	for _, a := range f.Training {
		err := l.w.Training.Insert(ctx, models.TrainingApplication{
			FullName:            a.Name,
			Email:               a.Email,
			SelectedForTraining: a.Selected,
			CreatedAt:           now,
		})
		if err != nil {
			return sum, err
		}
		sum.Training++
	}
	for _, o := range f.Orders {
		if err := l.w.Orders.Insert(ctx, o.OrderModel(now)); err != nil {
			return sum, err
		}
		sum.Orders++
	}
	for _, t := range f.Testimonials {
		err := l.w.Testimonials.Insert(ctx, models.Testimonial{
			Author:     t.Author,
			Role:       t.Role,
			Quote:      t.Quote,
			IsFeatured: t.Featured,
			CreatedAt:  now,
		})
		if err != nil {
			return sum, err
		}
		sum.Testimonials++
	}
	for _, ov := range f.Overrides {
		if _, err := l.w.Overrides.Set(ctx, impactstatstore.SetInput{Metric: ov.Metric, Value: ov.Value, Icon: ov.Icon}); err != nil {
			return sum, fmt.Errorf("override %s: %w", ov.Metric, err)
		}
		sum.Overrides++
	}

	l.log.Info("seed applied",
		zap.Int("farmers", sum.Farmers),
		zap.Int("stories", sum.Stories),
		zap.Int("trees", sum.Trees),
		zap.Int("donations", sum.Donations),
		zap.Int("training", sum.Training),
		zap.Int("orders", sum.Orders),
		zap.Int("testimonials", sum.Testimonials),
		zap.Int("overrides", sum.Overrides))
	return sum, nil
}
