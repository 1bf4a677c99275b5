package impact

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options tunes the report size.
type Options struct {
	TopLocations    int // locations in the district chart
	RecentDonations int // paid donations listed on the staff page
}

// Service builds impact reports from a set of Sources.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	src      Sources
	resolver *Resolver
	opts     Options
	log      *zap.Logger
}

// NewService constructs a Service. Zero options fall back to defaults.
func NewService(src Sources, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.TopLocations <= 0 {
		opts.TopLocations = DefaultTopLocations
	}
	if opts.RecentDonations <= 0 {
		opts.RecentDonations = 5
	}
	return &Service{
		src:      src,
		resolver: NewResolver(src, logger),
		opts:     opts,
		log:      logger,
	}
}

// Build computes the full report for year.
//
// The resolver, month series, year list and geo aggregates run concurrently.
// Each writes only its own result, and each tolerates source failures by
// logging and substituting zeros, so the only error Build returns is the
// context's own (deadline or cancellation).
func (s *Service) Build(ctx context.Context, year int) (Report, error) {
	var (
		res    Resolution
		series MonthSeries
		years  []int
		geo    Geo
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res = s.resolver.Resolve(gctx, s.opts.RecentDonations)
		return nil
	})
	g.Go(func() error {
		series = s.monthSeries(gctx, year)
		return nil
	})
	g.Go(func() error {
		years = s.years(gctx)
		return nil
	})
	g.Go(func() error {
		geo = s.geo(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	return Assemble(res, series, geo, year, years), nil
}

func (s *Service) monthSeries(ctx context.Context, year int) MonthSeries {
	var out MonthSeries
	if s.src.Trees != nil {
		byMonth, err := s.src.Trees.CountByMonth(ctx, year)
		if err != nil {
			s.log.Warn("impact: monthly tree counts failed", zap.Int("year", year), zap.Error(err))
		} else {
			out.Trees = FillMonths(byMonth)
		}
	}
	if s.src.Donations != nil {
		byMonth, err := s.src.Donations.SumPaidByMonth(ctx, year)
		if err != nil {
			s.log.Warn("impact: monthly donation sums failed", zap.Int("year", year), zap.Error(err))
		} else {
			out.Donations = FillMonths(byMonth)
		}
	}
	return out
}

func (s *Service) years(ctx context.Context) []int {
	var treeYears, donationYears []int
	if s.src.Trees != nil {
		ys, err := s.src.Trees.Years(ctx)
		if err != nil {
			s.log.Warn("impact: tree years failed", zap.Error(err))
		}
		treeYears = ys
	}
	if s.src.Donations != nil {
		ys, err := s.src.Donations.PaidYears(ctx)
		if err != nil {
			s.log.Warn("impact: donation years failed", zap.Error(err))
		}
		donationYears = ys
	}
	return MergeYears(treeYears, donationYears)
}

func (s *Service) geo(ctx context.Context) Geo {
	var out Geo
	if s.src.Trees == nil {
		return out
	}
	rows, err := s.src.Trees.TopLocations(ctx, s.opts.TopLocations)
	if err != nil {
		s.log.Warn("impact: location counts failed", zap.Error(err))
	} else {
		out.DistrictLabels, out.DistrictData = DistrictSeries(rows, s.opts.TopLocations)
	}
	trees, err := s.src.Trees.Geocoded(ctx)
	if err != nil {
		s.log.Warn("impact: geocoded trees failed", zap.Error(err))
	} else {
		out.MapTrees = MapTrees(trees)
	}
	return out
}
