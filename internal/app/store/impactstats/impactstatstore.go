// internal/app/store/impactstats/impactstatstore.go
package impactstatstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/onecuponetree/onecup/internal/domain/impact"
	"github.com/onecuponetree/onecup/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var (
	// ErrUnknownMetric is returned when an override names a metric outside
	// the enumerated set.
	ErrUnknownMetric = impact.ErrUnknownMetric
	// ErrNotFound is returned by Clear when no override exists for the metric.
	ErrNotFound = errors.New("impact stat override not found")
)

// SetInput is an administrator override write.
type SetInput struct {
	Metric string `validate:"required,max=64"`
	Value  int64  `validate:"gte=0"`
	Icon   string `validate:"omitempty,max=64"`
}

var validate = validator.New()

// Store provides access to the impact_stats override collection.
// The collection carries a unique index on metric, so each metric has at
// most one row.
type Store struct {
	c   *mongo.Collection
	log *zap.Logger
}

// New creates an overrides store. logger may be nil.
func New(db *mongo.Database, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{c: db.Collection("impact_stats"), log: logger}
}

// ActiveOverrides returns the active overrides keyed by metric.
// Rows naming an unknown metric are skipped with a warning.
func (s *Store) ActiveOverrides(ctx context.Context) (map[impact.Metric]int64, error) {
	cur, err := s.c.Find(ctx, bson.M{"is_active": true})
	if err != nil {
		return nil, fmt.Errorf("find active overrides: %w", err)
	}
	defer cur.Close(ctx)

	out := make(map[impact.Metric]int64)
	for cur.Next(ctx) {
		var row models.ImpactStat
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode override: %w", err)
		}
		m := impact.Metric(row.Metric)
		if !m.Valid() {
			s.log.Warn("ignoring override for unknown metric", zap.String("metric", row.Metric))
			continue
		}
		out[m] = row.Value
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate overrides: %w", err)
	}
	return out, nil
}

// List returns every override row, active or not, ordered by metric.
func (s *Store) List(ctx context.Context) ([]models.ImpactStat, error) {
	opts := options.Find().SetSort(bson.D{{Key: "metric", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	defer cur.Close(ctx)

	out := []models.ImpactStat{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode overrides: %w", err)
	}
	return out, nil
}

// Set validates in, normalizes the metric name and upserts an active override.
func (s *Store) Set(ctx context.Context, in SetInput) (models.ImpactStat, error) {
	if err := validate.Struct(in); err != nil {
		return models.ImpactStat{}, err
	}
	m, err := impact.ParseMetric(in.Metric)
	if err != nil {
		return models.ImpactStat{}, err
	}

	now := time.Now().UTC()
	filter := bson.M{"metric": string(m)}
	update := bson.M{
		"$set": bson.M{
			"value":      in.Value,
			"icon":       in.Icon,
			"is_active":  true,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"_id":    primitive.NewObjectID(),
			"metric": string(m),
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var out models.ImpactStat
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out); err != nil {
		return models.ImpactStat{}, fmt.Errorf("upsert override %s: %w", m, err)
	}
	return out, nil
}

// Clear deactivates the override for metric so the computed value is used again.
func (s *Store) Clear(ctx context.Context, metric string) error {
	m, err := impact.ParseMetric(metric)
	if err != nil {
		return err
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"metric": string(m)},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("clear override %s: %w", m, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
