// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each collection's index set is reconciled
idempotently. Errors are aggregated so every problem is visible and startup
can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := ensurer{log: logger}

	sets := []struct {
		coll   string
		models []mongo.IndexModel
	}{
		{"impact_stats", impactStatIndexes()},
		{"trees", treeIndexes()},
		{"donations", donationIndexes()},
		{"farmer_stories", storyIndexes()},
		{"training_applications", trainingIndexes()},
		{"orders", orderIndexes()},
		{"testimonials", testimonialIndexes()},
		{"users", userIndexes()},
	}

	var problems []string
	for _, s := range sets {
		if err := e.ensureSet(ctx, db.Collection(s.coll), s.models); err != nil {
			problems = append(problems, s.coll+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func impactStatIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// One override row per metric; resolution is never ambiguous.
		{
			Keys:    bson.D{{Key: "metric", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_impact_stats_metric"),
		},
	}
}

func treeIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tree_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_trees_tree_id"),
		},
		// Monthly series and year list.
		{
			Keys:    bson.D{{Key: "planted_date", Value: 1}},
			Options: options.Index().SetName("idx_trees_planted_date"),
		},
		{
			Keys:    bson.D{{Key: "is_active", Value: 1}},
			Options: options.Index().SetName("idx_trees_is_active"),
		},
		{
			Keys:    bson.D{{Key: "location", Value: 1}},
			Options: options.Index().SetName("idx_trees_location"),
		},
	}
}

func donationIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// Paid totals, monthly sums and the recent list all filter on status
		// and range or sort on created_at.
		{
			Keys: bson.D{
				{Key: "payment_status", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_donations_status_created"),
		},
	}
}

func storyIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "is_published", Value: 1}},
			Options: options.Index().SetName("idx_farmer_stories_published"),
		},
	}
}

func trainingIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "selected_for_training", Value: 1}},
			Options: options.Index().SetName("idx_training_selected"),
		},
	}
}

func orderIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_orders_status"),
		},
	}
}

func testimonialIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "is_featured", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_testimonials_featured_created"),
		},
	}
}

func userIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// Sign-in looks users up by folded email.
		{
			Keys:    bson.D{{Key: "email_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email_ci"),
		},
	}
}

/* -------------------------------------------------------------------------- */
/* Reconcile a set of desired indexes for one collection                      */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

type ensurer struct {
	log *zap.Logger
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	return (a != nil && *a) == (b != nil && *b)
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// listBySig returns the collection's indexes keyed by key signature.
func (e ensurer) listBySig(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	out := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		// Collection may not exist yet.
		return out
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			e.log.Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out
}

func (e ensurer) ensureSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	existing := e.listBySig(ctx, coll)

	for _, m := range models {
		name := ""
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()
		fields := []zap.Field{
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", unique != nil && *unique),
		}

		ex, found := existing[sig]
		switch {
		case found && sameBoolPtr(unique, ex.Unique) && (name == "" || ex.Name == name):
			e.log.Debug("reusing existing index", fields...)
			continue
		case found:
			// Same keys but a different name or uniqueness: drop, then recreate below.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				e.log.Warn("drop existing index failed", append(fields, zap.Error(err))...)
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			e.log.Warn("index ensure failed", append(fields, zap.Error(err))...)
			if isDuplicateKeyErr(err) && unique != nil && *unique {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present on %s)", coll.Name(), name, sig))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			continue
		}
		e.log.Info("index ensured", append(fields, zap.Duration("took", time.Since(start)))...)
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
