// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/dalemusser/waffle/config"
	"github.com/onecuponetree/onecup/internal/app/resources"
	userstore "github.com/onecuponetree/onecup/internal/app/store/users"
	"github.com/onecuponetree/onecup/internal/app/system/timeouts"
	"github.com/onecuponetree/onecup/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time initialization after the database is ready and
// before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()
	viewdata.SetSiteName(appCfg.SiteName)

	timeouts.Configure(timeouts.Config{Long: appCfg.TimeoutLong})
	cur := timeouts.Current()
	logger.Info("timeouts configured",
		zap.Duration("short", cur.Short),
		zap.Duration("long", cur.Long))

	if appCfg.StaffEmail != "" {
		if err := ensureStaff(ctx, deps, appCfg.StaffEmail, logger); err != nil {
			return err
		}
	}
	return nil
}

// ensureStaff grants staff access to the configured account. A missing
// account is logged and skipped; create it with `onecupctl staff create`.
func ensureStaff(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	err := userstore.New(deps.MongoDatabase).SetStaff(ctx, email, true)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		logger.Warn("staff_email has no matching account", zap.String("email", email))
		return nil
	case err != nil:
		return err
	}
	logger.Info("staff access ensured", zap.String("email", email))
	return nil
}
