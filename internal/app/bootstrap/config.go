// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/onecuponetree/onecup/internal/app/system/viewdata"
	"github.com/onecuponetree/onecup/internal/domain/impact"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the impact service.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: ONECUP_MONGO_URI, ONECUP_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "onecup", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 50, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "onecup-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie lifetime (e.g., 8h, 24h)"},

	{Name: "site_name", Default: viewdata.DefaultSiteName, Desc: "Site name shown in page titles and navigation"},

	{Name: "top_locations", Default: impact.DefaultTopLocations, Desc: "Districts shown in the location chart"},
	{Name: "recent_donations", Default: 5, Desc: "Paid donations listed on the staff dashboard"},
	{Name: "timeout_long", Default: "30s", Desc: "Deadline for impact report builds and exports"},

	{Name: "staff_email", Default: "", Desc: "Email of an existing user to grant staff access on startup"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// Precedence is flags > env > files > defaults, handled by
// config.LoadWithAppConfig.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "ONECUP", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),

		SiteName: appValues.String("site_name"),

		TopLocations:    appValues.Int("top_locations"),
		RecentDonations: appValues.Int("recent_donations"),
		TimeoutLong:     appValues.Duration("timeout_long", 30*time.Second),

		StaffEmail: appValues.String("staff_email"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI format is checked before connecting, and report sizing
// must be positive.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must be set")
	}
	if appCfg.TopLocations <= 0 {
		return fmt.Errorf("top_locations must be positive, got %d", appCfg.TopLocations)
	}
	if appCfg.RecentDonations <= 0 {
		return fmt.Errorf("recent_donations must be positive, got %d", appCfg.RecentDonations)
	}
	if appCfg.TimeoutLong <= 0 {
		return fmt.Errorf("timeout_long must be positive, got %s", appCfg.TimeoutLong)
	}
	if coreCfg != nil && coreCfg.Env == "prod" && len(appCfg.SessionKey) < 32 {
		return fmt.Errorf("session_key must be at least 32 characters in prod")
	}
	return nil
}
