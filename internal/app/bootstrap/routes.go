// internal/app/bootstrap/routes.go
package bootstrap

import (
	"crypto/sha256"
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	errorsfeature "github.com/onecuponetree/onecup/internal/app/features/errors"
	healthfeature "github.com/onecuponetree/onecup/internal/app/features/health"
	homefeature "github.com/onecuponetree/onecup/internal/app/features/home"
	impactfeature "github.com/onecuponetree/onecup/internal/app/features/impact"
	loginfeature "github.com/onecuponetree/onecup/internal/app/features/login"
	logoutfeature "github.com/onecuponetree/onecup/internal/app/features/logout"
	donationstore "github.com/onecuponetree/onecup/internal/app/store/donations"
	testimonialstore "github.com/onecuponetree/onecup/internal/app/store/testimonials"
	userstore "github.com/onecuponetree/onecup/internal/app/store/users"
	"github.com/onecuponetree/onecup/internal/app/system/auth"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler.
//
// WAFFLE calls this after configuration, DB connection, schema setup and
// Startup. It boots the template engine, installs the session and CSRF
// middleware, and mounts the feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Reload the user on every request so revoked staff lose access at once.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	// Dev mode enables template reloading.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	db := deps.MongoDatabase

	r := chi.NewRouter()
	r.NotFound(errorsfeature.NotFound)

	// Health check stays outside CSRF and sessions.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	r.Group(func(app chi.Router) {
		app.Use(csrfMiddleware(appCfg.SessionKey, secure, logger)...)
		app.Use(sessionMgr.LoadSessionUser)

		homeHandler := homefeature.NewHandler(logger)
		app.Mount("/", homefeature.Routes(homeHandler))

		loginHandler := loginfeature.NewHandler(userstore.New(db), sessionMgr, errLog, logger)
		app.Mount("/login", loginfeature.Routes(loginHandler))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
		app.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

		impactHandler := impactfeature.NewHandler(
			newImpactService(appCfg, db, logger),
			testimonialstore.New(db),
			donationstore.New(db),
			errLog,
			logger,
		)
		app.Mount("/impact", impactfeature.Routes(impactHandler, sessionMgr))
	})

	return r, nil
}

// csrfMiddleware protects form posts. The CSRF key is derived from the
// session key so one secret covers both. Outside prod the requests are
// marked plaintext so the Referer check accepts http://localhost.
func csrfMiddleware(sessionKey string, secure bool, logger *zap.Logger) []func(http.Handler) http.Handler {
	key := sha256.Sum256([]byte("csrf:" + sessionKey))
	protect := csrf.Protect(key[:],
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("csrf check failed",
				zap.String("path", r.URL.Path),
				zap.Error(csrf.FailureReason(r)))
			http.Error(w, "Forbidden - invalid or missing CSRF token", http.StatusForbidden)
		})),
	)
	if secure {
		return []func(http.Handler) http.Handler{protect}
	}
	plaintext := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
	return []func(http.Handler) http.Handler{plaintext, protect}
}
