// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	uierrors "github.com/onecuponetree/onecup/internal/app/features/errors"
	userstore "github.com/onecuponetree/onecup/internal/app/store/users"
	"github.com/onecuponetree/onecup/internal/app/system/auth"
	"github.com/onecuponetree/onecup/internal/app/system/limits"
	"github.com/onecuponetree/onecup/internal/app/system/ratelimit"
	"github.com/onecuponetree/onecup/internal/app/system/timeouts"
	"github.com/onecuponetree/onecup/internal/app/system/viewdata"
	"github.com/onecuponetree/onecup/internal/domain/models"
	"go.uber.org/zap"
)

// Authenticator verifies an email and password pair.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

type Handler struct {
	Users      Authenticator
	SessionMgr *auth.SessionManager
	Throttle   *ratelimit.Login
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(users Authenticator, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users,
		SessionMgr: sessionMgr,
		Throttle:   ratelimit.NewLogin(),
		ErrLog:     errLog,
		Log:        logger,
	}
}

type loginFormData struct {
	viewdata.BaseVM
	Error     string
	Email     string
	ReturnURL string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Staff sign in", "/"),
		ReturnURL: query.Get(r, "return"),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxLoginFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	ret := strings.TrimSpace(r.FormValue("return"))

	if email == "" || password == "" {
		h.renderFormWithError(w, r, "Please enter your email and password.", email, ret)
		return
	}

	if h.Throttle != nil {
		if ok, msg := h.Throttle.Check(r, email); !ok {
			h.Log.Warn("login throttled", zap.String("email", email), zap.String("ip", ratelimit.ClientIP(r)))
			h.renderForm(w, r, http.StatusTooManyRequests, msg, email, ret)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Authenticate(ctx, email, password)
	switch {
	case errors.Is(err, userstore.ErrInvalidCredentials):
		h.Log.Info("login failed", zap.String("email", email))
		h.renderFormWithError(w, r, "Email or password is incorrect.", email, ret)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "authenticate user failed", err, "A server error occurred.", "/login")
		return
	}

	if err := h.SessionMgr.Login(w, r, u.ID.Hex()); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		h.renderFormWithError(w, r, "Unable to create session. Please try again.", email, ret)
		return
	}
	if h.Throttle != nil {
		h.Throttle.Succeeded(email)
	}
	h.Log.Info("login", zap.String("user_id", u.ID.Hex()), zap.Bool("staff", u.IsStaff))

	fallback := "/"
	if u.IsStaff {
		fallback = "/impact"
	}
	http.Redirect(w, r, urlutil.SafeReturn(ret, "", fallback), http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, email, ret string) {
	h.renderForm(w, r, http.StatusUnauthorized, msg, email, ret)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, status int, msg, email, ret string) {
	w.WriteHeader(status)
	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Staff sign in", "/"),
		Error:     msg,
		Email:     email,
		ReturnURL: ret,
	})
}
