// internal/app/features/impact/handler.go
package impact

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/onecuponetree/onecup/internal/app/features/errors"
	"github.com/onecuponetree/onecup/internal/app/system/authz"
	"github.com/onecuponetree/onecup/internal/app/system/htmlsanitize"
	"github.com/onecuponetree/onecup/internal/app/system/timeouts"
	"github.com/onecuponetree/onecup/internal/app/system/viewdata"
	domain "github.com/onecuponetree/onecup/internal/domain/impact"
	"github.com/onecuponetree/onecup/internal/domain/models"
	"go.uber.org/zap"
)

// ReportBuilder builds the impact report for a year.
type ReportBuilder interface {
	Build(ctx context.Context, year int) (domain.Report, error)
}

// TestimonialLister returns featured testimonials, newest first.
type TestimonialLister interface {
	Featured(ctx context.Context, limit int) ([]models.Testimonial, error)
}

// DonationLister returns paid donations for one year, for the exports.
type DonationLister interface {
	ListPaid(ctx context.Context, year int) ([]models.Donation, error)
}

const featuredTestimonials = 3

// Handler serves the impact dashboard, its public variant and the exports.
type Handler struct {
	Reports      ReportBuilder
	Testimonials TestimonialLister // optional
	Donations    DonationLister
	ErrLog       *uierrors.ErrorLogger
	Log          *zap.Logger

	now func() time.Time
}

func NewHandler(reports ReportBuilder, testimonials TestimonialLister, donations DonationLister, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if errLog == nil {
		errLog = uierrors.NewErrorLogger(logger)
	}
	return &Handler{
		Reports:      reports,
		Testimonials: testimonials,
		Donations:    donations,
		ErrLog:       errLog,
		Log:          logger,
		now:          time.Now,
	}
}

// WithClock replaces the handler's clock. The year default depends on it.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type statCard struct {
	Label  string
	Value  string
	Origin domain.Origin
}

type testimonialView struct {
	Author string
	Role   string
	Quote  template.HTML
}

type dashboardData struct {
	viewdata.BaseVM
	Report       domain.Report
	Cards        []statCard
	ChartsJSON   template.JS
	MapJSON      template.JS
	Testimonials []testimonialView
	Public       bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /impact                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeDashboard renders the staff impact dashboard, or writes the report as
// JSON when format=json. Visitors and non-staff users are redirected to "/".
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	if !authz.IsStaff(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	year := domain.SelectYear(query.Get(r, "year"), h.now())

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "impact report")
	defer cancel()

	rep, err := h.Reports.Build(ctx, year)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "impact report failed", err, "The impact report could not be loaded. Please try again.", "/")
		return
	}

	if strings.EqualFold(query.Get(r, "format"), "json") {
		writeJSON(w, h.Log, rep)
		return
	}

	data := h.pageData(ctx, r, rep, "Impact Dashboard")
	templates.Render(w, r, "impact_dashboard", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /impact/public                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

// ServePublic renders the headline numbers and charts for anyone.
// Donor names and tree coordinates are left out.
func (h *Handler) ServePublic(w http.ResponseWriter, r *http.Request) {
	year := domain.SelectYear(query.Get(r, "year"), h.now())

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "impact report")
	defer cancel()

	rep, err := h.Reports.Build(ctx, year)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "public impact report failed", err, "The impact report could not be loaded. Please try again.", "/")
		return
	}
	rep = PublicReport(rep)

	data := h.pageData(ctx, r, rep, "Our Impact")
	data.Public = true
	templates.Render(w, r, "impact_public", data)
}

// PublicReport strips donor and location detail from rep.
func PublicReport(rep domain.Report) domain.Report {
	rep.RecentDonations = []domain.RecentDonation{}
	rep.MapTrees = []domain.MapTree{}
	return rep
}

func (h *Handler) pageData(ctx context.Context, r *http.Request, rep domain.Report, title string) dashboardData {
	return dashboardData{
		BaseVM:       viewdata.NewBaseVM(r, title, "/"),
		Report:       rep,
		Cards:        statCards(rep),
		ChartsJSON:   h.jsonScript(rep.Charts),
		MapJSON:      h.jsonScript(rep.MapTrees),
		Testimonials: h.testimonials(ctx),
	}
}

func (h *Handler) testimonials(ctx context.Context) []testimonialView {
	out := []testimonialView{}
	if h.Testimonials == nil {
		return out
	}
	rows, err := h.Testimonials.Featured(ctx, featuredTestimonials)
	if err != nil {
		h.Log.Warn("featured testimonials failed", zap.Error(err))
		return out
	}
	for _, t := range rows {
		out = append(out, testimonialView{
			Author: t.Author,
			Role:   t.Role,
			Quote:  htmlsanitize.SanitizeToHTML(t.Quote),
		})
	}
	return out
}

// jsonScript marshals v for embedding in a <script> block. html/template
// escapes template.JS values for the script context.
func (h *Handler) jsonScript(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		h.Log.Warn("marshal chart data failed", zap.Error(err))
		return template.JS("null")
	}
	return template.JS(b)
}

func statCards(rep domain.Report) []statCard {
	st := rep.Stats
	origin := func(m domain.Metric) domain.Origin { return rep.Origins[m] }
	return []statCard{
		{Label: domain.TreesPlanted.Label(), Value: formatCount(st.TreesPlanted), Origin: origin(domain.TreesPlanted)},
		{Label: domain.YouthTrained.Label(), Value: formatCount(st.YouthTrained), Origin: origin(domain.YouthTrained)},
		{Label: domain.CoffeeCupsSold.Label(), Value: formatCount(st.CoffeeCupsSold), Origin: origin(domain.CoffeeCupsSold)},
		{Label: domain.FarmersSupported.Label(), Value: formatCount(st.FarmersSupported), Origin: origin(domain.FarmersSupported)},
		{Label: domain.TotalDonations.Label(), Value: formatAmount(st.TotalDonations), Origin: origin(domain.TotalDonations)},
		{Label: "Success Stories", Value: formatCount(st.TotalSuccessStories), Origin: origin(domain.SuccessStories)},
	}
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		logger.Error("marshal impact report failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(b)
}
