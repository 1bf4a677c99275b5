package impact_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	impactfeature "github.com/onecuponetree/onecup/internal/app/features/impact"
	domain "github.com/onecuponetree/onecup/internal/domain/impact"
	"github.com/onecuponetree/onecup/internal/domain/models"
	"github.com/onecuponetree/onecup/internal/testutil"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeReports struct {
	rep   domain.Report
	err   error
	years []int
}

func (f *fakeReports) Build(_ context.Context, year int) (domain.Report, error) {
	f.years = append(f.years, year)
	if f.err != nil {
		return domain.Report{}, f.err
	}
	rep := f.rep
	rep.SelectedYear = year
	return rep, nil
}

type fakeDonations struct {
	rows []models.Donation
	err  error
}

func (f fakeDonations) ListPaid(context.Context, int) ([]models.Donation, error) {
	return f.rows, f.err
}

var fixedNow = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func sampleReport() domain.Report {
	res := domain.Resolution{
		Stats: domain.Stats{
			TreesPlanted:     4,
			FarmersSupported: 2,
			TotalDonations:   125,
			Origins: map[domain.Metric]domain.Origin{
				domain.TreesPlanted: domain.OriginComputed,
			},
		},
		RecentDonations: []domain.RecentDonation{
			{DonorName: "Aline", Amount: 100, Currency: "USD", CreatedAt: fixedNow},
		},
	}
	var series domain.MonthSeries
	series.Trees[2] = 3
	series.Donations[0] = 100
	geo := domain.Geo{
		DistrictLabels: []string{"Huye"},
		DistrictData:   []int64{3},
		MapTrees:       []domain.MapTree{{TreeID: "T9", Species: "Coffee Plant", PlantedDate: "2024-03-15", Latitude: -2.6, Longitude: 29.7}},
	}
	return domain.Assemble(res, series, geo, 2024, []int{2024, 2023})
}

func amount(t *testing.T, s string) primitive.Decimal128 {
	t.Helper()
	d, err := primitive.ParseDecimal128(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func newHandler(reports *fakeReports, donations fakeDonations) *impactfeature.Handler {
	return impactfeature.NewHandler(reports, nil, donations, nil, zap.NewNop()).
		WithClock(func() time.Time { return fixedNow })
}

func TestServeDashboard_RedirectsNonStaff(t *testing.T) {
	tests := []struct {
		name string
		req  *http.Request
	}{
		{"visitor", testutil.NewRequest("GET", "/impact?format=json")},
		{"regular user", testutil.NewAuthenticatedRequest("GET", "/impact?format=json", testutil.RegularUser())},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reports := &fakeReports{rep: sampleReport()}
			h := newHandler(reports, fakeDonations{})

			rec := testutil.NewRecorder()
			h.ServeDashboard(rec, tc.req)

			rec.AssertRedirect(t, "/")
			if rec.Code != http.StatusSeeOther {
				t.Errorf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
			}
			if len(reports.years) != 0 {
				t.Errorf("report built for non-staff caller")
			}
			if strings.Contains(rec.Body.String(), "trees_planted") {
				t.Errorf("response leaked report data: %s", rec.Body.String())
			}
		})
	}
}

func TestServeDashboard_JSON(t *testing.T) {
	reports := &fakeReports{rep: sampleReport()}
	h := newHandler(reports, fakeDonations{})

	req := testutil.NewAuthenticatedRequest("GET", "/impact?year=2023&format=json", testutil.StaffUser())
	rec := testutil.NewRecorder()
	h.ServeDashboard(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type: got %q", ct)
	}

	var body struct {
		Stats        map[string]float64 `json:"stats"`
		Charts       map[string][]any   `json:"charts"`
		MapTrees     []map[string]any   `json:"map_trees"`
		SelectedYear int                `json:"selected_year"`
		AllYears     []int              `json:"all_years"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.SelectedYear != 2023 {
		t.Errorf("selected_year: got %d, want 2023", body.SelectedYear)
	}
	if body.Stats["trees_planted"] != 4 || body.Stats["total_donations"] != 125 {
		t.Errorf("stats: got %v", body.Stats)
	}
	for _, key := range []string{"month_labels", "trees_month_data", "donations_month_data"} {
		if got := len(body.Charts[key]); got != 12 {
			t.Errorf("%s: got %d entries, want 12", key, got)
		}
	}
	if diff := cmp.Diff([]int{2024, 2023}, body.AllYears); diff != "" {
		t.Errorf("all_years (-want +got):\n%s", diff)
	}
	if len(body.MapTrees) != 1 || body.MapTrees[0]["tree_id"] != "T9" {
		t.Errorf("map_trees: got %v", body.MapTrees)
	}
	if strings.Contains(rec.Body.String(), "Aline") {
		t.Errorf("recent donations must not appear in JSON")
	}
}

func TestServeDashboard_InvalidYearUsesCurrentYear(t *testing.T) {
	reports := &fakeReports{rep: sampleReport()}
	h := newHandler(reports, fakeDonations{})

	req := testutil.NewAuthenticatedRequest("GET", "/impact?year=abc&format=json", testutil.StaffUser())
	rec := testutil.NewRecorder()
	h.ServeDashboard(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	if diff := cmp.Diff([]int{2024}, reports.years); diff != "" {
		t.Errorf("requested years (-want +got):\n%s", diff)
	}
}

func TestServeDashboard_JSONIsStable(t *testing.T) {
	reports := &fakeReports{rep: sampleReport()}
	h := newHandler(reports, fakeDonations{})

	var bodies [2][]byte
	for i := range bodies {
		req := testutil.NewAuthenticatedRequest("GET", "/impact?year=2024&format=json", testutil.StaffUser())
		rec := testutil.NewRecorder()
		h.ServeDashboard(rec, req)
		bodies[i] = rec.Body.Bytes()
	}
	if !bytes.Equal(bodies[0], bodies[1]) {
		t.Errorf("JSON differs between calls:\n%s\n%s", bodies[0], bodies[1])
	}
}

func TestServeDashboard_BuildError(t *testing.T) {
	reports := &fakeReports{err: context.DeadlineExceeded}
	h := newHandler(reports, fakeDonations{})

	req := testutil.NewAuthenticatedRequest("GET", "/impact?format=json", testutil.StaffUser())
	rec := testutil.NewRecorder()
	h.ServeDashboard(rec, req)

	rec.AssertStatus(t, http.StatusInternalServerError)
}

func TestServeDashboard_PageMode(t *testing.T) {
	reports := &fakeReports{rep: sampleReport()}
	h := newHandler(reports, fakeDonations{})

	req := testutil.NewAuthenticatedRequest("GET", "/impact", testutil.StaffUser())
	rec := testutil.NewRecorder()

	// Template rendering may panic without initialized templates.
	func() {
		defer func() { _ = recover() }()
		h.ServeDashboard(rec, req)
	}()

	if len(reports.years) != 1 {
		t.Fatalf("expected one report build, got %d", len(reports.years))
	}
	if loc := rec.Header().Get("Location"); loc != "" {
		t.Errorf("staff page must not redirect, got Location %q", loc)
	}
}

func TestServePublic_OpenToVisitors(t *testing.T) {
	reports := &fakeReports{rep: sampleReport()}
	h := newHandler(reports, fakeDonations{})

	rec := testutil.NewRecorder()
	func() {
		defer func() { _ = recover() }()
		h.ServePublic(rec, testutil.NewRequest("GET", "/impact/public?year=2023"))
	}()

	if diff := cmp.Diff([]int{2023}, reports.years); diff != "" {
		t.Errorf("requested years (-want +got):\n%s", diff)
	}
	if loc := rec.Header().Get("Location"); loc != "" {
		t.Errorf("public page redirected to %q", loc)
	}
}

func TestPublicReport_StripsDonorAndLocationDetail(t *testing.T) {
	rep := impactfeature.PublicReport(sampleReport())

	if rep.RecentDonations == nil || len(rep.RecentDonations) != 0 {
		t.Errorf("RecentDonations: got %v, want empty", rep.RecentDonations)
	}
	if rep.MapTrees == nil || len(rep.MapTrees) != 0 {
		t.Errorf("MapTrees: got %v, want empty", rep.MapTrees)
	}
	if rep.Stats.TreesPlanted != 4 {
		t.Errorf("stats must be kept, got %+v", rep.Stats)
	}
}

func TestServeDonationsCSV(t *testing.T) {
	donations := fakeDonations{rows: []models.Donation{
		{DonorName: "Aline", DonorEmail: "aline@example.com", Amount: amount(t, "100.00"), Currency: "USD", Purpose: "trees", CreatedAt: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{DonorName: "Bosco", Amount: amount(t, "25.5"), Currency: "USD", CreatedAt: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)},
	}}
	h := newHandler(&fakeReports{}, donations)

	req := testutil.NewAuthenticatedRequest("GET", "/impact/donations.csv?year=2024", testutil.StaffUser())
	rec := testutil.NewRecorder()
	h.ServeDonationsCSV(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "donations-2024.csv") {
		t.Errorf("Content-Disposition: got %q", cd)
	}

	records, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	want := [][]string{
		{"Date", "Donor", "Email", "Amount", "Currency", "Type", "Purpose"},
		{"2024-01-05", "Aline", "aline@example.com", "100.00", "USD", "", "trees"},
		{"2024-03-09", "Bosco", "", "25.50", "USD", "", ""},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("csv (-want +got):\n%s", diff)
	}
}

func TestServeDonationsCSV_NonStaff(t *testing.T) {
	h := newHandler(&fakeReports{}, fakeDonations{})

	rec := testutil.NewRecorder()
	h.ServeDonationsCSV(rec, testutil.NewAuthenticatedRequest("GET", "/impact/donations.csv", testutil.RegularUser()))

	rec.AssertRedirect(t, "/")
}

func TestServeDonationsCSV_ListError(t *testing.T) {
	h := newHandler(&fakeReports{}, fakeDonations{err: errors.New("boom")})

	req := testutil.NewAuthenticatedRequest("GET", "/impact/donations.csv", testutil.StaffUser())
	req.Header.Set("Accept", "application/json")
	rec := testutil.NewRecorder()
	h.ServeDonationsCSV(rec, req)

	rec.AssertStatus(t, http.StatusInternalServerError)
}

func TestServeExportXLSX(t *testing.T) {
	donations := fakeDonations{rows: []models.Donation{
		{DonorName: "Aline", Amount: amount(t, "100"), Currency: "USD", CreatedAt: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
	}}
	h := newHandler(&fakeReports{rep: sampleReport()}, donations)

	req := testutil.NewAuthenticatedRequest("GET", "/impact/export.xlsx?year=2024", testutil.StaffUser())
	rec := testutil.NewRecorder()
	h.ServeExportXLSX(rec, req)

	rec.AssertStatus(t, http.StatusOK)

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	if diff := cmp.Diff([]string{"Summary", "Monthly", "Districts", "Donations"}, f.GetSheetList()); diff != "" {
		t.Errorf("sheets (-want +got):\n%s", diff)
	}
	cells := []struct {
		sheet, cell, want string
	}{
		{"Summary", "A2", "Trees Planted"},
		{"Summary", "B2", "4"},
		{"Monthly", "A4", "Mar"},
		{"Monthly", "B4", "3"},
		{"Districts", "A2", "Huye"},
		{"Donations", "B2", "Aline"},
		{"Donations", "D2", "100"},
	}
	for _, c := range cells {
		got, err := f.GetCellValue(c.sheet, c.cell)
		if err != nil {
			t.Errorf("%s!%s: %v", c.sheet, c.cell, err)
			continue
		}
		if got != c.want {
			t.Errorf("%s!%s: got %q, want %q", c.sheet, c.cell, got, c.want)
		}
	}
}

func TestBuildWorkbook_RejectsShortSeries(t *testing.T) {
	rep := sampleReport()
	rep.Charts.DistrictData = rep.Charts.DistrictData[:0]
	rep.Charts.DistrictLabels = []string{"Huye"}

	wb, err := impactfeature.BuildWorkbook(rep, nil, fixedNow)
	if err == nil {
		t.Fatal("expected an error for a district series without data")
	}
	if wb != nil {
		t.Error("no workbook should be returned on error")
	}

	rep = sampleReport()
	rep.Charts.TreesMonthData = rep.Charts.TreesMonthData[:3]
	if _, err := impactfeature.BuildWorkbook(rep, nil, fixedNow); err == nil {
		t.Error("expected an error for a short monthly series")
	}
}
