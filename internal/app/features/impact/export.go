// internal/app/features/impact/export.go
package impact

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/onecuponetree/onecup/internal/app/system/authz"
	"github.com/onecuponetree/onecup/internal/app/system/timeouts"
	domain "github.com/onecuponetree/onecup/internal/domain/impact"
	"github.com/onecuponetree/onecup/internal/domain/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var donationHeader = []string{"Date", "Donor", "Email", "Amount", "Currency", "Type", "Purpose"}

func donationRow(d models.Donation) []string {
	return []string{
		d.CreatedAt.UTC().Format("2006-01-02"),
		d.DonorName,
		d.DonorEmail,
		strconv.FormatFloat(domain.DecimalToFloat(d.Amount), 'f', 2, 64),
		d.Currency,
		d.DonationType,
		d.Purpose,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /impact/donations.csv                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeDonationsCSV streams the paid donations of the selected year as CSV.
func (h *Handler) ServeDonationsCSV(w http.ResponseWriter, r *http.Request) {
	if !authz.IsStaff(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	year := domain.SelectYear(query.Get(r, "year"), h.now())

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "donations csv")
	defer cancel()

	rows, err := h.Donations.ListPaid(ctx, year)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list paid donations failed", err, "The donation export could not be generated.", "/impact")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="donations-%d.csv"`, year))

	cw := csv.NewWriter(w)
	_ = cw.Write(donationHeader)
	for _, d := range rows {
		_ = cw.Write(donationRow(d))
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.Log.Warn("write donations csv failed", zap.Int("year", year), zap.Error(err))
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /impact/export.xlsx                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	summarySheet   = "Summary"
	monthlySheet   = "Monthly"
	districtSheet  = "Districts"
	donationsSheet = "Donations"
)

// ServeExportXLSX writes a workbook with the report for the selected year:
// headline stats, the monthly series, the district chart and the paid
// donations of that year.
func (h *Handler) ServeExportXLSX(w http.ResponseWriter, r *http.Request) {
	if !authz.IsStaff(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	year := domain.SelectYear(query.Get(r, "year"), h.now())

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "impact workbook")
	defer cancel()

	rep, err := h.Reports.Build(ctx, year)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "impact report failed", err, "The workbook could not be generated.", "/impact")
		return
	}
	donations, err := h.Donations.ListPaid(ctx, year)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list paid donations failed", err, "The workbook could not be generated.", "/impact")
		return
	}

	f, err := BuildWorkbook(rep, donations, h.now())
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build workbook failed", err, "The workbook could not be generated.", "/impact")
		return
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			h.Log.Warn("close workbook failed", zap.Error(cerr))
		}
	}()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="impact-%d.xlsx"`, year))
	if _, err := f.WriteTo(w); err != nil {
		h.Log.Warn("write workbook failed", zap.Int("year", year), zap.Error(err))
	}
}

// BuildWorkbook lays out rep and donations across four sheets.
func BuildWorkbook(rep domain.Report, donations []models.Donation, generated time.Time) (wb *excelize.File, err error) {
	f := excelize.NewFile()
	defer func() {
		if err != nil {
			_ = f.Close()
		}
	}()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	for _, name := range []string{monthlySheet, districtSheet, donationsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	st := rep.Stats
	summary := [][]any{
		{"Metric", "Value"},
		{domain.TreesPlanted.Label(), st.TreesPlanted},
		{domain.YouthTrained.Label(), st.YouthTrained},
		{domain.CoffeeCupsSold.Label(), st.CoffeeCupsSold},
		{domain.FarmersSupported.Label(), st.FarmersSupported},
		{domain.TotalDonations.Label(), st.TotalDonations},
		{"Success Stories", st.TotalSuccessStories},
		{},
		{"Year", rep.SelectedYear},
		{"Generated", generated.UTC().Format(time.RFC3339)},
	}
	if err := setRows(f, summarySheet, summary); err != nil {
		return nil, err
	}

	ch := rep.Charts
	if len(ch.TreesMonthData) < len(ch.MonthLabels) || len(ch.DonationsMonthData) < len(ch.MonthLabels) {
		return nil, fmt.Errorf("monthly series shorter than %d labels", len(ch.MonthLabels))
	}
	if len(ch.DistrictData) < len(ch.DistrictLabels) {
		return nil, fmt.Errorf("district series shorter than %d labels", len(ch.DistrictLabels))
	}

	monthly := [][]any{{"Month", "Trees Planted", "Donations"}}
	for i, label := range rep.Charts.MonthLabels {
		monthly = append(monthly, []any{label, rep.Charts.TreesMonthData[i], rep.Charts.DonationsMonthData[i]})
	}
	if err := setRows(f, monthlySheet, monthly); err != nil {
		return nil, err
	}

	districts := [][]any{{"District", "Trees"}}
	for i, label := range rep.Charts.DistrictLabels {
		districts = append(districts, []any{label, rep.Charts.DistrictData[i]})
	}
	if err := setRows(f, districtSheet, districts); err != nil {
		return nil, err
	}

	rows := make([][]any, 0, len(donations)+1)
	header := make([]any, len(donationHeader))
	for i, h := range donationHeader {
		header[i] = h
	}
	rows = append(rows, header)
	for _, d := range donations {
		rows = append(rows, []any{
			d.CreatedAt.UTC().Format("2006-01-02"),
			d.DonorName,
			d.DonorEmail,
			domain.DecimalToFloat(d.Amount),
			d.Currency,
			d.DonationType,
			d.Purpose,
		})
	}
	if err := setRows(f, donationsSheet, rows); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
