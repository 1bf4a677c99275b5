package impact

// StatsPayload is the "stats" object of the JSON report.
type StatsPayload struct {
	TreesPlanted        int64   `json:"trees_planted"`
	YouthTrained        int64   `json:"youth_trained"`
	CoffeeCupsSold      int64   `json:"coffee_cups_sold"`
	FarmersSupported    int64   `json:"farmers_supported"`
	TotalDonations      float64 `json:"total_donations"`
	TotalSuccessStories int64   `json:"total_success_stories"`
}

// Charts is the "charts" object of the JSON report.
type Charts struct {
	MonthLabels        []string  `json:"month_labels"`
	TreesMonthData     []int64   `json:"trees_month_data"`
	DonationsMonthData []float64 `json:"donations_month_data"`
	DistrictLabels     []string  `json:"district_labels"`
	DistrictData       []int64   `json:"district_data"`
}

// Report is the assembled impact report. Fields tagged "-" are only used
// by the rendered page.
type Report struct {
	Stats        StatsPayload `json:"stats"`
	Charts       Charts       `json:"charts"`
	MapTrees     []MapTree    `json:"map_trees"`
	SelectedYear int          `json:"selected_year"`
	AllYears     []int        `json:"all_years"`

	RecentDonations []RecentDonation  `json:"-"`
	Origins         map[Metric]Origin `json:"-"`
}

// Geo holds the location aggregates.
type Geo struct {
	DistrictLabels []string
	DistrictData   []int64
	MapTrees       []MapTree
}

// Assemble merges the resolver, bucket and geo outputs into a Report.
// Every slice in the result is non-nil so JSON consumers never see null.
func Assemble(res Resolution, series MonthSeries, geo Geo, year int, years []int) Report {
	st := res.Stats
	rep := Report{
		Stats: StatsPayload{
			TreesPlanted:        st.TreesPlanted,
			YouthTrained:        st.YouthTrained,
			CoffeeCupsSold:      st.CoffeeCupsSold,
			FarmersSupported:    st.FarmersSupported,
			TotalDonations:      st.TotalDonations,
			TotalSuccessStories: st.TotalSuccessStories,
		},
		Charts: Charts{
			MonthLabels:        append([]string(nil), MonthLabels[:]...),
			TreesMonthData:     append([]int64(nil), series.Trees[:]...),
			DonationsMonthData: append([]float64(nil), series.Donations[:]...),
			DistrictLabels:     nonNil(geo.DistrictLabels),
			DistrictData:       nonNil(geo.DistrictData),
		},
		MapTrees:        nonNil(geo.MapTrees),
		SelectedYear:    year,
		AllYears:        nonNil(years),
		RecentDonations: nonNil(res.RecentDonations),
		Origins:         st.Origins,
	}
	return rep
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
