package impact_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/onecuponetree/onecup/internal/domain/impact"
)

func TestSelectYear(t *testing.T) {
	now := date(2025, time.July, 4)
	cases := []struct {
		raw  string
		want int
	}{
		{"", 2025},
		{"2023", 2023},
		{" 2019 ", 2019},
		{"abc", 2025},
		{"20x4", 2025},
		{"0", 2025},
		{"-5", 2025},
		{"10000", 2025},
		{"9999", 9999},
	}
	for _, tc := range cases {
		if got := impact.SelectYear(tc.raw, now); got != tc.want {
			t.Errorf("SelectYear(%q): got %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestYearWindow(t *testing.T) {
	start, end := impact.YearWindow(2024)
	if !start.Equal(date(2024, time.January, 1)) {
		t.Errorf("start: got %v", start)
	}
	if !end.Equal(date(2025, time.January, 1)) {
		t.Errorf("end: got %v", end)
	}
	if start.Location() != time.UTC {
		t.Errorf("start location: got %v, want UTC", start.Location())
	}
}

func TestFillMonths(t *testing.T) {
	got := impact.FillMonths(map[time.Month]int64{
		time.January:   2,
		time.March:     3,
		time.December:  7,
		time.Month(0):  99,
		time.Month(13): 99,
	})
	want := [12]int64{2, 0, 3, 0, 0, 0, 0, 0, 0, 0, 0, 7}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FillMonths mismatch (-want +got):\n%s", diff)
	}

	empty := impact.FillMonths(map[time.Month]float64(nil))
	if len(empty) != 12 {
		t.Fatalf("len: got %d, want 12", len(empty))
	}
	for i, v := range empty {
		if v != 0 {
			t.Errorf("empty[%d]: got %v, want 0", i, v)
		}
	}
}

func TestMergeYears(t *testing.T) {
	got := impact.MergeYears([]int{2022, 2024, 2022}, nil, []int{2023, 2024})
	want := []int{2024, 2023, 2022}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MergeYears mismatch (-want +got):\n%s", diff)
	}

	if none := impact.MergeYears(); none == nil || len(none) != 0 {
		t.Errorf("MergeYears(): got %v, want empty non-nil", none)
	}
}
