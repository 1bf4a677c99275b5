package impact

import (
	"sort"
	"strings"

	"github.com/onecuponetree/onecup/internal/domain/models"
)

// DefaultTopLocations is the number of locations charted when no limit is set.
const DefaultTopLocations = 10

// MapTree is one geocoded tree plotted on the dashboard map.
type MapTree struct {
	TreeID      string  `json:"tree_id"`
	Species     string  `json:"species"`
	PlantedDate string  `json:"planted_date"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// DistrictSeries turns location counts into parallel label/count slices for
// the top limit locations. Blank locations are dropped. Higher counts come
// first and ties are ordered by location name so repeated calls agree.
func DistrictSeries(rows []LocationCount, limit int) (labels []string, data []int64) {
	if limit <= 0 {
		limit = DefaultTopLocations
	}
	kept := make([]LocationCount, 0, len(rows))
	for _, r := range rows {
		if strings.TrimSpace(r.Location) == "" {
			continue
		}
		kept = append(kept, r)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Count != kept[j].Count {
			return kept[i].Count > kept[j].Count
		}
		return kept[i].Location < kept[j].Location
	})
	if len(kept) > limit {
		kept = kept[:limit]
	}

	labels = make([]string, 0, len(kept))
	data = make([]int64, 0, len(kept))
	for _, r := range kept {
		labels = append(labels, r.Location)
		data = append(data, r.Count)
	}
	return labels, data
}

// MapTrees converts trees into map points. Trees missing either coordinate
// are skipped.
func MapTrees(trees []models.Tree) []MapTree {
	out := make([]MapTree, 0, len(trees))
	for i := range trees {
		t := &trees[i]
		if !t.HasCoordinates() {
			continue
		}
		out = append(out, MapTree{
			TreeID:      t.TreeID,
			Species:     models.SpeciesLabel(t.Species),
			PlantedDate: t.PlantedDate.UTC().Format("2006-01-02"),
			Latitude:    *t.Latitude,
			Longitude:   *t.Longitude,
		})
	}
	return out
}
