// Package seed loads demo and migration data from a YAML file into the
// impact collections. It backs `onecupctl seed`.
package seed

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/onecuponetree/onecup/internal/domain/impact"
	"github.com/onecuponetree/onecup/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// File is the YAML document layout.
type File struct {
	Farmers      []Farmer      `yaml:"farmers"`
	Stories      []Story       `yaml:"stories"`
	Trees        []Tree        `yaml:"trees"`
	Donations    []Donation    `yaml:"donations"`
	Training     []Training    `yaml:"training"`
	Orders       []Order       `yaml:"orders"`
	Testimonials []Testimonial `yaml:"testimonials"`
	Overrides    []Override    `yaml:"overrides"`
}

type Farmer struct {
	HouseholdID string `yaml:"household_id"`
	Name        string `yaml:"name"`
	Village     string `yaml:"village"`
}

// Story references its farmer by household_id.
type Story struct {
	Farmer    string `yaml:"farmer"`
	Title     string `yaml:"title"`
	Content   string `yaml:"content"`
	Published bool   `yaml:"published"`
}

// Tree leaves ID empty to have one generated.
type Tree struct {
	ID        string   `yaml:"id"`
	Species   string   `yaml:"species"`
	Planted   string   `yaml:"planted"`
	Location  string   `yaml:"location"`
	Latitude  *float64 `yaml:"lat"`
	Longitude *float64 `yaml:"lng"`
	CO2       float64  `yaml:"co2"`
	Inactive  bool     `yaml:"inactive"`
}

type Donation struct {
	Donor    string `yaml:"donor"`
	Email    string `yaml:"email"`
	Amount   string `yaml:"amount"`
	Currency string `yaml:"currency"`
	Status   string `yaml:"status"`
	Type     string `yaml:"type"`
	Purpose  string `yaml:"purpose"`
	Date     string `yaml:"date"`
}

type Training struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Selected bool   `yaml:"selected"`
}

type OrderItem struct {
	Product  string  `yaml:"product"`
	Quantity int64   `yaml:"quantity"`
	Price    float64 `yaml:"price"`
}

type Order struct {
	Name   string      `yaml:"name"`
	Email  string      `yaml:"email"`
	Status string      `yaml:"status"`
	Items  []OrderItem `yaml:"items"`
}

type Testimonial struct {
	Author   string `yaml:"author"`
	Role     string `yaml:"role"`
	Quote    string `yaml:"quote"`
	Featured bool   `yaml:"featured"`
}

type Override struct {
	Metric string `yaml:"metric"`
	Value  int64  `yaml:"value"`
	Icon   string `yaml:"icon"`
}

// Parse decodes a seed file. Unknown keys are rejected so typos surface.
func Parse(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("decode seed file: %w", err)
	}
	return f, nil
}

// Validate checks every record and reports all problems at once.
func (f File) Validate() error {
	var errs []error
	bad := func(section string, i int, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s[%d]: %s", section, i, fmt.Sprintf(format, args...)))
	}

	households := map[string]bool{}
	for i, fm := range f.Farmers {
		if strings.TrimSpace(fm.Name) == "" {
			bad("farmers", i, "name is required")
		}
		if fm.HouseholdID != "" {
			if households[fm.HouseholdID] {
				bad("farmers", i, "duplicate household_id %q", fm.HouseholdID)
			}
			households[fm.HouseholdID] = true
		}
	}
	for i, st := range f.Stories {
		if !households[st.Farmer] {
			bad("stories", i, "unknown farmer %q", st.Farmer)
		}
		if strings.TrimSpace(st.Title) == "" {
			bad("stories", i, "title is required")
		}
	}
	treeIDs := map[string]bool{}
	for i, t := range f.Trees {
		if !models.IsKnownSpecies(t.Species) {
			bad("trees", i, "unknown species %q", t.Species)
		}
		if _, err := time.Parse(dateLayout, t.Planted); err != nil {
			bad("trees", i, "planted must be YYYY-MM-DD, got %q", t.Planted)
		}
		if (t.Latitude == nil) != (t.Longitude == nil) {
			bad("trees", i, "lat and lng must be given together")
		}
		if t.ID != "" {
			if treeIDs[t.ID] {
				bad("trees", i, "duplicate id %q", t.ID)
			}
			treeIDs[t.ID] = true
		}
	}
	for i, d := range f.Donations {
		if _, err := primitive.ParseDecimal128(d.Amount); err != nil {
			bad("donations", i, "amount %q is not a decimal", d.Amount)
		}
		switch d.Status {
		case models.PaymentPending, models.PaymentPaid, models.PaymentFailed:
		default:
			bad("donations", i, "unknown status %q", d.Status)
		}
		if _, err := time.Parse(dateLayout, d.Date); err != nil {
			bad("donations", i, "date must be YYYY-MM-DD, got %q", d.Date)
		}
	}
	for i, o := range f.Orders {
		switch o.Status {
		case models.OrderPending, models.OrderPaid, models.OrderConfirmed, models.OrderFailed:
		default:
			bad("orders", i, "unknown status %q", o.Status)
		}
		for j, it := range o.Items {
			if it.Quantity <= 0 {
				bad("orders", i, "item %d quantity must be positive", j)
			}
		}
	}
	for i, ov := range f.Overrides {
		if _, err := impact.ParseMetric(ov.Metric); err != nil {
			bad("overrides", i, "unknown metric %q", ov.Metric)
		}
	}
	return errors.Join(errs...)
}

// TreeModel converts a seed tree. Validate must have passed.
func (t Tree) TreeModel(now time.Time) models.Tree {
	planted, _ := time.Parse(dateLayout, t.Planted)
	id := t.ID
	if id == "" {
		id = "T-" + strings.ToUpper(uuid.NewString()[:8])
	}
	return models.Tree{
		TreeID:      id,
		Species:     t.Species,
		PlantedDate: planted.UTC(),
		Location:    strings.TrimSpace(t.Location),
		Latitude:    t.Latitude,
		Longitude:   t.Longitude,
		CO2OffsetKg: t.CO2,
		IsActive:    !t.Inactive,
		CreatedAt:   now,
	}
}

// DonationModel converts a seed donation. Validate must have passed.
func (d Donation) DonationModel() models.Donation {
	amount, _ := primitive.ParseDecimal128(d.Amount)
	created, _ := time.Parse(dateLayout, d.Date)
	currency := d.Currency
	if currency == "" {
		currency = "USD"
	}
	return models.Donation{
		DonorName:     d.Donor,
		DonorEmail:    d.Email,
		Amount:        amount,
		Currency:      currency,
		DonationType:  d.Type,
		Purpose:       d.Purpose,
		PaymentStatus: d.Status,
		CreatedAt:     created.UTC(),
	}
}

// OrderModel converts a seed order and totals its items.
func (o Order) OrderModel(now time.Time) models.Order {
	out := models.Order{
		FullName:  o.Name,
		Email:     o.Email,
		Status:    o.Status,
		Items:     make([]models.OrderItem, 0, len(o.Items)),
		CreatedAt: now,
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, models.OrderItem{
			ProductName: it.Product,
			Quantity:    it.Quantity,
			UnitPrice:   it.Price,
		})
		out.TotalAmount += float64(it.Quantity) * it.Price
	}
	return out
}
