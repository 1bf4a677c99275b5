package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/onecuponetree/onecup/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to insert into %s: %v", coll, err)
	}
}

// Date returns UTC midnight on the given day.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CreateTree creates a coffee tree without coordinates.
func (f *Fixtures) CreateTree(ctx context.Context, treeID string, planted time.Time, location string, active bool) models.Tree {
	f.t.Helper()
	tr := models.Tree{
		ID:          primitive.NewObjectID(),
		TreeID:      treeID,
		Species:     models.SpeciesCoffee,
		PlantedDate: planted,
		Location:    location,
		IsActive:    active,
		CreatedAt:   time.Now().UTC(),
	}
	f.insert(ctx, "trees", tr)
	return tr
}

// CreateGeoTree creates an active tree with both coordinates.
func (f *Fixtures) CreateGeoTree(ctx context.Context, treeID, species string, planted time.Time, lat, lng float64) models.Tree {
	f.t.Helper()
	tr := models.Tree{
		ID:          primitive.NewObjectID(),
		TreeID:      treeID,
		Species:     species,
		PlantedDate: planted,
		Latitude:    &lat,
		Longitude:   &lng,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
	f.insert(ctx, "trees", tr)
	return tr
}

// CreateDonation creates a donation. amount is a decimal string such as "100.50".
func (f *Fixtures) CreateDonation(ctx context.Context, amount, status string, created time.Time) models.Donation {
	f.t.Helper()
	dec, err := primitive.ParseDecimal128(amount)
	if err != nil {
		f.t.Fatalf("bad donation amount %q: %v", amount, err)
	}
	d := models.Donation{
		ID:            primitive.NewObjectID(),
		DonorName:     "Donor " + amount,
		DonorEmail:    "donor@example.com",
		Amount:        dec,
		Currency:      "RWF",
		Purpose:       "trees",
		PaymentStatus: status,
		CreatedAt:     created,
	}
	f.insert(ctx, "donations", d)
	return d
}

// CreateFarmer creates a farmer.
func (f *Fixtures) CreateFarmer(ctx context.Context, name string) models.Farmer {
	f.t.Helper()
	fm := models.Farmer{
		ID:        primitive.NewObjectID(),
		FullName:  name,
		CreatedAt: time.Now().UTC(),
	}
	f.insert(ctx, "farmers", fm)
	return fm
}

// CreateStory creates a success story for farmerID.
func (f *Fixtures) CreateStory(ctx context.Context, farmerID primitive.ObjectID, title string, published bool) models.FarmerStory {
	f.t.Helper()
	st := models.FarmerStory{
		ID:          primitive.NewObjectID(),
		FarmerID:    farmerID,
		Title:       title,
		Content:     "<p>" + title + "</p>",
		IsPublished: published,
		CreatedAt:   time.Now().UTC(),
	}
	f.insert(ctx, "farmer_stories", st)
	return st
}

// CreateTrainingApplication creates a barista training application.
func (f *Fixtures) CreateTrainingApplication(ctx context.Context, name string, selected bool) models.TrainingApplication {
	f.t.Helper()
	a := models.TrainingApplication{
		ID:                  primitive.NewObjectID(),
		FullName:            name,
		Email:               "applicant@example.com",
		SelectedForTraining: selected,
		CreatedAt:           time.Now().UTC(),
	}
	f.insert(ctx, "training_applications", a)
	return a
}

// CreateOrder creates an order with one item per quantity.
func (f *Fixtures) CreateOrder(ctx context.Context, status string, quantities ...int64) models.Order {
	f.t.Helper()
	o := models.Order{
		ID:        primitive.NewObjectID(),
		FullName:  "Buyer",
		Email:     "buyer@example.com",
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
	for _, q := range quantities {
		o.Items = append(o.Items, models.OrderItem{ProductName: "Coffee", Quantity: q, UnitPrice: 5000})
		o.TotalAmount += float64(q) * 5000
	}
	f.insert(ctx, "orders", o)
	return o
}

// CreateOverride inserts an impact_stats row directly, bypassing validation.
func (f *Fixtures) CreateOverride(ctx context.Context, metric string, value int64, active bool) models.ImpactStat {
	f.t.Helper()
	st := models.ImpactStat{
		ID:        primitive.NewObjectID(),
		Metric:    metric,
		Value:     value,
		IsActive:  active,
		UpdatedAt: time.Now().UTC(),
	}
	f.insert(ctx, "impact_stats", st)
	return st
}

// CreateTestimonial creates a testimonial.
func (f *Fixtures) CreateTestimonial(ctx context.Context, author, quote string, featured bool, created time.Time) models.Testimonial {
	f.t.Helper()
	tm := models.Testimonial{
		ID:         primitive.NewObjectID(),
		Author:     author,
		Quote:      quote,
		IsFeatured: featured,
		CreatedAt:  created,
	}
	f.insert(ctx, "testimonials", tm)
	return tm
}

// CreateUser creates an active user with a bcrypt-hashed password.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, password string, staff bool) models.User {
	f.t.Helper()
	return f.createUser(ctx, fullName, email, password, staff, models.UserActive)
}

// CreateDisabledUser creates a disabled staff user.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, fullName, email, password string) models.User {
	f.t.Helper()
	return f.createUser(ctx, fullName, email, password, true, models.UserDisabled)
}

func (f *Fixtures) createUser(ctx context.Context, fullName, email, password string, staff bool, status string) models.User {
	f.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}
	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		Email:        email,
		EmailCI:      text.Fold(email),
		PasswordHash: string(hash),
		IsStaff:      staff,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.insert(ctx, "users", u)
	return u
}
