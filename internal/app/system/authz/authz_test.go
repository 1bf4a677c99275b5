package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/onecuponetree/onecup/internal/app/system/auth"
	"github.com/onecuponetree/onecup/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtx_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)

	role, name, id, ok := authz.UserCtx(req)

	if ok {
		t.Error("expected ok=false without a user")
	}
	if role != authz.RoleVisitor || name != "" || id != primitive.NilObjectID {
		t.Errorf("got role=%q name=%q id=%v", role, name, id)
	}
}

func TestUserCtx_MalformedID(t *testing.T) {
	req := auth.WithTestUser(httptest.NewRequest("GET", "/test", nil), &auth.SessionUser{
		ID:      "not-an-object-id",
		IsStaff: true,
	})

	if _, _, _, ok := authz.UserCtx(req); ok {
		t.Error("expected malformed ID to fail closed")
	}
	if authz.IsStaff(req) {
		t.Error("expected IsStaff false for malformed ID")
	}
}

func TestUserCtx_Staff(t *testing.T) {
	oid := primitive.NewObjectID()
	req := auth.WithTestUser(httptest.NewRequest("GET", "/test", nil), &auth.SessionUser{
		ID:      oid.Hex(),
		Name:    "Aline",
		IsStaff: true,
	})

	role, name, id, ok := authz.UserCtx(req)

	if !ok || role != authz.RoleStaff || name != "Aline" || id != oid {
		t.Errorf("got role=%q name=%q id=%v ok=%v", role, name, id, ok)
	}
	if !authz.IsStaff(req) {
		t.Error("expected IsStaff true")
	}
}

func TestIsStaff_False_ForRegularUser(t *testing.T) {
	req := auth.WithTestUser(httptest.NewRequest("GET", "/test", nil), &auth.SessionUser{
		ID: primitive.NewObjectID().Hex(),
	})

	if authz.IsStaff(req) {
		t.Error("expected IsStaff false for a non-staff user")
	}
	if role, _, _, _ := authz.UserCtx(req); role != authz.RoleUser {
		t.Errorf("role: got %q, want %q", role, authz.RoleUser)
	}
}
