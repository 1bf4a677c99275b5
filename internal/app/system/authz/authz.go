// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/onecuponetree/onecup/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles reported by UserCtx.
const (
	RoleVisitor = "visitor"
	RoleUser    = "user"
	RoleStaff   = "staff"
)

// UserCtx returns the user's role, name, Mongo ObjectID, and a found flag.
// If no user is present in context or the user ID is malformed, it returns
// "visitor", "", NilObjectID, false, so ok=true always means a valid,
// authenticated user.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return RoleVisitor, "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session; fail closed.
		return RoleVisitor, "", primitive.NilObjectID, false
	}
	if user.IsStaff {
		return RoleStaff, user.Name, userID, true
	}
	return RoleUser, user.Name, userID, true
}

// IsStaff reports whether the current request's user is staff.
func IsStaff(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == RoleStaff
}
