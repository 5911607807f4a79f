// Package gates provides authorization gate functions for HTTP handlers.
//
// Route-level middleware (auth.RequireSignedIn, auth.RequireRole) handles
// coarse role checks in routes.go files. Gates are for handlers that need a
// check the route group does not express, and they write the JSON error
// themselves so call sites stay one-liners:
//
//	g := gates.RequireStudent(w, r)
//	if !g.OK {
//	    return
//	}
//
// Resource-specific authorization that needs database lookups (group
// adminship, meeting ownership) lives in internal/app/policy instead.
package gates

import (
	"net/http"

	"github.com/bracu-research/thesishub/internal/app/system/authz"
	"github.com/bracu-research/thesishub/internal/app/system/jsonapi"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Result contains the result of an authorization gate check.
type Result struct {
	Role   string
	Name   string
	UserID primitive.ObjectID
	OK     bool
}

// RequireAuth ensures a user is authenticated.
func RequireAuth(w http.ResponseWriter, r *http.Request) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		jsonapi.Fail(w, http.StatusUnauthorized, "Authentication required.")
		return Result{OK: false}
	}
	return Result{Role: role, Name: name, UserID: uid, OK: true}
}

// RequireStudent ensures the user is authenticated with the student role.
func RequireStudent(w http.ResponseWriter, r *http.Request) Result {
	return RequireAnyRole(w, r, "Only students can perform this action.", "student")
}

// RequireSupervisor ensures the user is authenticated with the supervisor role.
func RequireSupervisor(w http.ResponseWriter, r *http.Request) Result {
	return RequireAnyRole(w, r, "Only supervisors can perform this action.", "supervisor")
}

// RequireAdmin ensures the user is authenticated with the admin role.
func RequireAdmin(w http.ResponseWriter, r *http.Request) Result {
	return RequireAnyRole(w, r, "Only admins can perform this action.", "admin")
}

// RequireAnyRole ensures the user is authenticated and has one of the
// specified roles; otherwise it writes 401/403 and returns OK=false.
func RequireAnyRole(w http.ResponseWriter, r *http.Request, forbiddenMsg string, allowedRoles ...string) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		jsonapi.Fail(w, http.StatusUnauthorized, "Authentication required.")
		return Result{OK: false}
	}
	for _, allowed := range allowedRoles {
		if role == allowed {
			return Result{Role: role, Name: name, UserID: uid, OK: true}
		}
	}
	jsonapi.Fail(w, http.StatusForbidden, forbiddenMsg)
	return Result{OK: false}
}
