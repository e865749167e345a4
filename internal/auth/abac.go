package auth

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
)

type ctxKey string

const ContextUserKey ctxKey = "user"

var ErrForbidden = errors.New("forbidden")

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}

// ABACPolicy combines role permissions with resource ownership: a manager
// may mutate only the projects they own, while admins pass everything.
type ABACPolicy struct{}

// CanManageProject checks whether the user may mutate the project owned by
// managerID. Assignment and milestone writes route through this.
func (p *ABACPolicy) CanManageProject(u *User, managerID int64) error {
	if u == nil {
		return ErrForbidden
	}
	if u.IsAdmin() {
		return nil
	}
	if u.HasPermission(PermissionManageProjects) && u.ID == managerID {
		return nil
	}
	return ErrForbidden
}

// CanViewWorkload allows a user to read their own snapshot, and any
// manager-class role to read anyone's.
func (p *ABACPolicy) CanViewWorkload(u *User, employeeID int64) error {
	if u == nil {
		return ErrForbidden
	}
	if u.ID == employeeID || u.IsAdmin() || u.HasPermission(PermissionViewWorkload) {
		return nil
	}
	return ErrForbidden
}

// RequireABAC is a generic middleware wrapper that runs an ABAC check function.
func RequireABAC(abac *ABACPolicy, check func(a *ABACPolicy, u *User, r *http.Request) error) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := UserFromContext(r.Context())
			if !ok || u == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if err := check(abac, u, r); err != nil {
				if errors.Is(err, ErrForbidden) {
					http.Error(w, "forbidden", http.StatusForbidden)
					return
				}
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireCanManageProject builds a middleware that resolves the project's
// owner and checks the authenticated user against it.
func RequireCanManageProject(db *sqlx.DB, abac *ABACPolicy) func(next http.Handler) http.Handler {
	return RequireABAC(abac, func(a *ABACPolicy, u *User, r *http.Request) error {
		idStr := chi.URLParam(r, "id")
		if idStr == "" {
			return ErrForbidden
		}
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return err
		}

		var managerID int64
		err = db.GetContext(r.Context(), &managerID, "SELECT manager_id FROM projects WHERE id=$1", id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrForbidden
			}
			return err
		}
		return a.CanManageProject(u, managerID)
	})
}

// RequireCanViewWorkload guards the workload snapshot endpoint; the id path
// parameter is the employee being inspected.
func RequireCanViewWorkload(abac *ABACPolicy) func(next http.Handler) http.Handler {
	return RequireABAC(abac, func(a *ABACPolicy, u *User, r *http.Request) error {
		idStr := chi.URLParam(r, "id")
		if idStr == "" {
			return ErrForbidden
		}
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return err
		}
		return a.CanViewWorkload(u, id)
	})
}
