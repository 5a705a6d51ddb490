package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Igsankya24/krishna-tech-solutions/internal/models"
)

// ---------------------------------------------------------------------------
// Stub access store
// ---------------------------------------------------------------------------

type stubAccessStore struct {
	approved    map[uuid.UUID]bool
	roles       map[uuid.UUID][]string
	permissions map[uuid.UUID][]string
	err         error
}

func newStubAccessStore() *stubAccessStore {
	return &stubAccessStore{
		approved:    make(map[uuid.UUID]bool),
		roles:       make(map[uuid.UUID][]string),
		permissions: make(map[uuid.UUID][]string),
	}
}

func (s *stubAccessStore) IsApproved(_ context.Context, userID uuid.UUID) (bool, error) {
	return s.approved[userID], s.err
}

func (s *stubAccessStore) HasRole(_ context.Context, userID uuid.UUID, role string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	for _, r := range s.roles[userID] {
		if r == role {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubAccessStore) HasPermission(_ context.Context, userID uuid.UUID, permission string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	for _, p := range s.permissions[userID] {
		if p == permission {
			return true, nil
		}
	}
	return false, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// serveWith runs one request through an identity stub, the guard under test,
// and a 200 handler.
func serveWith(userID *uuid.UUID, guard gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/guarded",
		func(c *gin.Context) {
			if userID != nil {
				c.Set(ContextUserID, *userID)
			}
		},
		guard,
		func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) },
	)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	r.ServeHTTP(w, req)
	return w
}

// ---------------------------------------------------------------------------
// RequireStaff
// ---------------------------------------------------------------------------

func TestRequireStaff_UnapprovedWithoutRoleForbidden(t *testing.T) {
	store := newStubAccessStore()
	user := uuid.New()

	w := serveWith(&user, RequireStaff(store))
	if w.Code != http.StatusForbidden {
		t.Errorf("want 403, got %d", w.Code)
	}
}

func TestRequireStaff_ApprovedAllowed(t *testing.T) {
	store := newStubAccessStore()
	user := uuid.New()
	store.approved[user] = true

	w := serveWith(&user, RequireStaff(store))
	if w.Code != http.StatusOK {
		t.Errorf("want 200, got %d", w.Code)
	}
}

func TestRequireStaff_AdminRoleSkipsApproval(t *testing.T) {
	store := newStubAccessStore()
	user := uuid.New()
	store.roles[user] = []string{models.RoleAdmin}

	w := serveWith(&user, RequireStaff(store))
	if w.Code != http.StatusOK {
		t.Errorf("admin without approval flag must pass, got %d", w.Code)
	}
}

func TestRequireStaff_MissingIdentityUnauthorized(t *testing.T) {
	store := newStubAccessStore()

	w := serveWith(nil, RequireStaff(store))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("want 401, got %d", w.Code)
	}
}

func TestRequireStaff_StoreErrorIs500(t *testing.T) {
	store := newStubAccessStore()
	store.err = errors.New("db down")
	user := uuid.New()

	w := serveWith(&user, RequireStaff(store))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("want 500, got %d", w.Code)
	}
}

// ---------------------------------------------------------------------------
// RequireRole
// ---------------------------------------------------------------------------

func TestRequireRole_Allows(t *testing.T) {
	store := newStubAccessStore()
	user := uuid.New()
	store.roles[user] = []string{models.RoleSuperAdmin}

	w := serveWith(&user, RequireRole(store, models.RoleSuperAdmin))
	if w.Code != http.StatusOK {
		t.Errorf("want 200, got %d", w.Code)
	}
}

func TestRequireRole_AnyOfSeveral(t *testing.T) {
	store := newStubAccessStore()
	user := uuid.New()
	store.roles[user] = []string{models.RoleAdmin}

	w := serveWith(&user, RequireRole(store, models.RoleAdmin, models.RoleSuperAdmin))
	if w.Code != http.StatusOK {
		t.Errorf("want 200, got %d", w.Code)
	}
}

func TestRequireRole_Forbids(t *testing.T) {
	store := newStubAccessStore()
	user := uuid.New()
	store.roles[user] = []string{models.RoleUser}

	w := serveWith(&user, RequireRole(store, models.RoleSuperAdmin))
	if w.Code != http.StatusForbidden {
		t.Errorf("want 403, got %d", w.Code)
	}
}

func TestRequireRole_ApprovalIsNotARole(t *testing.T) {
	store := newStubAccessStore()
	user := uuid.New()
	store.approved[user] = true

	w := serveWith(&user, RequireRole(store, models.RoleAdmin))
	if w.Code != http.StatusForbidden {
		t.Errorf("approved non-admin must not pass a role gate, got %d", w.Code)
	}
}

// ---------------------------------------------------------------------------
// RequirePermission
// ---------------------------------------------------------------------------

func TestRequirePermission_AdminBypasses(t *testing.T) {
	store := newStubAccessStore()
	user := uuid.New()
	store.roles[user] = []string{models.RoleAdmin}

	w := serveWith(&user, RequirePermission(store, models.PermissionManageCoupons))
	if w.Code != http.StatusOK {
		t.Errorf("want 200, got %d", w.Code)
	}
}

func TestRequirePermission_GrantedRowAllows(t *testing.T) {
	store := newStubAccessStore()
	user := uuid.New()
	store.permissions[user] = []string{models.PermissionManageCoupons}

	w := serveWith(&user, RequirePermission(store, models.PermissionManageCoupons))
	if w.Code != http.StatusOK {
		t.Errorf("want 200, got %d", w.Code)
	}
}

func TestRequirePermission_Forbids(t *testing.T) {
	store := newStubAccessStore()
	user := uuid.New()
	store.permissions[user] = []string{models.PermissionManageServices}

	w := serveWith(&user, RequirePermission(store, models.PermissionManageCoupons))
	if w.Code != http.StatusForbidden {
		t.Errorf("want 403, got %d", w.Code)
	}
}
