package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/creatorstack/creatorstack-backend/pkg/enums"
)

type stubRoleChecker struct {
	ok  bool
	err error

	gotUser  uuid.UUID
	gotTeam  uuid.UUID
	gotRoles []enums.RoleLevel
}

func (s *stubRoleChecker) UserHasLevel(_ context.Context, userID, teamID uuid.UUID, levels ...enums.RoleLevel) (bool, error) {
	s.gotUser = userID
	s.gotTeam = teamID
	s.gotRoles = levels
	return s.ok, s.err
}

func teamRolesRequest(userID, teamID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := req.Context()
	if userID != "" {
		ctx = WithUserID(ctx, userID)
	}
	if teamID != "" {
		ctx = WithTeamID(ctx, teamID)
	}
	return req.WithContext(ctx)
}

func TestRequireTeamRolesAllowsMatchingRole(t *testing.T) {
	checker := &stubRoleChecker{ok: true}
	userID := uuid.New()
	teamID := uuid.New()

	var called bool
	handler := RequireTeamRoles(checker, nil, enums.RoleLevelOwner, enums.RoleLevelAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, teamRolesRequest(userID.String(), teamID.String()))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !called {
		t.Fatal("handler should run for allowed role")
	}
	if checker.gotUser != userID || checker.gotTeam != teamID {
		t.Fatalf("checker received wrong ids: %s %s", checker.gotUser, checker.gotTeam)
	}
	if len(checker.gotRoles) != 2 {
		t.Fatalf("expected 2 allowed roles got %d", len(checker.gotRoles))
	}
}

func TestRequireTeamRolesRejectsInsufficientRole(t *testing.T) {
	checker := &stubRoleChecker{ok: false}
	handler := RequireTeamRoles(checker, nil, enums.RoleLevelOwner)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, teamRolesRequest(uuid.NewString(), uuid.NewString()))
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRequireTeamRolesRequiresUserContext(t *testing.T) {
	checker := &stubRoleChecker{ok: true}
	handler := RequireTeamRoles(checker, nil, enums.RoleLevelOwner)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, teamRolesRequest("", uuid.NewString()))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRequireTeamRolesRequiresTeamContext(t *testing.T) {
	checker := &stubRoleChecker{ok: true}
	handler := RequireTeamRoles(checker, nil, enums.RoleLevelOwner)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, teamRolesRequest(uuid.NewString(), ""))
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestTeamContextRequiresTeam(t *testing.T) {
	handler := TeamContext(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, teamRolesRequest(uuid.NewString(), ""))
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}

	ok := httptest.NewRecorder()
	handler.ServeHTTP(ok, teamRolesRequest(uuid.NewString(), uuid.NewString()))
	if ok.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", ok.Code)
	}
}
