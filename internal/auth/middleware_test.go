package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sakif/pastebin/internal/model"
)

// okHandler records the identity it sees and responds 200.
func okHandler(t *testing.T, got **Identity) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity, ok := IdentityFromContext(r.Context()); ok {
			*got = identity
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_MissingToken(t *testing.T) {
	ts := newTestTokenService(t)
	var seen *Identity

	handler := RequireAuth(ts)(okHandler(t, &seen))

	req := httptest.NewRequest(http.MethodGet, "/api/snippets", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
	if seen != nil {
		t.Error("handler should not run without a token")
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	ts := newTestTokenService(t)
	var seen *Identity

	handler := RequireAuth(ts)(okHandler(t, &seen))

	req := httptest.NewRequest(http.MethodGet, "/api/snippets", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestRequireAuth_ValidToken(t *testing.T) {
	ts := newTestTokenService(t)
	var seen *Identity

	handler := RequireAuth(ts)(okHandler(t, &seen))

	token, err := ts.Generate(&model.User{ID: 9, Username: "carol", Role: model.RoleUser})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/snippets", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if seen == nil {
		t.Fatal("handler did not receive an identity")
	}
	if seen.UserID != 9 || seen.Username != "carol" || seen.Role != model.RoleUser {
		t.Errorf("identity = %+v, want UserID=9 Username=carol Role=user", seen)
	}
}

// 401 vs 403: a user-role token passes RequireAuth but must be stopped by
// RequireAdmin with Forbidden, not Unauthorized.
func TestRequireAdmin_UserRole(t *testing.T) {
	ts := newTestTokenService(t)
	var seen *Identity

	handler := RequireAuth(ts)(RequireAdmin(okHandler(t, &seen)))

	token, _ := ts.Generate(&model.User{ID: 3, Username: "dave", Role: model.RoleUser})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}
	if seen != nil {
		t.Error("handler should not run for a non-admin caller")
	}
}

func TestRequireAdmin_AdminRole(t *testing.T) {
	ts := newTestTokenService(t)
	var seen *Identity

	handler := RequireAuth(ts)(RequireAdmin(okHandler(t, &seen)))

	token, _ := ts.Generate(&model.User{ID: 1, Username: "admin", Role: model.RoleAdmin})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if seen == nil || seen.Role != model.RoleAdmin {
		t.Errorf("identity = %+v, want admin role", seen)
	}
}

func TestRequireAdmin_NoIdentity(t *testing.T) {
	var seen *Identity

	// Miswired chain: RequireAdmin without RequireAuth in front.
	handler := RequireAdmin(okHandler(t, &seen))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/test", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}
