package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

var testKey = []byte("test-signing-key-0123456789abcdef")

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func doRequest(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw(okHandler)(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, c
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	rec, _ := doRequest(t, JWTMiddleware(JWTConfig{SigningKey: testKey}), "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestJWTMiddleware_MalformedHeader(t *testing.T) {
	rec, _ := doRequest(t, JWTMiddleware(JWTConfig{SigningKey: testKey}), "Basic abc123")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	token, err := IssueToken(testKey, "user-1", "clinic_a", RoleDoctor, 42, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	rec, c := doRequest(t, JWTMiddleware(JWTConfig{SigningKey: testKey}), "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	ctx := c.Request().Context()
	if got := RoleFromContext(ctx); got != RoleDoctor {
		t.Errorf("expected role doctor, got %q", got)
	}
	if got := DoctorIDFromContext(ctx); got != 42 {
		t.Errorf("expected doctor id 42, got %d", got)
	}
	if got := UserIDFromContext(ctx); got != "user-1" {
		t.Errorf("expected user-1, got %q", got)
	}
	if tid, _ := c.Get("jwt_tenant_id").(string); tid != "clinic_a" {
		t.Errorf("expected tenant clinic_a, got %q", tid)
	}
}

func TestJWTMiddleware_WrongKey(t *testing.T) {
	token, err := IssueToken([]byte("another-key-another-key-another!"), "u", "t", RoleAdmin, 0, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	rec, _ := doRequest(t, JWTMiddleware(JWTConfig{SigningKey: testKey}), "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	token, err := IssueToken(testKey, "u", "t", RoleAdmin, 0, -time.Minute)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	rec, _ := doRequest(t, JWTMiddleware(JWTConfig{SigningKey: testKey}), "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestDevAuthMiddleware_Defaults(t *testing.T) {
	rec, c := doRequest(t, DevAuthMiddleware(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !IsAdmin(c.Request().Context()) {
		t.Error("expected dev identity to be admin")
	}
}

func TestDevAuthMiddleware_IgnoresAuthorizationHeader(t *testing.T) {
	// Dev mode never validates tokens; a garbage header still gets the
	// default admin identity.
	rec, c := doRequest(t, DevAuthMiddleware(), "Bearer not-a-real-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !IsAdmin(c.Request().Context()) {
		t.Error("expected dev identity to be admin regardless of header")
	}
}

func TestDevAuthMiddleware_HeaderOverrides(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Dev-Role", RoleDoctor)
	req.Header.Set("X-Dev-Doctor-ID", "7")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := DevAuthMiddleware()(okHandler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := c.Request().Context()
	if got := RoleFromContext(ctx); got != RoleDoctor {
		t.Errorf("expected role doctor, got %q", got)
	}
	if got := DoctorIDFromContext(ctx); got != 7 {
		t.Errorf("expected doctor id 7, got %d", got)
	}
	if !CanActForDoctor(ctx, 7) {
		t.Error("overridden doctor identity should manage its own data")
	}
	if CanActForDoctor(ctx, 8) {
		t.Error("overridden doctor identity must not manage other doctors")
	}
}

func TestCanActForDoctor(t *testing.T) {
	token, _ := IssueToken(testKey, "u", "t", RoleDoctor, 7, time.Hour)
	_, c := doRequest(t, JWTMiddleware(JWTConfig{SigningKey: testKey}), "Bearer "+token)
	ctx := c.Request().Context()

	if !CanActForDoctor(ctx, 7) {
		t.Error("doctor should manage own data")
	}
	if CanActForDoctor(ctx, 8) {
		t.Error("doctor must not manage another doctor's data")
	}

	adminToken, _ := IssueToken(testKey, "a", "t", RoleAdmin, 0, time.Hour)
	_, c = doRequest(t, JWTMiddleware(JWTConfig{SigningKey: testKey}), "Bearer "+adminToken)
	if !CanActForDoctor(c.Request().Context(), 8) {
		t.Error("admin should manage any doctor's data")
	}
}
