package auth_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bracu-research/thesishub/internal/app/system/auth"
	"go.uber.org/zap"
)

const testKey = "0123456789abcdef0123456789abcdef"

func newManager(t *testing.T, issuer string, ttl time.Duration) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager(testKey, issuer, ttl, zap.NewNop())
	if err != nil {
		t.Fatalf("NewTokenManager failed: %v", err)
	}
	return tm
}

func TestTokenManager_EmptyKey(t *testing.T) {
	_, err := auth.NewTokenManager("", "thesishub", time.Hour, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for empty signing key")
	}
}

func TestTokenManager_IssueAndParse(t *testing.T) {
	tm := newManager(t, "thesishub", time.Hour)

	u := auth.SessionUser{
		ID:   "507f1f77bcf86cd799439011",
		Name: "Test Supervisor",
		Role: "supervisor",
	}

	token, exp, err := tm.Issue(u)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if time.Until(exp) < 55*time.Minute {
		t.Errorf("expiry too soon: %v", exp)
	}

	claims, err := tm.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.Subject != u.ID {
		t.Errorf("Subject: got %q, want %q", claims.Subject, u.ID)
	}
	if claims.Role != u.Role {
		t.Errorf("Role: got %q, want %q", claims.Role, u.Role)
	}
	if claims.Issuer != "thesishub" {
		t.Errorf("Issuer: got %q", claims.Issuer)
	}
}

func TestTokenManager_IssuerMismatch(t *testing.T) {
	issuerA := newManager(t, "thesishub", time.Hour)
	issuerB := newManager(t, "otherapp", time.Hour)

	token, _, err := issuerB.Issue(auth.SessionUser{ID: "x", Role: "student"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := issuerA.Parse(token); err == nil {
		t.Error("expected issuer mismatch error")
	}
}

func TestTokenManager_Expired(t *testing.T) {
	tm := newManager(t, "thesishub", time.Hour)

	short, err := auth.NewTokenManager(testKey, "thesishub", time.Nanosecond, zap.NewNop())
	if err != nil {
		t.Fatalf("NewTokenManager failed: %v", err)
	}
	token, _, err := short.Issue(auth.SessionUser{ID: "x", Role: "student"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if _, err := tm.Parse(token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestTokenManager_Garbage(t *testing.T) {
	tm := newManager(t, "thesishub", time.Hour)
	if _, err := tm.Parse("not.a.token"); err == nil {
		t.Error("expected garbage token to be rejected")
	}
}

func TestCurrentUser_RoundTrip(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)

	if _, ok := auth.CurrentUser(r); ok {
		t.Fatal("expected no user on a bare request")
	}

	u := &auth.SessionUser{ID: "abc", Name: "Someone", Role: "admin"}
	r = auth.WithTestUser(r, u)

	got, ok := auth.CurrentUser(r)
	if !ok {
		t.Fatal("expected a user after WithTestUser")
	}
	if got.ID != "abc" || got.Role != "admin" {
		t.Errorf("unexpected user: %+v", got)
	}
}
