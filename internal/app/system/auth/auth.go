// internal/app/system/auth/auth.go

// Package auth implements bearer-token authentication. Callers obtain a JWT
// from POST /auth/login and present it on every request; the middleware
// re-fetches the user document so role changes and deletions take effect
// immediately instead of living on in stale claims.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bracu-research/thesishub/internal/app/system/jsonapi"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionUser is the authenticated caller injected into r.Context().
type SessionUser struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// UserFetcher loads fresh user data for the subject of a valid token.
// Implementations return nil when the user no longer exists.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *SessionUser
}

// Claims is the JWT payload. Role is advisory only; the middleware trusts
// the freshly fetched user document, not the claim.
type Claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 bearer tokens and provides the
// request middleware that loads the current user.
type TokenManager struct {
	key     []byte
	issuer  string
	ttl     time.Duration
	fetcher UserFetcher
	log     *zap.Logger
}

// NewTokenManager validates the signing key and builds a TokenManager.
func NewTokenManager(signingKey, issuer string, ttl time.Duration, logger *zap.Logger) (*TokenManager, error) {
	if signingKey == "" {
		return nil, fmt.Errorf("auth signing key is empty; provide 32+ random chars")
	}
	if len(signingKey) < 32 {
		logger.Warn("auth signing key is short; 32+ chars recommended",
			zap.Int("length", len(signingKey)))
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{
		key:    []byte(signingKey),
		issuer: issuer,
		ttl:    ttl,
		log:    logger,
	}, nil
}

// SetUserFetcher wires the store-backed fetcher used by LoadTokenUser.
func (tm *TokenManager) SetUserFetcher(f UserFetcher) {
	tm.fetcher = f
}

// Issue signs a token for the given user. Returns the token and its expiry.
func (tm *TokenManager) Issue(u SessionUser) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(tm.ttl)
	claims := Claims{
		Name: u.Name,
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tm.issuer,
			Subject:   u.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.key)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse validates a token string and returns its claims.
func (tm *TokenManager) Parse(tokenStr string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return tm.key, nil
	})
	if err != nil {
		return Claims{}, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, fmt.Errorf("invalid token")
	}
	if tm.issuer != "" && claims.Issuer != tm.issuer {
		return Claims{}, fmt.Errorf("issuer mismatch")
	}
	return *claims, nil
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// LoadTokenUser injects the user into context when a valid bearer token is
// presented. Requests without a token pass through anonymously; RequireSignedIn
// decides whether that matters for the route.
func (tm *TokenManager) LoadTokenUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := tm.Parse(raw)
		if err != nil {
			tm.log.Debug("rejected bearer token", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		u := &SessionUser{ID: claims.Subject, Name: claims.Name, Role: claims.Role}
		if tm.fetcher != nil {
			// Fresh fetch: a deleted or re-roled user is reflected immediately.
			if fresh := tm.fetcher.FetchUser(r.Context(), claims.Subject); fresh != nil {
				u = fresh
			} else {
				next.ServeHTTP(w, r)
				return
			}
		}
		next.ServeHTTP(w, withUser(r, u))
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadTokenUser).
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			jsonapi.Fail(w, http.StatusUnauthorized, "Authentication required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole ensures the user has one of the allowed roles.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				jsonapi.Fail(w, http.StatusUnauthorized, "Authentication required.")
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				jsonapi.Fail(w, http.StatusForbidden, "You are not allowed to perform this action.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithTestUser injects a user into the request context. Test helper only.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" || !strings.HasPrefix(strings.ToLower(h), "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[len("bearer "):])
}
