package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"chirper/internal/config"
	"chirper/internal/service"
)

const testSecret = "test-secret"

func testVerifier() TokenVerifier {
	return service.NewTokenService(&config.Config{JWTSecret: testSecret})
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func validClaims(userID int64) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		setRequest func(r *http.Request)
		wantStatus int
		wantUserID int64
	}{
		{
			name:       "no token",
			setRequest: func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "valid bearer token",
			setRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, validClaims(42)))
			},
			wantStatus: http.StatusOK,
			wantUserID: 42,
		},
		{
			name: "valid cookie",
			setRequest: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "jwt", Value: signToken(t, testSecret, validClaims(7))})
			},
			wantStatus: http.StatusOK,
			wantUserID: 7,
		},
		{
			name: "expired token",
			setRequest: func(r *http.Request) {
				claims := jwt.MapClaims{
					"user_id": int64(1),
					"exp":     time.Now().Add(-time.Hour).Unix(),
					"iat":     time.Now().Add(-2 * time.Hour).Unix(),
				}
				r.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, claims))
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "wrong secret",
			setRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", validClaims(1)))
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "missing user_id claim",
			setRequest: func(r *http.Request) {
				claims := jwt.MapClaims{
					"exp": time.Now().Add(time.Hour).Unix(),
				}
				r.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, claims))
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "malformed authorization header falls back to cookie",
			setRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "NotBearer")
				r.AddCookie(&http.Cookie{Name: "jwt", Value: signToken(t, testSecret, validClaims(9))})
			},
			wantStatus: http.StatusOK,
			wantUserID: 9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID int64
			var nextCalled bool

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				gotUserID, _ = GetUserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setRequest(req)
			rec := httptest.NewRecorder()

			AuthMiddleware(testVerifier())(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				if !nextCalled {
					t.Fatal("next handler should be called")
				}
				if gotUserID != tt.wantUserID {
					t.Errorf("user id = %d, want %d", gotUserID, tt.wantUserID)
				}
			} else if nextCalled {
				t.Error("next handler should not be called on auth failure")
			}
		})
	}
}
