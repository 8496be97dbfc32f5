package middlewares

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/taskhub/api/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier struct {
	verifyFn func(token string) (auth.Identity, error)
}

func (f *fakeVerifier) Verify(token string) (auth.Identity, error) {
	return f.verifyFn(token)
}

func TestRequireAuth(t *testing.T) {
	validID := auth.Identity{UserID: "u-1", Username: "alice", Email: "a@x.com"}

	tests := []struct {
		name           string
		authHeader     string
		verifyFn       func(token string) (auth.Identity, error)
		wantStatusCode int
	}{
		{
			name:           "missing_header",
			authHeader:     "",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "wrong_scheme",
			authHeader:     "Basic abc123",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "bearer_without_token",
			authHeader:     "Bearer ",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:       "invalid_token",
			authHeader: "Bearer garbage",
			verifyFn: func(token string) (auth.Identity, error) {
				return auth.Identity{}, auth.ErrInvalidToken
			},
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:       "expired_token",
			authHeader: "Bearer expired",
			verifyFn: func(token string) (auth.Identity, error) {
				return auth.Identity{}, errors.New("token is expired")
			},
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:       "valid_token",
			authHeader: "Bearer good",
			verifyFn: func(token string) (auth.Identity, error) {
				if token != "good" {
					return auth.Identity{}, auth.ErrInvalidToken
				}
				return validID, nil
			},
			wantStatusCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			mw := NewAuthMiddleware(&fakeVerifier{verifyFn: tt.verifyFn})

			var seen *auth.Identity

			r := gin.New()
			r.GET("/protected", mw.RequireAuth(), func(c *gin.Context) {
				if id, ok := IdentityFromContext(c); ok {
					seen = &id
				}
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)

			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusOK {
				if seen == nil {
					t.Fatal("identity was not set on the context")
				}
				if *seen != validID {
					t.Fatalf("got identity %+v, want %+v", *seen, validID)
				}
			} else if seen != nil {
				t.Fatal("identity set despite rejection")
			}
		})
	}
}
