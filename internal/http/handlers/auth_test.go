package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/taskhub/api/internal/auth"
	"github.com/taskhub/api/internal/domain/user"
	"github.com/taskhub/api/internal/http/handlers"
)

// Fake implementation of the handlers.AuthService interface

type fakeAuthService struct {
	registerFn func(ctx context.Context, username, email, name, password string) (user.User, string, error)
	loginFn    func(ctx context.Context, identifier, password string) (user.User, string, error)
	refreshFn  func(ctx context.Context, id auth.Identity) (user.User, string, error)
}

func (f *fakeAuthService) Register(ctx context.Context, username, email, name, password string) (user.User, string, error) {
	if f.registerFn != nil {
		return f.registerFn(ctx, username, email, name, password)
	}
	return user.User{}, "", nil
}

func (f *fakeAuthService) Login(ctx context.Context, identifier, password string) (user.User, string, error) {
	if f.loginFn != nil {
		return f.loginFn(ctx, identifier, password)
	}
	return user.User{}, "", nil
}

func (f *fakeAuthService) Refresh(ctx context.Context, id auth.Identity) (user.User, string, error) {
	if f.refreshFn != nil {
		return f.refreshFn(ctx, id)
	}
	return user.User{}, "", nil
}

func TestRegisterHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		svcSetup       func(*fakeAuthService)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{"username": "alice", "email": "a@x.com", "password": "pw123456", "name": "Alice"}`,
			svcSetup: func(f *fakeAuthService) {
				f.registerFn = func(ctx context.Context, username, email, name, password string) (user.User, string, error) {
					return user.User{ID: "u-1", Username: username, Email: email, Name: name}, "token-1", nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "missing_fields",
			body:           `{"username": "alice"}`,
			svcSetup:       func(f *fakeAuthService) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "bad_email",
			body:           `{"username": "alice", "email": "not-an-email", "password": "pw123456", "name": "Alice"}`,
			svcSetup:       func(f *fakeAuthService) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "duplicate",
			body: `{"username": "alice", "email": "a@x.com", "password": "pw123456", "name": "Alice"}`,
			svcSetup: func(f *fakeAuthService) {
				f.registerFn = func(ctx context.Context, username, email, name, password string) (user.User, string, error) {
					return user.User{}, "", user.ErrDuplicate
				}
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "service_error",
			body: `{"username": "alice", "email": "a@x.com", "password": "pw123456", "name": "Alice"}`,
			svcSetup: func(f *fakeAuthService) {
				f.registerFn = func(ctx context.Context, username, email, name, password string) (user.User, string, error) {
					return user.User{}, "", errors.New("store down")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAuthService{}

			if tt.svcSetup != nil {
				tt.svcSetup(svc)
			}

			h := handlers.NewAuthHandler(svc, discardLogger(), newMetrics())
			r := setupRouter(http.MethodPost, "/api/auth/register", nil, h.Register)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestRegisterHandlerNeverLeaksPasswordHash(t *testing.T) {
	svc := &fakeAuthService{
		registerFn: func(ctx context.Context, username, email, name, password string) (user.User, string, error) {
			return user.User{ID: "u-1", Username: username, Email: email, Name: name, PasswordHash: "bcrypt-hash"}, "token-1", nil
		},
	}

	h := handlers.NewAuthHandler(svc, discardLogger(), newMetrics())
	r := setupRouter(http.MethodPost, "/api/auth/register", nil, h.Register)

	body := `{"username": "alice", "email": "a@x.com", "password": "pw123456", "name": "Alice"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	if bytes.Contains(w.Body.Bytes(), []byte("bcrypt-hash")) {
		t.Fatalf("password hash leaked in response: %s", w.Body.String())
	}
}

func TestLoginHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		svcSetup       func(*fakeAuthService)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{"username": "alice", "password": "pw123456"}`,
			svcSetup: func(f *fakeAuthService) {
				f.loginFn = func(ctx context.Context, identifier, password string) (user.User, string, error) {
					return user.User{ID: "u-1", Username: identifier}, "token-1", nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing_password",
			body:           `{"username": "alice"}`,
			svcSetup:       func(f *fakeAuthService) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "unknown_user",
			body: `{"username": "ghost", "password": "pw123456"}`,
			svcSetup: func(f *fakeAuthService) {
				f.loginFn = func(ctx context.Context, identifier, password string) (user.User, string, error) {
					return user.User{}, "", user.ErrNotFound
				}
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name: "wrong_password",
			body: `{"username": "alice", "password": "wrong"}`,
			svcSetup: func(f *fakeAuthService) {
				f.loginFn = func(ctx context.Context, identifier, password string) (user.User, string, error) {
					return user.User{}, "", auth.ErrInvalidCredentials
				}
			},
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAuthService{}

			if tt.svcSetup != nil {
				tt.svcSetup(svc)
			}

			h := handlers.NewAuthHandler(svc, discardLogger(), newMetrics())
			r := setupRouter(http.MethodPost, "/api/auth/login", nil, h.Login)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestLoginHandlerUnknownUserAndWrongPasswordLookAlike(t *testing.T) {
	run := func(svcErr error) string {
		svc := &fakeAuthService{
			loginFn: func(ctx context.Context, identifier, password string) (user.User, string, error) {
				return user.User{}, "", svcErr
			},
		}

		h := handlers.NewAuthHandler(svc, discardLogger(), newMetrics())
		r := setupRouter(http.MethodPost, "/api/auth/login", nil, h.Login)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(`{"username": "x", "password": "y"}`))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		return w.Body.String()
	}

	if run(user.ErrNotFound) != run(auth.ErrInvalidCredentials) {
		t.Fatal("login failure responses should be indistinguishable")
	}
}

func TestRefreshHandler(t *testing.T) {
	tests := []struct {
		name           string
		identity       *auth.Identity
		svcSetup       func(*fakeAuthService)
		wantStatusCode int
	}{
		{
			name:     "success",
			identity: &testIdentity,
			svcSetup: func(f *fakeAuthService) {
				f.refreshFn = func(ctx context.Context, id auth.Identity) (user.User, string, error) {
					return user.User{ID: id.UserID}, "fresh-token", nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing_identity",
			identity:       nil,
			svcSetup:       func(f *fakeAuthService) {},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:     "user_gone",
			identity: &testIdentity,
			svcSetup: func(f *fakeAuthService) {
				f.refreshFn = func(ctx context.Context, id auth.Identity) (user.User, string, error) {
					return user.User{}, "", user.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAuthService{}

			if tt.svcSetup != nil {
				tt.svcSetup(svc)
			}

			h := handlers.NewAuthHandler(svc, discardLogger(), newMetrics())
			r := setupRouter(http.MethodPost, "/api/auth/refresh", tt.identity, h.Refresh)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", bytes.NewBufferString(`{}`))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestRefreshHandlerReturnsFreshToken(t *testing.T) {
	svc := &fakeAuthService{
		refreshFn: func(ctx context.Context, id auth.Identity) (user.User, string, error) {
			return user.User{ID: id.UserID, Email: id.Email}, "fresh-token", nil
		},
	}

	h := handlers.NewAuthHandler(svc, discardLogger(), newMetrics())
	r := setupRouter(http.MethodPost, "/api/auth/refresh", &testIdentity, h.Refresh)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp.Token != "fresh-token" {
		t.Fatalf("got token %q, want fresh-token", resp.Token)
	}
}
