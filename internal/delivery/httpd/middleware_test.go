package httpd

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjnyampinga/Educational-File-Manager/internal/i18n"
	"github.com/mjnyampinga/Educational-File-Manager/internal/models"
	"github.com/mjnyampinga/Educational-File-Manager/internal/service"
	"github.com/mjnyampinga/Educational-File-Manager/internal/ws"
)

// стаб авторизации: один валидный токен, один пользователь
type stubAuthService struct {
	validToken string
	user       *models.User
}

func (s *stubAuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, service.ErrNotFound
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) ParseToken(tokenString string) (*service.Claims, error) {
	if tokenString != s.validToken {
		return nil, errors.New("invalid token")
	}
	claims := &service.Claims{Role: s.user.Role}
	claims.Subject = s.user.ID
	return claims, nil
}

func newTestHandler(t *testing.T, user *models.User) *Handler {
	t.Helper()

	translator, err := i18n.New()
	require.NoError(t, err)

	return NewHandler(
		&stubAuthService{validToken: "good-token", user: user},
		nil,
		nil,
		nil,
		translator,
		ws.NewHub(zerolog.Nop()),
		nil,
		zerolog.Nop(),
	)
}

func TestAuthMiddleware(t *testing.T) {
	teacher := &models.User{ID: "u-1", Role: models.RoleTeacher.String(), PreferredLanguage: "fr"}
	handler := newTestHandler(t, teacher)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := userFromContext(r.Context())
		require.NotNil(t, user)
		assert.Equal(t, "u-1", user.ID)
		// Язык профиля попадает в контекст
		assert.Equal(t, "fr", localeFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "no header", wantStatus: http.StatusUnauthorized},
		{name: "not bearer", authHeader: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "bad token", authHeader: "Bearer bad-token", wantStatus: http.StatusUnauthorized},
		{name: "valid token", authHeader: "Bearer good-token", wantStatus: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRequireTeacher(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		user       *models.User
		wantStatus int
	}{
		{name: "teacher", user: &models.User{ID: "t-1", Role: models.RoleTeacher.String()}, wantStatus: http.StatusOK},
		{name: "student", user: &models.User{ID: "s-1", Role: models.RoleStudent.String()}, wantStatus: http.StatusForbidden},
		{name: "no user", wantStatus: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHandler(t, &models.User{ID: "x"})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/classes", nil)
			if tt.user != nil {
				ctx := context.WithValue(req.Context(), userContextKey, tt.user)
				req = req.WithContext(ctx)
			}
			rec := httptest.NewRecorder()

			handler.RequireTeacher(next).ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestLocaleMiddleware(t *testing.T) {
	handler := newTestHandler(t, &models.User{ID: "x"})

	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = localeFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "rw-RW,rw;q=0.9")
	handler.LocaleMiddleware(next).ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "rw", got)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	handler.LocaleMiddleware(next).ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "en", got)
}
