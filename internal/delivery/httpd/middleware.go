package httpd

import (
	"context"
	"net/http"
	"strings"

	"github.com/mjnyampinga/Educational-File-Manager/internal/i18n"
	"github.com/mjnyampinga/Educational-File-Manager/internal/models"
)

type contextKey string

const (
	userContextKey   contextKey = "user"
	localeContextKey contextKey = "locale"
)

// AuthMiddleware проверяет Bearer-токен и кладет пользователя в контекст
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeError(w, http.StatusUnauthorized, "Authorization header must be a Bearer token")
			return
		}

		claims, err := h.authService.ParseToken(parts[1])
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		user, err := h.authService.GetUser(r.Context(), claims.Subject)
		if err != nil {
			h.logger.Error().Err(err).Str("user_id", claims.Subject).Msg("Failed to load user for token")
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		// Язык профиля важнее заголовка Accept-Language
		if user.PreferredLanguage != "" {
			ctx = context.WithValue(ctx, localeContextKey, user.PreferredLanguage)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireTeacher пускает дальше только учителей
func (h *Handler) RequireTeacher(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := userFromContext(r.Context())
		if user == nil {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !user.IsTeacher() {
			writeError(w, http.StatusForbidden, "Teacher role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LocaleMiddleware определяет язык ответов из Accept-Language
func (h *Handler) LocaleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := i18n.ResolveLocale(r.Header.Get("Accept-Language"))
		ctx := context.WithValue(r.Context(), localeContextKey, locale)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

func localeFromContext(ctx context.Context) string {
	if locale, ok := ctx.Value(localeContextKey).(string); ok {
		return locale
	}
	return i18n.FallbackLocale
}
