package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/keepsake/internal/server/handlers"
)

// AuthMiddleware создает middleware для проверки JWT токена.
// The token subject becomes the request scope.
func AuthMiddleware(logger *slog.Logger, jwtConfig handlers.JWTConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Извлекаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Missing Authorization header", "path", sanitizePath(r.URL.Path))
				http.Error(w, "Unauthorized: missing token", http.StatusUnauthorized)
				return
			}

			// Ожидаем формат: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				// Сам заголовок не логируем, в нём может быть секрет
				logger.Warn("Invalid Authorization header format")
				http.Error(w, "Unauthorized: invalid token format", http.StatusUnauthorized)
				return
			}

			scope, err := handlers.ValidateAccessToken(jwtConfig, strings.TrimSpace(parts[1]))
			if err != nil {
				logger.Warn("Invalid access token", "error", err)
				http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
				return
			}

			logger.Debug("Request authenticated", "scope", scope)

			next.ServeHTTP(w, r.WithContext(handlers.WithScope(r.Context(), scope)))
		})
	}
}
