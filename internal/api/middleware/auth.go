package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

const (
	msgMissingToken = "отсутствует токен авторизации"
	msgInvalidToken = "недействительный токен авторизации"
	msgForbidden    = "доступ запрещен"

	tokenLeeway = 5 * time.Second
)

// Claims полезная нагрузка токена: sub - ID пользователя, role - роль
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Authenticator проверяет HMAC JWT из заголовка Authorization
type Authenticator struct {
	secret []byte
	logger Logger
}

// NewAuthenticator создает middleware аутентификации
func NewAuthenticator(secret string, logger Logger) *Authenticator {
	return &Authenticator{
		secret: []byte(secret),
		logger: logger,
	}
}

// Middleware кладет ID и роль пользователя в контекст или отвечает 401
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			handlers.RespondUnauthorized(w, msgMissingToken)
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			handlers.RespondUnauthorized(w, msgInvalidToken)
			return
		}

		userID, role, err := a.parse(parts[1])
		if err != nil {
			a.logger.Warn("Auth: %s %s - invalid token: %v", r.Method, r.URL.Path, err)
			handlers.RespondUnauthorized(w, msgInvalidToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID, role)))
	})
}

func (a *Authenticator) parse(tokenStr string) (int64, domain.Role, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return a.secret, nil
	}, jwt.WithLeeway(tokenLeeway))
	if err != nil {
		return 0, "", err
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, "", errors.New("subject is not a user id")
	}
	if !claims.Role.IsValid() {
		return 0, "", errors.New("unknown role")
	}

	return userID, claims.Role, nil
}

// RequireRole пропускает только пользователей с одной из ролей
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRole(r.Context())
			if !ok {
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			handlers.RespondForbidden(w, msgForbidden)
		})
	}
}
