// Package middleware HTTP middleware: аутентификация бизнеса, request id
// и сбор метрик
package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/appointa/booking-service/internal/api/handlers"
)

type contextKey string

const businessIDKey contextKey = "businessID"

// HeaderBusinessID заголовок с ID аутентифицированного бизнеса.
// Сам сервис доверяет заголовку: аутентификацию выполняет API gateway
const HeaderBusinessID = "X-Business-ID"

// Auth требует валидный X-Business-ID и кладет его в контекст запроса
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(HeaderBusinessID)
		if raw == "" {
			handlers.RespondError(w, http.StatusUnauthorized, "требуется заголовок X-Business-ID")
			return
		}

		businessID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || businessID <= 0 {
			handlers.RespondError(w, http.StatusUnauthorized, "некорректный заголовок X-Business-ID")
			return
		}

		ctx := context.WithValue(r.Context(), businessIDKey, businessID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BusinessIDFromContext возвращает ID бизнеса, положенный Auth middleware.
// ok == false означает, что запрос пришел мимо Auth
func BusinessIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(businessIDKey).(int64)
	return id, ok
}
