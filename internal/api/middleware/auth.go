package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
)

// Заголовки с уже проверенной личностью от шлюза
const (
	HeaderUserID     = "X-User-ID"
	HeaderCustomerID = "X-Customer-ID"
	HeaderUserRole   = "X-User-Role"
)

type contextKey string

const actorKey contextKey = "actor"

// Auth требует X-User-ID; X-Customer-ID и X-User-Role необязательны
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromHeaders(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if actor.UserID == nil {
			respondError(w, http.StatusUnauthorized, "отсутствует заголовок X-User-ID")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// OptionalAuth как Auth, но пропускает анонимные запросы
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromHeaders(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// RequireAdmin ставится после Auth
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetActor(r.Context()).IsAdmin() {
			respondError(w, http.StatusForbidden, "доступно только администраторам")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithActor кладет вызывающего в контекст
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActor вызывающий из контекста; без middleware это анонимный гость
func GetActor(ctx context.Context) domain.Actor {
	actor, _ := ctx.Value(actorKey).(domain.Actor)
	return actor
}

// GetUserID ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	actor := GetActor(ctx)
	if actor.UserID == nil {
		return 0, false
	}
	return *actor.UserID, true
}

func actorFromHeaders(r *http.Request) (domain.Actor, error) {
	var actor domain.Actor

	userID, err := parseIDHeader(r, HeaderUserID)
	if err != nil {
		return actor, err
	}
	customerID, err := parseIDHeader(r, HeaderCustomerID)
	if err != nil {
		return actor, err
	}

	actor.UserID = userID
	actor.CustomerID = customerID

	switch role := domain.Role(r.Header.Get(HeaderUserRole)); role {
	case domain.RoleAdmin:
		actor.Role = domain.RoleAdmin
	case domain.RoleCustomer, "":
		actor.Role = domain.RoleCustomer
	default:
		return actor, &headerError{header: HeaderUserRole}
	}

	return actor, nil
}

func parseIDHeader(r *http.Request, name string) (*int64, error) {
	raw := r.Header.Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, &headerError{header: name}
	}
	return &id, nil
}

type headerError struct {
	header string
}

func (e *headerError) Error() string {
	return "некорректный заголовок " + e.header
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
