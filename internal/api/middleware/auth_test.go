package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
)

func captureActor(got *domain.Actor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = GetActor(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
		wantAdmin  bool
	}{
		{"customer", map[string]string{HeaderUserID: "7", HeaderCustomerID: "11"}, http.StatusNoContent, false},
		{"admin", map[string]string{HeaderUserID: "1", HeaderUserRole: "admin"}, http.StatusNoContent, true},
		{"missing user", map[string]string{HeaderCustomerID: "11"}, http.StatusUnauthorized, false},
		{"bad id", map[string]string{HeaderUserID: "abc"}, http.StatusBadRequest, false},
		{"bad role", map[string]string{HeaderUserID: "7", HeaderUserRole: "root"}, http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var actor domain.Actor
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()

			Auth(captureActor(&actor)).ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantAdmin, actor.IsAdmin())
		})
	}
}

func TestOptionalAuth_AnonymousGuest(t *testing.T) {
	var actor domain.Actor
	rec := httptest.NewRecorder()

	OptionalAuth(captureActor(&actor)).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, actor.UserID)
	assert.False(t, actor.IsAdmin())
}

func TestRequireAdmin(t *testing.T) {
	var actor domain.Actor
	h := Auth(RequireAdmin(captureActor(&actor)))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(HeaderUserID, "7")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req.Header.Set(HeaderUserRole, "admin")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
