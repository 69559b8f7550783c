package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"lab-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIdentity_RejectsMissingHeaders(t *testing.T) {
	handler := Identity(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestIdentity_RejectsMalformedUserID(t *testing.T) {
	handler := Identity(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.Header.Set(HeaderUserID, "not-a-uuid")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestIdentity_SetsUserContext(t *testing.T) {
	userID := uuid.New()

	handler := Identity(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, ok := utils.GetUserIDFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, userID, gotID)

		role, ok := utils.GetRoleFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, "ADMIN", role)

		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.Header.Set(HeaderUserID, userID.String())
	req.Header.Set(HeaderUserRole, "ADMIN")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIdentity_DefaultsRoleToCustomer(t *testing.T) {
	handler := Identity(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, _ := utils.GetRoleFromContext(r.Context())
		assert.Equal(t, "CUSTOMER", role)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.Header.Set(HeaderUserID, uuid.New().String())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	protect := func(role string) int {
		chain := Identity(zap.NewNop())(RequireRole(zap.NewNop(), "ADMIN", "LAB")(next))

		req := httptest.NewRequest(http.MethodGet, "/api/admin/bookings", nil)
		req.Header.Set(HeaderUserID, uuid.New().String())
		if role != "" {
			req.Header.Set(HeaderUserRole, role)
		}
		rec := httptest.NewRecorder()
		chain.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, protect("ADMIN"))
	assert.Equal(t, http.StatusOK, protect("LAB"))
	assert.Equal(t, http.StatusForbidden, protect("CUSTOMER"))
	assert.Equal(t, http.StatusForbidden, protect(""))
}
