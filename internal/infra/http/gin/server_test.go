package ginserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booknblock/internal/app/auth"
	"booknblock/internal/app/availability"
	"booknblock/internal/app/blocks"
	"booknblock/internal/app/bookings"
	"booknblock/internal/app/properties"
	"booknblock/internal/infra/config"
	"booknblock/internal/infra/lock"
	"booknblock/internal/infra/obs"
	"booknblock/internal/infra/security"
	"booknblock/internal/infra/storage/memory"
)

type testStack struct {
	server *http.Server
	auth   *auth.Service
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	users := memory.NewUserRepository()
	props := memory.NewPropertyRepository()
	blockRepo := memory.NewBlockRepository()
	bookingRepo := memory.NewBookingRepository()

	authService := &auth.Service{
		Users:     users,
		Passwords: security.BcryptHasher{Cost: 4},
		Tokens:    security.JWTIssuer{Secret: []byte("test-secret"), TTL: time.Hour},
	}
	validator := availability.Validator{Blocks: blockRepo, Bookings: bookingRepo}
	locker := lock.NewMemoryLocker()
	clock := func() time.Time { return time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC) }

	blockService := &blocks.Service{
		Properties: props,
		Blocks:     blockRepo,
		Validator:  validator,
		Locker:     locker,
		Clock:      clock,
	}
	bookingService := &bookings.Service{
		Users:      users,
		Properties: props,
		Bookings:   bookingRepo,
		Validator:  validator,
		Locker:     locker,
		Clock:      clock,
	}
	propertyService := &properties.Service{Properties: props, Users: users}

	server := NewServer(config.Config{Env: "test", HTTPAddr: ":0"}, obs.Middleware{}, obs.HealthHandlers{}, Handlers{
		Auth:           AuthHandler{Service: authService},
		Property:       PropertyHandler{Service: propertyService},
		Block:          BlockHandler{Service: blockService},
		Booking:        BookingHandler{Service: bookingService},
		AuthMiddleware: AuthMiddleware{Service: authService}.Handle,
	})
	return &testStack{server: server, auth: authService}
}

func (s *testStack) register(t *testing.T, email string) string {
	t.Helper()
	result, err := s.auth.Register(context.Background(), auth.RegisterParams{
		Email:    email,
		Name:     "Test User",
		Password: "pass1234!",
	})
	require.NoError(t, err)
	return result.Token
}

func (s *testStack) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewBuffer(raw)
	} else {
		payload = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (s *testStack) createProperty(t *testing.T, token string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/properties", token, map[string]any{
		"name":     "Beach House",
		"location": "Florianopolis",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeJSON(t, rec)["id"].(string)
}

func TestAuthEndpoints(t *testing.T) {
	stack := newTestStack(t)

	rec := stack.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":    "ada@example.com",
		"name":     "Ada",
		"password": "pass1234!",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeJSON(t, rec)
	assert.NotEmpty(t, body["token"])

	rec = stack.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "ada@example.com",
		"password": "pass1234!",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token := decodeJSON(t, rec)["token"].(string)

	rec = stack.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ada@example.com", decodeJSON(t, rec)["email"])

	rec = stack.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "ada@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBookingRequiresAuthentication(t *testing.T) {
	stack := newTestStack(t)
	rec := stack.do(t, http.MethodPost, "/api/v1/bookings", "", map[string]any{
		"property_id": "whatever",
		"start_date":  "2030-06-01",
		"end_date":    "2030-06-05",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBookingLifecycleOverHTTP(t *testing.T) {
	stack := newTestStack(t)
	ownerToken := stack.register(t, "owner@example.com")
	guestToken := stack.register(t, "guest@example.com")
	propID := stack.createProperty(t, ownerToken)

	createBody := map[string]any{
		"property_id": propID,
		"start_date":  "2030-06-01",
		"end_date":    "2030-06-05",
		"guests": []map[string]string{
			{"name": "Grace", "email": "grace@example.com"},
		},
	}

	rec := stack.do(t, http.MethodPost, "/api/v1/bookings", guestToken, createBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	booking := decodeJSON(t, rec)
	bookingID := booking["id"].(string)
	assert.Equal(t, "CONFIRMED", booking["status"])

	// The same window is now taken.
	rec = stack.do(t, http.MethodPost, "/api/v1/bookings", ownerToken, createBody)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Lookups need no authentication.
	rec = stack.do(t, http.MethodGet, "/api/v1/bookings/"+bookingID, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = stack.do(t, http.MethodGet, "/api/v1/bookings/no-such-id", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Only the booking owner may cancel.
	rec = stack.do(t, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%s/cancel", bookingID), ownerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = stack.do(t, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%s/cancel", bookingID), guestToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "CANCELED", decodeJSON(t, rec)["status"])

	rec = stack.do(t, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%s/cancel", bookingID), guestToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = stack.do(t, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%s/rebook", bookingID), guestToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "CONFIRMED", decodeJSON(t, rec)["status"])

	rec = stack.do(t, http.MethodDelete, "/api/v1/bookings/"+bookingID, guestToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestBlockEndpoints(t *testing.T) {
	stack := newTestStack(t)
	ownerToken := stack.register(t, "owner@example.com")
	strangerToken := stack.register(t, "stranger@example.com")
	propID := stack.createProperty(t, ownerToken)

	blockBody := map[string]any{
		"property_id": propID,
		"start_date":  "2030-07-01",
		"end_date":    "2030-07-10",
		"reason":      "maintenance",
	}

	rec := stack.do(t, http.MethodPost, "/api/v1/blocks", strangerToken, blockBody)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = stack.do(t, http.MethodPost, "/api/v1/blocks", ownerToken, blockBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	blockID := decodeJSON(t, rec)["id"].(string)

	// A booking inside the blocked window is rejected.
	rec = stack.do(t, http.MethodPost, "/api/v1/bookings", strangerToken, map[string]any{
		"property_id": propID,
		"start_date":  "2030-07-05",
		"end_date":    "2030-07-06",
		"guests": []map[string]string{
			{"name": "Grace", "email": "grace@example.com"},
		},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = stack.do(t, http.MethodPut, "/api/v1/blocks/"+blockID, ownerToken, map[string]any{
		"start_date": "2030-07-02",
		"end_date":   "2030-07-12",
		"reason":     "maintenance extended",
	})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = stack.do(t, http.MethodDelete, "/api/v1/blocks/"+blockID, ownerToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = stack.do(t, http.MethodDelete, "/api/v1/blocks/"+blockID, ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvalidDatePayload(t *testing.T) {
	stack := newTestStack(t)
	token := stack.register(t, "owner@example.com")
	propID := stack.createProperty(t, token)

	rec := stack.do(t, http.MethodPost, "/api/v1/bookings", token, map[string]any{
		"property_id": propID,
		"start_date":  "06/01/2030",
		"end_date":    "2030-06-05",
		"guests": []map[string]string{
			{"name": "Grace", "email": "grace@example.com"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	stack := newTestStack(t)

	rec := stack.do(t, http.MethodGet, "/livez", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = stack.do(t, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
