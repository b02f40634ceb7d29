package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/murodbro/turfa-bazar-client/internal/storefront/service"
	"github.com/murodbro/turfa-bazar-client/internal/storefront/store/drivers/sqlite"
	"github.com/murodbro/turfa-bazar-client/pkg/commercesdk"
)

// fakeBackend fakes the commerce API end to end: login, checkout, orders
// and cart.
type fakeBackend struct {
	t *testing.T

	cancelCalls atomic.Int64
	resetSteps  atomic.Int64 // sum of password-reset step numbers seen
}

func (b *fakeBackend) token(ttl time.Duration) string {
	b.t.Helper()

	claims := jwt.MapClaims{
		"user_id": "u-1",
		"email":   "shopper@example.com",
		"exp":     time.Now().Add(ttl).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(b.t, err)
	return raw
}

func (b *fakeBackend) server() *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/user/login/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		json.NewEncoder(w).Encode(commercesdk.TokenPair{
			AccessToken:  b.token(time.Hour),
			RefreshToken: "refresh-1",
		})
	})

	mux.HandleFunc("/checkout/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"orderId": "ord-1"})
	})

	mux.HandleFunc("/checkout/confirm_smtp/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"message": "/order_detail/ord-1/"})
	})

	mux.HandleFunc("/checkout/cancel_order/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		b.cancelCalls.Add(1)
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/checkout/history/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		json.NewEncoder(w).Encode([]commercesdk.Order{{ID: "ord-1"}})
	})

	mux.HandleFunc("/user/profile/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(commercesdk.Profile{
				FirstName: "Murod",
				Email:     "shopper@example.com",
			})
		case http.MethodPut:
			w.WriteHeader(http.StatusOK)
		}
	})

	mux.HandleFunc("/user/forgot_password/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var body struct {
			Step int `json:"step"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		b.resetSteps.Add(int64(body.Step))
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/cart/u-1/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		json.NewEncoder(w).Encode([]commercesdk.CartItem{
			{ID: "item-1", Quantity: 2},
		})
	})

	srv := httptest.NewServer(mux)
	b.t.Cleanup(srv.Close)
	return srv
}

func newGateway(t *testing.T, backendURL string) *Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sdk := commercesdk.New(backendURL)

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	auth := service.NewAuthService(sdk, st, logger, time.Hour, 0)
	t.Cleanup(auth.Stop)

	notifier := service.NewLogNotifier(logger)
	checkout := service.NewCheckoutService(sdk, auth, st, logger, notifier,
		service.CheckoutConfig{})
	t.Cleanup(checkout.Close)

	orders := service.NewOrdersService(sdk, auth, logger)

	return NewServer(sdk, auth, checkout, orders, notifier, logger, "test")
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, srv *Server) {
	t.Helper()

	rec := doJSON(t, srv, http.MethodPost, "/api/login", map[string]string{
		"email":    "shopper@example.com",
		"password": "hunter2",
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func validCheckoutBody() map[string]any {
	return map[string]any{
		"email":             "shopper@example.com",
		"phone":             "+998901234567",
		"city":              "Chilonzor",
		"state":             "Tashkent",
		"address":           "12 Bunyodkor Ave",
		"buy_cash":          true,
		"recive_by_deliver": true,
	}
}

func TestGatewayLivez(t *testing.T) {
	backend := &fakeBackend{t: t}
	srv := newGateway(t, backend.server().URL)

	rec := doJSON(t, srv, http.MethodGet, "/livez", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var health healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "test", health.Version)
}

func TestGatewayLoginAndSession(t *testing.T) {
	backend := &fakeBackend{t: t}
	srv := newGateway(t, backend.server().URL)

	rec := doJSON(t, srv, http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var sess sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	require.False(t, sess.IsAuthenticated)

	login(t, srv)

	rec = doJSON(t, srv, http.MethodGet, "/api/session", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	require.True(t, sess.IsAuthenticated)
	require.Equal(t, "u-1", sess.UserID)

	rec = doJSON(t, srv, http.MethodPost, "/api/logout", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/session", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	require.False(t, sess.IsAuthenticated)
}

func TestGatewayCheckoutFlow(t *testing.T) {
	backend := &fakeBackend{t: t}
	srv := newGateway(t, backend.server().URL)
	login(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/checkout", validCheckoutBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	var status checkoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.Equal(t, "awaiting_code", status.State)
	require.Equal(t, "ord-1", status.OrderID)
	require.Positive(t, status.RemainingSeconds)

	rec = doJSON(t, srv, http.MethodPost, "/api/checkout/confirm",
		map[string]string{"code": "123456"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.Equal(t, "confirmed", status.State)
	require.Equal(t, "/order_detail/ord-1/", status.Redirect)
}

func TestGatewayCheckoutValidation(t *testing.T) {
	backend := &fakeBackend{t: t}
	srv := newGateway(t, backend.server().URL)
	login(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/checkout", map[string]any{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Contains(t, body.Fields, "email")
	require.Contains(t, body.Fields, "buy_cash")
}

func TestGatewayCheckoutRequiresLogin(t *testing.T) {
	backend := &fakeBackend{t: t}
	srv := newGateway(t, backend.server().URL)

	rec := doJSON(t, srv, http.MethodPost, "/api/checkout", validCheckoutBody())
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGatewayConfirmWithoutCheckout(t *testing.T) {
	backend := &fakeBackend{t: t}
	srv := newGateway(t, backend.server().URL)
	login(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/checkout/confirm",
		map[string]string{"code": "123456"})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestGatewayCancelCheckout(t *testing.T) {
	backend := &fakeBackend{t: t}
	srv := newGateway(t, backend.server().URL)
	login(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/checkout", validCheckoutBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/checkout/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var status checkoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.Equal(t, "cancelled", status.State)
	require.EqualValues(t, 1, backend.cancelCalls.Load())
}

func TestGatewayOrdersAndCart(t *testing.T) {
	backend := &fakeBackend{t: t}
	srv := newGateway(t, backend.server().URL)
	login(t, srv)

	rec := doJSON(t, srv, http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []commercesdk.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)

	rec = doJSON(t, srv, http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cart cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	require.Len(t, cart.Items, 1)
	require.Equal(t, 2, cart.TotalQuantity)
}

func TestGatewayProfile(t *testing.T) {
	backend := &fakeBackend{t: t}
	srv := newGateway(t, backend.server().URL)

	rec := doJSON(t, srv, http.MethodGet, "/api/profile", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	login(t, srv)

	rec = doJSON(t, srv, http.MethodGet, "/api/profile", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile commercesdk.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	require.Equal(t, "Murod", profile.FirstName)

	profile.FirstName = "Bekzod"
	rec = doJSON(t, srv, http.MethodPut, "/api/profile", profile)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGatewayPasswordReset(t *testing.T) {
	backend := &fakeBackend{t: t}
	srv := newGateway(t, backend.server().URL)

	rec := doJSON(t, srv, http.MethodPost, "/api/password/forgot",
		map[string]string{"email": "shopper@example.com"})
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/password/verify",
		map[string]string{"email": "shopper@example.com", "code": "424242"})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/password/reset",
		map[string]string{"email": "shopper@example.com", "password": "new-password"})
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Steps 1, 2 and 3 each hit the backend once.
	require.EqualValues(t, 6, backend.resetSteps.Load())

	rec = doJSON(t, srv, http.MethodPost, "/api/password/verify",
		map[string]string{"email": "shopper@example.com"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGatewayBackendUnreachable(t *testing.T) {
	backend := &fakeBackend{t: t}
	backendSrv := backend.server()
	srv := newGateway(t, backendSrv.URL)
	login(t, srv)

	backendSrv.Close()

	rec := doJSON(t, srv, http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
}
