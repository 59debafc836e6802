package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 2*time.Second)
}

func TestClient_InitiateCheckout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/pagos/iniciar", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(15000), body["monto"])

		_, _ = w.Write([]byte(`{"url":"https://pay/x","token":"abc"}`))
	})

	resp, err := client.InitiateCheckout(context.Background(), "tok", 15000)
	require.NoError(t, err)
	assert.Equal(t, "https://pay/x", resp.URL)
	assert.Equal(t, "abc", resp.Token)
}

func TestClient_AccountStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/usuarios/estado", r.URL.Path)
		_, _ = w.Write([]byte(`{"verificacion":"verified","suscripcion":"expired"}`))
	})

	status, err := client.AccountStatus(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "verified", status.Verification)
	assert.Equal(t, "expired", status.Subscription)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUnauthorized)
			},
		},
		{
			name:   "denied with error reason",
			status: http.StatusForbidden,
			body:   `{"error":"Debe verificar su cuenta"}`,
			check: func(t *testing.T, err error) {
				var denied *DeniedError
				require.True(t, errors.As(err, &denied))
				assert.Equal(t, "Debe verificar su cuenta", denied.Message())
			},
		},
		{
			name:   "denied with message reason",
			status: http.StatusForbidden,
			body:   `{"message":"Cuenta rechazada"}`,
			check: func(t *testing.T, err error) {
				var denied *DeniedError
				require.True(t, errors.As(err, &denied))
				assert.Equal(t, "Cuenta rechazada", denied.Message())
			},
		},
		{
			name:   "denied without reason",
			status: http.StatusForbidden,
			body:   `not json`,
			check: func(t *testing.T, err error) {
				var denied *DeniedError
				require.True(t, errors.As(err, &denied))
				assert.Equal(t, DefaultDeniedMessage, denied.Message())
			},
		},
		{
			name:   "server error",
			status: http.StatusBadGateway,
			check: func(t *testing.T, err error) {
				var se *StatusError
				require.True(t, errors.As(err, &se))
				assert.Equal(t, http.StatusBadGateway, se.Code)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			err := client.SubmitVerification(context.Background(), "tok", VerificationRequest{Rut: "12.345.678-5"})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestClient_Login(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		var in LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		if in.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"a","refresh_token":"r","user_uid":"u1"}`))
	})

	pair, err := client.Login(context.Background(), "p@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "a", pair.AccessToken)
	assert.Equal(t, "u1", pair.UserUID)

	_, err = client.Login(context.Background(), "p@example.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClient_Refresh(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/refresh", r.URL.Path)
		_, _ = w.Write([]byte(`{"access_token":"a2","refresh_token":"r2"}`))
	})

	access, refresh, err := client.Refresh(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "a2", access)
	assert.Equal(t, "r2", refresh)
}

func TestClient_NetworkError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 200*time.Millisecond)

	_, err := client.InitiateCheckout(context.Background(), "tok", 100)
	assert.Error(t, err)
}
