package rut

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/sl"
)

func TestRutHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "valid rut",
			body:       `{"rut":"123456785"}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"OK","data":{"formatted":"12.345.678-5","valid":true}}`,
		},
		{
			name:       "flipped check digit",
			body:       `{"rut":"12.345.678-4"}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"OK","data":{"formatted":"12.345.678-4","valid":false}}`,
		},
		{
			name:       "partial input is still formatted",
			body:       `{"rut":"1234"}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"OK","data":{"formatted":"123-4","valid":false}}`,
		},
		{
			name:       "short edge case",
			body:       `{"rut":"7-7"}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"OK","data":{"formatted":"7-7","valid":false}}`,
		},
		{
			name:       "invalid json",
			body:       `not json`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:       "too long",
			body:       `{"rut":"` + strings.Repeat("1", 40) + `"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `{"status":"Error","error":"field Rut is too long"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/rut", strings.NewReader(tt.body))

			New(sl.Discard()).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
