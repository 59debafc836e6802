package logout

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/therapy-booking-front/internal/http/middlewarectx"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/sl"
)

type MockSessions struct {
	mock.Mock
}

func (m *MockSessions) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestLogoutHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		sessionID  string
		setupMocks func(*MockSessions)
	}{
		{
			name:      "deletes session",
			sessionID: "s1",
			setupMocks: func(m *MockSessions) {
				m.On("Delete", mock.Anything, "s1").Return(nil).Once()
			},
		},
		{
			name:      "store failure still clears cookie",
			sessionID: "s1",
			setupMocks: func(m *MockSessions) {
				m.On("Delete", mock.Anything, "s1").Return(errors.New("redis down")).Once()
			},
		},
		{
			name:       "no session",
			setupMocks: func(*MockSessions) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := new(MockSessions)
			tt.setupMocks(sessions)
			handler := New(sl.Discard(), sessions, middlewarectx.CookieConfig{Name: "sid"})

			req := httptest.NewRequest(http.MethodPost, "/logout", nil)
			if tt.sessionID != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.SessionID, tt.sessionID))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/login", rec.Header().Get("Location"))
			cookies := rec.Result().Cookies()
			if assert.Len(t, cookies, 1) {
				assert.Equal(t, -1, cookies[0].MaxAge)
			}
			sessions.AssertExpectations(t)
		})
	}
}
