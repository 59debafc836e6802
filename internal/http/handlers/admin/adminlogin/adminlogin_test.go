package adminlogin

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/therapy-booking-front/internal/http/middlewarectx"
	"github.com/magabrotheeeer/therapy-booking-front/internal/http/views"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/jwt"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/password"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/sl"
)

func postPassword(h http.Handler, pw string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(url.Values{"password": {pw}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAdminLogin(t *testing.T) {
	hash, err := password.GetHash("shared-secret")
	require.NoError(t, err)
	maker := jwt.NewJWTMaker("jwt-secret", time.Hour)
	handler := New(sl.Discard(), maker, views.MustNew(), hash, middlewarectx.CookieConfig{TTL: time.Hour})

	t.Run("correct password issues admin token", func(t *testing.T) {
		rec := postPassword(handler, "shared-secret")

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin/", rec.Header().Get("Location"))
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, middlewarectx.AdminCookie, cookies[0].Name)

		claims, err := maker.ParseToken(cookies[0].Value)
		require.NoError(t, err)
		assert.True(t, claims.Admin)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := postPassword(handler, "guess")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, rec.Result().Cookies())
		assert.Contains(t, rec.Body.String(), `data-screen="admin_login"`)
	})

	t.Run("no password configured", func(t *testing.T) {
		h := New(sl.Discard(), maker, views.MustNew(), "", middlewarectx.CookieConfig{})
		rec := postPassword(h, "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("logout clears cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.Logout(rec, httptest.NewRequest(http.MethodPost, "/admin/logout", nil))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, -1, cookies[0].MaxAge)
	})
}
