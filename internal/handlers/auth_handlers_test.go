package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/session"
)

const testLoginPath = "/rest-auth/login/"

func loginUpstream(t *testing.T, key string, status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api"+testLoginPath, r.URL.Path)

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if status != http.StatusOK {
			http.Error(w, `{"non_field_errors":["Unable to log in with provided credentials."]}`, status)
			return
		}
		require.Equal(t, "alice", creds["username"])
		w.Write([]byte(`{"key":"` + key + `"}`))
	})
}

func TestLoginStoresTokenAndSetsCookie(t *testing.T) {
	env := newTestEnv(t, loginUpstream(t, "upstream-tok", http.StatusOK))
	h := &AuthHandler{Auth: env.Auth, LoginPath: testLoginPath}

	rec, c := env.doJSON(t, http.MethodPost, "/api/v1/login", map[string]string{
		"username": "alice", "password": "secret",
	})
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, "upstream-tok", env.Store.Token())
	require.True(t, env.Store.LoggedIn())

	var cookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.CookieName {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)
	require.True(t, cookie.HttpOnly)

	sid, err := session.ParseCookie(cookie.Value, testSecret)
	require.NoError(t, err)
	sess, err := env.Sessions.Get(c.Request().Context(), sid)
	require.NoError(t, err)
	require.Equal(t, "upstream-tok", sess.Token)
}

func TestLoginRelaysUpstreamRejection(t *testing.T) {
	env := newTestEnv(t, loginUpstream(t, "", http.StatusBadRequest))
	h := &AuthHandler{Auth: env.Auth, LoginPath: testLoginPath}

	rec, c := env.doJSON(t, http.MethodPost, "/api/v1/login", map[string]string{
		"username": "alice", "password": "wrong",
	})
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Unable to log in")
	require.False(t, env.Store.LoggedIn())
}

func TestLoginRequiresCredentials(t *testing.T) {
	env := newTestEnv(t, loginUpstream(t, "", http.StatusOK))
	h := &AuthHandler{Auth: env.Auth, LoginPath: testLoginPath}

	_, c := env.doJSON(t, http.MethodPost, "/api/v1/login", map[string]string{"username": "alice"})
	err := h.Login(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestLogoutClearsSessionAndToken(t *testing.T) {
	env := newTestEnv(t, http.NotFoundHandler())
	h := &AuthHandler{Auth: env.Auth, LoginPath: testLoginPath}
	ck := env.login(t, "tok")

	rec, c := env.doJSON(t, http.MethodPost, "/api/v1/logout", nil, ck)
	require.NoError(t, h.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	require.False(t, env.Store.LoggedIn())

	sid, err := session.ParseCookie(ck.Value, testSecret)
	require.NoError(t, err)
	_, err = env.Sessions.Get(c.Request().Context(), sid)
	require.ErrorIs(t, err, session.ErrNotFound)

	var expired *http.Cookie
	for _, set := range rec.Result().Cookies() {
		if set.Name == session.CookieName {
			expired = set
		}
	}
	require.NotNil(t, expired)
	require.Equal(t, -1, expired.MaxAge)
}

func TestLogoutWithoutSessionStillSucceeds(t *testing.T) {
	env := newTestEnv(t, http.NotFoundHandler())
	h := &AuthHandler{Auth: env.Auth, LoginPath: testLoginPath}

	rec, c := env.doJSON(t, http.MethodPost, "/api/v1/logout", nil)
	require.NoError(t, h.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)
}
