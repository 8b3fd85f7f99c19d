package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/store"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
)

var testSecret = []byte("handlers-test-secret")

type testEnv struct {
	E        *echo.Echo
	Auth     *Auth
	Sessions *session.Store
	Store    *store.Store
}

func newTestEnv(t *testing.T, upstream http.Handler) *testEnv {
	t.Helper()

	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sessions, err := session.NewStore(db)
	require.NoError(t, err)

	globalStore := store.New()
	return &testEnv{
		E:        echo.New(),
		Sessions: sessions,
		Store:    globalStore,
		Auth: &Auth{
			Sessions: sessions,
			Secret:   testSecret,
			Store:    globalStore,
			API:      apiclient.New(srv.URL),
		},
	}
}

func (env *testEnv) login(t *testing.T, token string) *http.Cookie {
	t.Helper()
	sess, err := env.Sessions.Create(t.Context(), token)
	require.NoError(t, err)
	env.Store.SetToken(token)

	value, err := session.MintCookie(sess.ID, testSecret, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: session.CookieName, Value: value, Path: "/"}
}

func (env *testEnv) doJSON(t *testing.T, method, target string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return rec, env.E.NewContext(req, rec)
}
