package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/store"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
)

// Auth is the shared session plumbing of the protected handlers: cookie ->
// session row -> authenticated upstream client.
type Auth struct {
	Sessions *session.Store
	Secret   []byte
	Store    *store.Store
	API      *apiclient.Client
}

func (a *Auth) currentSession(c echo.Context) (*session.Session, error) {
	cookie, err := c.Cookie(session.CookieName)
	if err != nil || cookie.Value == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session cookie")
	}
	sid, err := session.ParseCookie(cookie.Value, a.Secret)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid session cookie")
	}
	sess, err := a.Sessions.Get(c.Request().Context(), sid)
	if errors.Is(err, session.ErrNotFound) {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "session expired")
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return sess, nil
}

// authedClient derives the upstream client for this request's session. The
// token is fixed at derivation time; a later login needs a fresh request.
func (a *Auth) authedClient(c echo.Context) (*apiclient.Client, error) {
	sess, err := a.currentSession(c)
	if err != nil {
		return nil, err
	}
	return a.API.WithToken(sess.Token), nil
}

// upstreamError maps API client failures onto the BFF surface. Auth failures
// become a 401 so the client redirects to login; everything else is surfaced
// verbatim with the upstream's status and body.
func upstreamError(c echo.Context, err error) error {
	if apiclient.IsAuth(err) {
		return echo.NewHTTPError(http.StatusUnauthorized, "session rejected by upstream")
	}
	var se *apiclient.StatusError
	if errors.As(err, &se) {
		return c.JSONBlob(se.Status, errorBody(se.Body))
	}
	var te *apiclient.TransportError
	if errors.As(err, &te) {
		return echo.NewHTTPError(http.StatusBadGateway, te.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func errorBody(raw []byte) []byte {
	if len(raw) > 0 && raw[0] == '{' {
		return raw
	}
	body, _ := json.Marshal(map[string]string{"detail": string(raw)})
	return body
}
