package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/mykafka"
	"github.com/Skotchmaster/storefront/internal/session"
)

const sessionTTL = 14 * 24 * time.Hour

// AuthHandler exchanges credentials for an upstream bearer token, stores it
// durably and hands the browser a signed session cookie. The raw token is
// never exposed to the browser.
type AuthHandler struct {
	*Auth
	LoginPath string
	Producer  *mykafka.Producer
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	var resp struct {
		Key   string `json:"key"`
		Token string `json:"token"`
	}
	if err := h.API.Post(ctx, h.LoginPath, map[string]string{
		"username": req.Username,
		"password": req.Password,
	}, &resp); err != nil {
		l.Warn("login_failed", "error", err)
		return upstreamError(c, err)
	}

	token := resp.Key
	if token == "" {
		token = resp.Token
	}
	if token == "" {
		l.Error("login_failed", "reason", "upstream returned no token")
		return echo.NewHTTPError(http.StatusBadGateway, "upstream returned no token")
	}

	sess, err := h.Sessions.Create(ctx, token)
	if err != nil {
		l.Error("login_failed", "reason", "session_store", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	h.Store.SetToken(token)

	value, err := session.MintCookie(sess.ID, h.Secret, sessionTTL)
	if err != nil {
		l.Error("login_failed", "reason", "cookie_mint", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(sessionTTL),
	})

	h.publish(ctx, map[string]any{"type": "logged_in", "username": req.Username})

	l.Info("login_success")
	return c.JSON(http.StatusOK, echo.Map{"logged_in": true})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	if sess, err := h.currentSession(c); err == nil {
		if err := h.Sessions.Delete(ctx, sess.ID); err != nil {
			l.Warn("logout_session_delete_failed", "error", err)
		}
	}
	h.Store.ClearToken()

	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	h.publish(ctx, map[string]any{"type": "logged_out"})

	l.Info("logout_success")
	return c.JSON(http.StatusOK, echo.Map{"logged_in": false})
}

func (h *AuthHandler) publish(ctx context.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", "session", event); err != nil {
		logging.FromContext(ctx).Warn("kafka_publish_failed", "error", err)
	}
}
