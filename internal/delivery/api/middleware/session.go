package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"majicmall/config"
	deliverycontext "majicmall/internal/delivery/context"
	"majicmall/internal/domain/lifecycle"
	"majicmall/internal/infra/session"

	"github.com/labstack/echo/v4"
)

// SessionMiddleware loads the server-side session named by the session cookie
// and writes it back when a handler changed it.
type SessionMiddleware struct {
	store  session.Store
	cfg    *config.SessionConfig
	logger *slog.Logger
}

func NewSessionMiddleware(store session.Store, cfg *config.Config, logger *slog.Logger) *SessionMiddleware {
	return &SessionMiddleware{store: store, cfg: cfg.Session, logger: logger}
}

// Handle attaches the session to the echo context.
func (m *SessionMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		sess := m.load(ctx, c)
		deliverycontext.SetSession(c, sess)

		// Saved before the status line goes out so the cookie can still be set.
		c.Response().Before(func() {
			if !sess.Changed() {
				return
			}
			m.save(c, sess)
		})

		return next(c)
	}
}

func (m *SessionMiddleware) load(ctx context.Context, c echo.Context) *session.Session {
	cookie, err := c.Cookie(m.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return session.New()
	}

	data, err := m.store.Load(ctx, cookie.Value)
	if err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, m.logger).Warn("Failed to load session, starting a new one",
			slog.Any("error", err),
		)

		return session.New()
	}

	return session.FromData(cookie.Value, data)
}

func (m *SessionMiddleware) save(c echo.Context, sess *session.Session) {
	// The request context may already be canceled when the response is flushed.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), lifecycle.DefaultTimeout)
	defer cancel()

	if err := m.store.Save(ctx, sess.ID(), sess.Data(), m.cfg.TTL); err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, m.logger).Error("Failed to save session",
			slog.String("session_id", sess.ID()),
			slog.Any("error", err),
		)

		return
	}

	c.SetCookie(&http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    sess.ID(),
		Path:     "/",
		MaxAge:   int(m.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
