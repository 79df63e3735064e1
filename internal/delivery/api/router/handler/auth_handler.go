package handler

import (
	"net/http"

	"majicmall/config"
	"majicmall/internal/delivery/api/response"
	deliverycontext "majicmall/internal/delivery/context"
	"majicmall/internal/errors"
	"majicmall/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AuthHandler handles signup and login.
type AuthHandler struct {
	uc         usecase.AuthUsecase
	cookieName string
	secure     bool
}

func NewAuthHandler(uc usecase.AuthUsecase, cfg *config.Config) *AuthHandler {
	h := &AuthHandler{uc: uc}
	if cfg.Auth != nil {
		h.cookieName = cfg.Auth.CookieName
	}
	if cfg.Session != nil {
		h.secure = cfg.Session.Secure
	}

	return h
}

type authResponse struct {
	User        *userView  `json:"user"`
	Store       *storeView `json:"store,omitempty"`
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresIn   int64      `json:"expires_in"`
}

// Signup registers an account with its merchant profile and default store.
func (h *AuthHandler) Signup(c echo.Context) error {
	var input usecase.SignupInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid signup input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Signup(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	if sess := deliverycontext.GetSession(c); sess != nil && output.Store != nil {
		sess.SetActiveStoreID(output.Store.ID)
	}

	return h.respond(c, http.StatusCreated, output, "Account created")
}

// Login accepts a username or an email.
func (h *AuthHandler) Login(c echo.Context) error {
	var input usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid login input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Login(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return h.respond(c, http.StatusOK, output, "Login successful")
}

func (h *AuthHandler) respond(c echo.Context, status int, output *usecase.AuthOutput, message string) error {
	if h.cookieName != "" {
		c.SetCookie(&http.Cookie{
			Name:     h.cookieName,
			Value:    output.AccessToken,
			Path:     "/",
			MaxAge:   int(output.ExpiresIn.Seconds()),
			HttpOnly: true,
			Secure:   h.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}

	return response.SuccessWithMessage(c, status, authResponse{
		User:        newUserView(output.User),
		Store:       newStoreView(output.Store),
		AccessToken: output.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(output.ExpiresIn.Seconds()),
	}, message)
}
