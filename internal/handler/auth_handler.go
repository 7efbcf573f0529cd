package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"

	"mailbrief/internal/config"
	"mailbrief/internal/model"
	"mailbrief/internal/service"
)

const (
	sessionName    = "gothic_session"
	sessionUserKey = "user_id"

	// ContextUserKey is where AuthMiddleware stores the signed-in user.
	ContextUserKey = "user"
)

var ErrNotAuthenticated = errors.New("user not authenticated")

// CurrentUserProvider resolves the signed-in user of a request.
type CurrentUserProvider interface {
	GetCurrentUser(c echo.Context) (*model.User, error)
}

type AuthHandler struct {
	authService service.AuthService
	config      *config.Config
	logger      echo.Logger
}

func NewAuthHandler(authService service.AuthService, config *config.Config, logger echo.Logger) *AuthHandler {
	gothic.Store = NewSessionStore([]byte(config.SessionSecret), config.Env == "production")

	goth.UseProviders(
		google.New(
			config.GoogleClientID,
			config.GoogleClientSecret,
			config.BaseURL+"/auth/google/callback",
			"https://www.googleapis.com/auth/gmail.readonly",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		),
	)

	return &AuthHandler{
		authService: authService,
		config:      config,
		logger:      logger,
	}
}

// BeginAuthHandler initiates the OAuth flow
func (h *AuthHandler) BeginAuthHandler(c echo.Context) error {
	provider := c.Param("provider")
	if provider != "google" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid provider",
		})
	}

	gothic.BeginAuthHandler(c.Response(), withProvider(c.Request()))
	return nil
}

// CallbackHandler handles the OAuth callback
func (h *AuthHandler) CallbackHandler(c echo.Context) error {
	req := withProvider(c.Request())

	googleUser, err := gothic.CompleteUserAuth(c.Response(), req)
	if err != nil {
		h.logger.Error("Failed to complete user auth:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Authentication failed",
		})
	}

	user, err := h.authService.GetOrCreateUser(
		req.Context(),
		googleUser.Provider+"_"+googleUser.UserID,
		googleUser.Email,
		googleUser.Name,
		googleUser.AccessToken,
		googleUser.RefreshToken,
		googleUser.ExpiresAt,
	)
	if err != nil {
		h.logger.Error("Failed to get or create user:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to process user",
		})
	}

	session, _ := gothic.Store.Get(req, sessionName)
	session.Values[sessionUserKey] = user.ID
	if err := session.Save(req, c.Response()); err != nil {
		h.logger.Error("Failed to save session:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to save session",
		})
	}

	return c.Redirect(http.StatusTemporaryRedirect, "/api/digest")
}

// LogoutHandler logs out the user
func (h *AuthHandler) LogoutHandler(c echo.Context) error {
	req := withProvider(c.Request())

	if session, err := gothic.Store.Get(req, sessionName); err == nil {
		delete(session.Values, sessionUserKey)
		session.Options.MaxAge = -1
		_ = session.Save(req, c.Response())
	}
	_ = gothic.Logout(c.Response(), req)

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Logged out",
	})
}

// GetCurrentUser returns the current authenticated user. A user already
// resolved by AuthMiddleware is reused.
func (h *AuthHandler) GetCurrentUser(c echo.Context) (*model.User, error) {
	if user, ok := c.Get(ContextUserKey).(*model.User); ok && user != nil {
		return user, nil
	}

	session, err := gothic.Store.Get(c.Request(), sessionName)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	userID, ok := session.Values[sessionUserKey].(string)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	user, err := h.authService.GetUser(c.Request().Context(), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user from database: %w", err)
	}

	return user, nil
}

// withProvider sets the provider query parameter goth reads.
func withProvider(req *http.Request) *http.Request {
	q := req.URL.Query()
	q.Set("provider", "google")
	req.URL.RawQuery = q.Encode()
	return req
}
