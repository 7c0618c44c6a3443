package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trenatra/auth-api/internal/api/metrics"
	"github.com/trenatra/auth-api/internal/core/domain"
	"github.com/trenatra/auth-api/internal/core/ports"
)

type AuthHandler struct {
	credentials ports.CredentialService
	sessions    ports.SessionService
}

func NewAuthHandler(credentials ports.CredentialService, sessions ports.SessionService) *AuthHandler {
	return &AuthHandler{credentials: credentials, sessions: sessions}
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type sessionResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

type loginResponse struct {
	ID      int64           `json:"id"`
	Email   string          `json:"email"`
	Session sessionResponse `json:"session"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.credentials.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch err {
		case domain.ErrEmailTaken:
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		default:
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, userResponse{ID: user.ID, Name: user.Name, Email: user.Email})
}

// Login issues a session token for the user resolved by the Basic auth guard.
//
// @Summary      Login with Basic credentials and receive a session token
// @Tags         auth
// @Produce      json
// @Security     BasicAuth
// @Success      200  {object}  loginResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	session, err := h.sessions.Issue(c.Request().Context(), user)
	if err != nil {
		return err
	}

	metrics.SessionsIssuedTotal.Inc()
	return c.JSON(http.StatusOK, loginResponse{
		ID:    user.ID,
		Email: user.Email,
		Session: sessionResponse{
			Token:     session.Token,
			ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
		},
	})
}

// Me returns the identity resolved by the bearer auth guard.
//
// @Summary      Get the current authenticated user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{ID: user.ID, Name: user.Name, Email: user.Email})
}
