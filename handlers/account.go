package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/signupd/signupd/server"
	"github.com/signupd/signupd/services/account"
	"github.com/signupd/signupd/services/logging"
	"go.uber.org/fx"
)

type AccountHandler struct {
	service *account.Service
	logger  *logging.Service
}

func NewAccountHandler(service *account.Service, logger *logging.Service) *AccountHandler {
	return &AccountHandler{
		service: service,
		logger:  logger,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AccountHandler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid registration"})
	}

	acct, err := h.service.Register(req.Email, req.Password)
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, acct)
	case errors.Is(err, account.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid registration"})
	case errors.Is(err, account.ErrEmailDeliveryFailed):
		// The account has been created at this point; only delivery failed.
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to send verification email"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
}

func (h *AccountHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid login"})
	}

	acct, err := h.service.Login(req.Email, req.Password)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{
			"status": "success",
			"user":   acct,
		})
	case errors.Is(err, account.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid login"})
	case errors.Is(err, account.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid login"})
	case errors.Is(err, account.ErrAccountNotVerified):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Account not verified"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
}

func (h *AccountHandler) Verify(c echo.Context) error {
	token := c.Param("token")

	_, err := h.service.VerifyToken(token)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"message": "Your account has been successfully verified."})
	case errors.Is(err, account.ErrVerificationTokenInvalid):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid or expired token. Please request a new verification email."})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
}

func RegisterRoutes(srv *server.Server, h *AccountHandler) {
	srv.Post("/register", h.Register)
	srv.Post("/login", h.Login)
	srv.Get("/verify/:token", h.Verify)
}

var Module = fx.Options(
	fx.Provide(NewAccountHandler),
	fx.Invoke(RegisterRoutes),
)
