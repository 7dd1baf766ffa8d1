package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/animelist/watchlist-api/internal/api/metrics"
	"github.com/animelist/watchlist-api/internal/core/domain"
	"github.com/animelist/watchlist-api/internal/core/ports"
)

// AuthHandler serves sign-up, sign-in and account maintenance.
type AuthHandler struct {
	authService ports.AuthService
	users       ports.PipelineFactory[ports.UserInput]
}

func NewAuthHandler(authService ports.AuthService, users ports.PipelineFactory[ports.UserInput]) *AuthHandler {
	return &AuthHandler{authService: authService, users: users}
}

// SignUp creates a user account and returns a token for it.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Account details"
// @Success      200   {object}  domain.Result
// @Failure      400   {object}  domain.Result
// @Failure      429   {object}  map[string]string
// @Router       /api/login/signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	return runPipeline(c, "user", h.users, domain.OperationAdd, ports.UserInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Age:       req.Age,
	})
}

// SignIn authenticates a user and returns a token.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  domain.Result
// @Failure      400   {object}  domain.Result
// @Failure      429   {object}  map[string]string
// @Router       /api/login/signin [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	r := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	switch {
	case !r.IsError:
		metrics.SignInsTotal.WithLabelValues("success").Inc()
	case errors.Is(r.Err, domain.ErrInvalidCredentials):
		metrics.SignInsTotal.WithLabelValues("invalid_credentials").Inc()
	default:
		metrics.SignInsTotal.WithLabelValues("error").Inc()
	}
	return respond(c, r)
}

// UpdateUser edits the caller's profile. Admins may edit any account.
//
// @Summary      Update a user profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateUserRequest  true  "Profile fields; empty fields are kept"
// @Success      200   {object}  domain.Result
// @Failure      400   {object}  domain.Result
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/login/user [put]
func (h *AuthHandler) UpdateUser(c echo.Context) error {
	id, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.authService.AuthorizeAccount(c.Request().Context(), id, req.ID); err != nil {
		return err
	}

	return runPipeline(c, "user", h.users, domain.OperationEdit, ports.UserInput{
		ID:        req.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Age:       req.Age,
	})
}

// DeleteUser removes the caller's account. Admins may remove any account.
//
// @Summary      Delete a user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  domain.Result
// @Failure      400  {object}  domain.Result
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/login/user/{id} [delete]
func (h *AuthHandler) DeleteUser(c echo.Context) error {
	id, err := callerIdentity(c)
	if err != nil {
		return err
	}
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.authService.AuthorizeAccount(c.Request().Context(), id, userID); err != nil {
		return err
	}

	return runPipeline(c, "user", h.users, domain.OperationDelete, ports.UserInput{ID: userID})
}

// Check echoes the identity carried by a valid token.
//
// @Summary      Check a token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Result
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/login/check [get]
func (h *AuthHandler) Check(c echo.Context) error {
	id, err := callerIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.OK("Token is valid.", identityResponse{
		Email:     id.Email,
		Role:      string(id.Role),
		ExpiresAt: id.ExpiresAt,
	}))
}
