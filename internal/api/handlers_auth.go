package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/worktrace/internal/services"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type sessionResponse struct {
	User      userResponse `json:"user"`
	CSRFToken string       `json:"csrfToken"`
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	ctx := c.UserContext()
	key := requestLimiterKey(c)
	now := handler.now()
	if handler.loginLimiter.TooManyRecent(ctx, key, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts, try again later")
	}

	request := loginRequest{}
	if err := parseBody(c, &request); err != nil {
		return handler.respondServiceError(c, err)
	}

	user, err := handler.authService.Authenticate(request.Email, request.Password)
	if errors.Is(err, services.ErrAuthCredentialsInvalid) {
		handler.loginLimiter.AddFailure(ctx, key, now)
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	handler.loginLimiter.Reset(ctx, key)
	if err := handler.setSessionCookies(c, &user); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	handler.audit.LogAction(ctx, user.ID, "login", "user", user.ID)
	return c.JSON(sessionResponse{User: newUserResponse(user), CSRFToken: csrfToken(c)})
}

func (handler *Handler) Refresh(c *fiber.Ctx) error {
	claims, err := handler.parseToken(c.Cookies(refreshCookieName), tokenTypeRefresh)
	if err != nil {
		handler.clearSessionCookies(c)
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	user, err := handler.authService.ActiveUser(claims.UserID)
	if err != nil {
		handler.clearSessionCookies(c)
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if err := handler.setSessionCookies(c, &user); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.JSON(sessionResponse{User: newUserResponse(user), CSRFToken: csrfToken(c)})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearSessionCookies(c)
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	return c.JSON(sessionResponse{User: newUserResponse(*user), CSRFToken: csrfToken(c)})
}

func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	request := changePasswordRequest{}
	if err := parseBody(c, &request); err != nil {
		return handler.respondServiceError(c, err)
	}
	if err := handler.authService.ChangePassword(user.ID, request.CurrentPassword, request.NewPassword); err != nil {
		return handler.respondServiceError(c, err)
	}

	refreshed, err := handler.authService.ActiveUser(user.ID)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	if err := handler.setSessionCookies(c, &refreshed); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	handler.audit.LogAction(c.UserContext(), user.ID, "change_password", "user", user.ID)
	return c.JSON(sessionResponse{User: newUserResponse(refreshed), CSRFToken: csrfToken(c)})
}

// CSRF hands out the token for unsafe requests; the csrf middleware issues it
// on any safe method.
func (handler *Handler) CSRF(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"csrfToken": csrfToken(c)})
}
