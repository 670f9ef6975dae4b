package handlers

import (
	"strings"

	"ytscribe/auth"
	"ytscribe/errors"
	"ytscribe/models"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authn *auth.Authenticator
}

func NewAuthHandler(authn *auth.Authenticator) *AuthHandler {
	return &AuthHandler{authn: authn}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.InvalidInput("AuthHandler.Login", err, "Invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return errors.InvalidInput("AuthHandler.Login", nil, "Username and password are required")
	}

	token, err := h.authn.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(models.LoginResponse{
		Token:    token,
		Username: req.Username,
	})
}

// Logout accepts the token in the request body or the Authorization
// header and always succeeds.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req models.LogoutRequest
	_ = c.BodyParser(&req)

	token := req.Token
	if token == "" {
		header := c.Get(fiber.HeaderAuthorization)
		token = strings.TrimPrefix(header, "Bearer ")
	}
	if token != "" {
		h.authn.Logout(token)
	}

	return c.JSON(fiber.Map{"success": true})
}
