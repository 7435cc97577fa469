package handler

import (
	"devconnect/internal/delivery/http/middleware"
	"devconnect/internal/pkg/response"
	ucauth "devconnect/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
)

// AuthHandler owns login (POST /api/auth) and the current-user read
// (GET /api/auth).
type AuthHandler struct {
	uc ucauth.Usecase
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewAuthHandler(uc ucauth.Usecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) RegisterPublicRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.Login)
}

func (h *AuthHandler) RegisterProtectedRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.Me)
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	}

	token, err := h.uc.Login(c.Context(), ucauth.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return mapAuthError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"token": token})
}

func (h *AuthHandler) Me(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, response.MessageUnauthorized, nil, nil)
	}

	usr, err := h.uc.Me(c.Context(), userID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "user not found", nil, err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, usr)
}
