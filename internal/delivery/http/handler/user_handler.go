package handler

import (
	"errors"

	"devconnect/internal/delivery/http/middleware"
	"devconnect/internal/pkg/response"
	ucauth "devconnect/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
)

// UserHandler owns registration (POST /api/users).
type UserHandler struct {
	uc ucauth.Usecase
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewUserHandler(uc ucauth.Usecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.Register)
}

func (h *UserHandler) Register(c fiber.Ctx) error {
	var req registerRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	}

	token, err := h.uc.Register(c.Context(), ucauth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return mapAuthError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"token": token})
}

func mapAuthError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ucauth.ErrEmailTaken):
		return middleware.NewAppError(fiber.StatusBadRequest, "user already exists", nil, err)
	case errors.Is(err, ucauth.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid credentials", nil, err)
	default:
		// validation.FieldErrors pass through for the error middleware.
		return err
	}
}
