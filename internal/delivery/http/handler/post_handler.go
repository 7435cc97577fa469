package handler

import (
	"errors"

	"devconnect/internal/delivery/http/middleware"
	"devconnect/internal/pkg/response"
	ucpost "devconnect/internal/usecase/post"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type PostHandler struct {
	uc ucpost.Usecase
}

type postRequest struct {
	Text string `json:"text"`
}

type commentRequest struct {
	Text string `json:"text"`
}

func NewPostHandler(uc ucpost.Usecase) *PostHandler {
	return &PostHandler{uc: uc}
}

func (h *PostHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/:id", h.Get)
	r.Delete("/:id", h.Delete)

	r.Put("/like/:id", h.Like)
	r.Put("/unlike/:id", h.Unlike)

	r.Post("/comment/:id", h.AddComment)
	r.Delete("/comment/:id/:comment_id", h.RemoveComment)
}

func (h *PostHandler) Create(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, response.MessageUnauthorized, nil, nil)
	}

	var req postRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	}

	p, err := h.uc.Create(c.Context(), userID, req.Text)
	if err != nil {
		return mapPostError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, p)
}

func (h *PostHandler) List(c fiber.Ctx) error {
	posts, err := h.uc.List(c.Context())
	if err != nil {
		return mapPostError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, posts)
}

func (h *PostHandler) Get(c fiber.Ctx) error {
	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	p, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapPostError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, p)
}

func (h *PostHandler) Delete(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, response.MessageUnauthorized, nil, nil)
	}

	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), userID, id); err != nil {
		return mapPostError(err)
	}
	return response.Success(c, fiber.StatusOK, "post removed", nil)
}

func (h *PostHandler) Like(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, response.MessageUnauthorized, nil, nil)
	}

	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	likes, err := h.uc.Like(c.Context(), userID, id)
	if err != nil {
		return mapPostError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, likes)
}

func (h *PostHandler) Unlike(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, response.MessageUnauthorized, nil, nil)
	}

	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	likes, err := h.uc.Unlike(c.Context(), userID, id)
	if err != nil {
		return mapPostError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, likes)
}

func (h *PostHandler) AddComment(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, response.MessageUnauthorized, nil, nil)
	}

	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	}

	p, err := h.uc.AddComment(c.Context(), userID, id, req.Text)
	if err != nil {
		return mapPostError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, p)
}

func (h *PostHandler) RemoveComment(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, response.MessageUnauthorized, nil, nil)
	}

	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	commentID, perr := uuid.Parse(c.Params("comment_id"))
	if perr != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "comment does not exist", nil, perr)
	}

	comments, err := h.uc.RemoveComment(c.Context(), userID, id, commentID)
	if err != nil {
		return mapPostError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, comments)
}

func parsePostID(c fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusNotFound, "post not found", nil, err)
	}
	return id, nil
}

func mapPostError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ucpost.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "post not found", nil, err)
	case errors.Is(err, ucpost.ErrCommentNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "comment does not exist", nil, err)
	case errors.Is(err, ucpost.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "user not authorized", nil, err)
	case errors.Is(err, ucpost.ErrAlreadyLiked):
		return middleware.NewAppError(fiber.StatusConflict, "post already liked", nil, err)
	case errors.Is(err, ucpost.ErrNotYetLiked):
		return middleware.NewAppError(fiber.StatusConflict, "post has not been liked yet", nil, err)
	default:
		return err
	}
}
