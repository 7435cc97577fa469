package handler

import (
	"errors"

	"devconnect/internal/delivery/http/middleware"
	"devconnect/internal/pkg/response"
	ucprofile "devconnect/internal/usecase/profile"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ProfileHandler struct {
	uc ucprofile.Usecase
}

type upsertProfileRequest struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Status         string `json:"status"`
	Bio            string `json:"bio"`
	GithubUsername string `json:"github_username"`
	Skills         string `json:"skills"`

	Youtube   string `json:"youtube"`
	Twitter   string `json:"twitter"`
	Facebook  string `json:"facebook"`
	Linkedin  string `json:"linkedin"`
	Instagram string `json:"instagram"`
}

type experienceRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type educationRequest struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"field_of_study"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

func NewProfileHandler(uc ucprofile.Usecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

func (h *ProfileHandler) RegisterPublicRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Get("/user/:user_id", h.GetByUserID)
	r.Get("/github/:username", h.GithubRepos)
}

func (h *ProfileHandler) RegisterProtectedRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.Me)
	r.Post("/", h.Upsert)
	r.Delete("/", h.DeleteAccount)

	r.Put("/experience", h.AddExperience)
	r.Delete("/experience/:exp_id", h.RemoveExperience)
	r.Put("/education", h.AddEducation)
	r.Delete("/education/:edu_id", h.RemoveEducation)
}

func (h *ProfileHandler) Me(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, response.MessageUnauthorized, nil, nil)
	}

	p, err := h.uc.GetByUserID(c.Context(), userID)
	if err != nil {
		return mapProfileError(err, "there is no profile for this user")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, p)
}

func (h *ProfileHandler) Upsert(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, response.MessageUnauthorized, nil, nil)
	}

	var req upsertProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	}

	p, err := h.uc.Upsert(c.Context(), userID, ucprofile.UpsertInput{
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Status:         req.Status,
		Bio:            req.Bio,
		GithubUsername: req.GithubUsername,
		Skills:         req.Skills,
		Youtube:        req.Youtube,
		Twitter:        req.Twitter,
		Facebook:       req.Facebook,
		Linkedin:       req.Linkedin,
		Instagram:      req.Instagram,
	})
	if err != nil {
		return mapProfileError(err, "")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, p)
}

func (h *ProfileHandler) List(c fiber.Ctx) error {
	profiles, err := h.uc.List(c.Context())
	if err != nil {
		return mapProfileError(err, "")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, profiles)
}

func (h *ProfileHandler) GetByUserID(c fiber.Ctx) error {
	// A malformed id means no such profile, not a server fault.
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "profile not found", nil, err)
	}

	p, err := h.uc.GetByUserID(c.Context(), userID)
	if err != nil {
		return mapProfileError(err, "profile not found")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, p)
}

func (h *ProfileHandler) DeleteAccount(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, response.MessageUnauthorized, nil, nil)
	}

	if err := h.uc.DeleteAccount(c.Context(), userID); err != nil {
		return mapProfileError(err, "")
	}
	return response.Success(c, fiber.StatusOK, "user deleted", nil)
}

func (h *ProfileHandler) AddExperience(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, response.MessageUnauthorized, nil, nil)
	}

	var req experienceRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	}

	p, err := h.uc.AddExperience(c.Context(), userID, ucprofile.ExperienceInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	})
	if err != nil {
		return mapProfileError(err, "there is no profile for this user")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, p)
}

func (h *ProfileHandler) RemoveExperience(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, response.MessageUnauthorized, nil, nil)
	}

	entryID, err := uuid.Parse(c.Params("exp_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "experience entry not found", nil, err)
	}

	p, err := h.uc.RemoveExperience(c.Context(), userID, entryID)
	if err != nil {
		return mapProfileError(err, "experience entry not found")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, p)
}

func (h *ProfileHandler) AddEducation(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, response.MessageUnauthorized, nil, nil)
	}

	var req educationRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	}

	p, err := h.uc.AddEducation(c.Context(), userID, ucprofile.EducationInput{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  req.Description,
	})
	if err != nil {
		return mapProfileError(err, "there is no profile for this user")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, p)
}

func (h *ProfileHandler) RemoveEducation(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, response.MessageUnauthorized, nil, nil)
	}

	entryID, err := uuid.Parse(c.Params("edu_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "education entry not found", nil, err)
	}

	p, err := h.uc.RemoveEducation(c.Context(), userID, entryID)
	if err != nil {
		return mapProfileError(err, "education entry not found")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, p)
}

func (h *ProfileHandler) GithubRepos(c fiber.Ctx) error {
	repos, err := h.uc.GithubRepos(c.Context(), c.Params("username"))
	if err != nil {
		return mapProfileError(err, "no github profile found")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, repos)
}

func mapProfileError(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ucprofile.ErrNotFound):
		if notFoundMsg == "" {
			notFoundMsg = "profile not found"
		}
		return middleware.NewAppError(fiber.StatusNotFound, notFoundMsg, nil, err)
	case errors.Is(err, ucprofile.ErrEntryNotFound):
		if notFoundMsg == "" {
			notFoundMsg = "entry not found"
		}
		return middleware.NewAppError(fiber.StatusNotFound, notFoundMsg, nil, err)
	case errors.Is(err, ucprofile.ErrUserNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "user not found", nil, err)
	default:
		// validation.FieldErrors and internal errors fall through to
		// the error middleware.
		return err
	}
}
