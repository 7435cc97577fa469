package profile

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"devconnect/internal/domain/profile"
	"devconnect/internal/domain/user"
	"devconnect/internal/infrastructure/cache"
	"devconnect/internal/infrastructure/github"
	"devconnect/internal/pkg/validation"
)

var (
	ErrNotFound      = errors.New("profile not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrEntryNotFound = errors.New("entry not found")
	ErrInternal      = errors.New("internal error")
)

const githubCacheTTL = 10 * time.Minute

type UpsertInput struct {
	Company        string
	Website        string
	Location       string
	Status         string
	Bio            string
	GithubUsername string
	Skills         string

	Youtube   string
	Twitter   string
	Facebook  string
	Linkedin  string
	Instagram string
}

type ExperienceInput struct {
	Title       string
	Company     string
	Location    string
	From        string
	To          string
	Current     bool
	Description string
}

type EducationInput struct {
	School       string
	Degree       string
	FieldOfStudy string
	From         string
	To           string
	Current      bool
	Description  string
}

type Usecase interface {
	Upsert(ctx context.Context, userID uuid.UUID, in UpsertInput) (profile.Profile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (profile.Profile, error)
	List(ctx context.Context) ([]profile.Profile, error)

	AddExperience(ctx context.Context, userID uuid.UUID, in ExperienceInput) (profile.Profile, error)
	RemoveExperience(ctx context.Context, userID, entryID uuid.UUID) (profile.Profile, error)
	AddEducation(ctx context.Context, userID uuid.UUID, in EducationInput) (profile.Profile, error)
	RemoveEducation(ctx context.Context, userID, entryID uuid.UUID) (profile.Profile, error)

	DeleteAccount(ctx context.Context, userID uuid.UUID) error
	GithubRepos(ctx context.Context, username string) ([]string, error)
}

type Service struct {
	profiles profile.Repository
	users    user.Repository
	github   github.Client
	cache    *cache.Redis
	logger   *log.Logger
}

func NewService(profiles profile.Repository, users user.Repository, gh github.Client, c *cache.Redis, logger *log.Logger) *Service {
	return &Service{profiles: profiles, users: users, github: gh, cache: c, logger: logger}
}

// Upsert creates or updates the caller's profile. Only fields present
// in the input are written; an empty optional field keeps whatever the
// profile already holds, so an update cannot clear a field. That is the
// documented contract of this endpoint.
func (s *Service) Upsert(ctx context.Context, userID uuid.UUID, in UpsertInput) (profile.Profile, error) {
	b := &validation.Builder{}
	b.Require("status", in.Status, "status is required")
	b.Require("skills", in.Skills, "skills is required")
	if err := b.Err(); err != nil {
		return profile.Profile{}, err
	}

	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, profile.ErrNotFound) {
			return profile.Profile{}, ErrInternal
		}
		p = profile.Profile{
			ID:   uuid.New(),
			User: profile.Owner{ID: userID},
		}
	}

	setIfPresent(&p.Company, in.Company)
	setIfPresent(&p.Website, in.Website)
	setIfPresent(&p.Location, in.Location)
	setIfPresent(&p.Bio, in.Bio)
	setIfPresent(&p.GithubUsername, in.GithubUsername)
	p.Status = strings.TrimSpace(in.Status)
	p.Skills = splitSkills(in.Skills)

	setIfPresent(&p.Social.Youtube, in.Youtube)
	setIfPresent(&p.Social.Twitter, in.Twitter)
	setIfPresent(&p.Social.Facebook, in.Facebook)
	setIfPresent(&p.Social.Linkedin, in.Linkedin)
	setIfPresent(&p.Social.Instagram, in.Instagram)

	if err := s.profiles.Save(ctx, p); err != nil {
		return profile.Profile{}, ErrInternal
	}

	saved, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return profile.Profile{}, ErrInternal
	}
	return saved, nil
}

func (s *Service) GetByUserID(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return profile.Profile{}, ErrNotFound
		}
		return profile.Profile{}, ErrInternal
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]profile.Profile, error) {
	out, err := s.profiles.List(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func (s *Service) AddExperience(ctx context.Context, userID uuid.UUID, in ExperienceInput) (profile.Profile, error) {
	b := &validation.Builder{}
	b.Require("title", in.Title, "title is required")
	b.Require("company", in.Company, "company is required")
	b.Require("from", in.From, "from date is required")
	if err := b.Err(); err != nil {
		return profile.Profile{}, err
	}

	p, err := s.getOwn(ctx, userID)
	if err != nil {
		return profile.Profile{}, err
	}

	entry := profile.Experience{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Location:    strings.TrimSpace(in.Location),
		From:        strings.TrimSpace(in.From),
		To:          strings.TrimSpace(in.To),
		Current:     in.Current,
		Description: in.Description,
	}
	p.Experience = append([]profile.Experience{entry}, p.Experience...)

	return s.save(ctx, p)
}

// RemoveExperience deletes the entry by its generated id. An unknown id
// is reported as ErrEntryNotFound rather than silently succeeding; the
// original's silent no-op could splice away the wrong entry.
func (s *Service) RemoveExperience(ctx context.Context, userID, entryID uuid.UUID) (profile.Profile, error) {
	p, err := s.getOwn(ctx, userID)
	if err != nil {
		return profile.Profile{}, err
	}

	idx := -1
	for i, e := range p.Experience {
		if e.ID == entryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return profile.Profile{}, ErrEntryNotFound
	}
	p.Experience = append(p.Experience[:idx], p.Experience[idx+1:]...)

	return s.save(ctx, p)
}

func (s *Service) AddEducation(ctx context.Context, userID uuid.UUID, in EducationInput) (profile.Profile, error) {
	b := &validation.Builder{}
	b.Require("school", in.School, "school is required")
	b.Require("degree", in.Degree, "degree is required")
	b.Require("from", in.From, "from date is required")
	if err := b.Err(); err != nil {
		return profile.Profile{}, err
	}

	p, err := s.getOwn(ctx, userID)
	if err != nil {
		return profile.Profile{}, err
	}

	entry := profile.Education{
		ID:           uuid.New(),
		School:       strings.TrimSpace(in.School),
		Degree:       strings.TrimSpace(in.Degree),
		FieldOfStudy: strings.TrimSpace(in.FieldOfStudy),
		From:         strings.TrimSpace(in.From),
		To:           strings.TrimSpace(in.To),
		Current:      in.Current,
		Description:  in.Description,
	}
	p.Education = append([]profile.Education{entry}, p.Education...)

	return s.save(ctx, p)
}

func (s *Service) RemoveEducation(ctx context.Context, userID, entryID uuid.UUID) (profile.Profile, error) {
	p, err := s.getOwn(ctx, userID)
	if err != nil {
		return profile.Profile{}, err
	}

	idx := -1
	for i, e := range p.Education {
		if e.ID == entryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return profile.Profile{}, ErrEntryNotFound
	}
	p.Education = append(p.Education[:idx], p.Education[idx+1:]...)

	return s.save(ctx, p)
}

func (s *Service) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrUserNotFound
		}
		return ErrInternal
	}
	return nil
}

func (s *Service) GithubRepos(ctx context.Context, username string) ([]string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrNotFound
	}

	cacheKey := "github:repos:" + strings.ToLower(username)
	var cached []string
	if ok, _ := s.cache.GetJSON(ctx, cacheKey, &cached); ok {
		return cached, nil
	}

	repos, err := s.github.ListRepos(ctx, username)
	if err != nil {
		if errors.Is(err, github.ErrProfileNotFound) {
			return nil, ErrNotFound
		}
		if s.logger != nil {
			s.logger.Printf("[Profile] github lookup failed username=%s: %v", username, err)
		}
		return nil, ErrInternal
	}

	_ = s.cache.SetJSON(ctx, cacheKey, repos, githubCacheTTL)
	return repos, nil
}

func (s *Service) getOwn(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return profile.Profile{}, ErrNotFound
		}
		return profile.Profile{}, ErrInternal
	}
	return p, nil
}

func (s *Service) save(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	if err := s.profiles.Save(ctx, p); err != nil {
		return profile.Profile{}, ErrInternal
	}
	saved, err := s.profiles.GetByUserID(ctx, p.User.ID)
	if err != nil {
		return profile.Profile{}, ErrInternal
	}
	return saved, nil
}

func setIfPresent(dst *string, v string) {
	v = strings.TrimSpace(v)
	if v != "" {
		*dst = v
	}
}

func splitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

var _ Usecase = (*Service)(nil)
