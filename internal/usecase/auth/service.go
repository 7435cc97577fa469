package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"devconnect/internal/domain/user"
	"devconnect/internal/pkg/gravatar"
	"devconnect/internal/pkg/jwt"
	"devconnect/internal/pkg/validation"
)

var (
	ErrEmailTaken = errors.New("user already exists")
	// ErrInvalidCredentials deliberately covers both an unknown email
	// and a wrong password so the response leaks neither.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInternal           = errors.New("internal error")
)

const minPasswordLen = 6

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type Usecase interface {
	Register(ctx context.Context, in RegisterInput) (string, error)
	Login(ctx context.Context, in LoginInput) (string, error)
	Me(ctx context.Context, userID uuid.UUID) (user.User, error)
}

type Service struct {
	users  user.Repository
	tokens jwt.Service
}

func NewService(users user.Repository, tokens jwt.Service) *Service {
	return &Service{users: users, tokens: tokens}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (string, error) {
	email := normalizeEmail(in.Email)

	b := &validation.Builder{}
	b.Require("name", in.Name, "name is required")
	if email == "" || !emailRe.MatchString(email) {
		b.Add("email", "please include a valid email")
	}
	if len(strings.TrimSpace(in.Password)) < minPasswordLen {
		b.Add("password", "please enter a password with at least 6 characters")
	}
	if err := b.Err(); err != nil {
		return "", err
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return "", ErrInternal
	}
	if exists {
		return "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrInternal
	}

	u := user.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Avatar:       gravatar.URL(email),
	}

	if err := s.users.Create(ctx, u); err != nil {
		// The unique index may have beaten the ExistsByEmail check.
		if taken, exErr := s.users.ExistsByEmail(ctx, email); exErr == nil && taken {
			return "", ErrEmailTaken
		}
		return "", ErrInternal
	}

	token, err := s.tokens.GenerateToken(u.ID)
	if err != nil {
		return "", ErrInternal
	}
	return token, nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (string, error) {
	email := normalizeEmail(in.Email)

	b := &validation.Builder{}
	if email == "" || !emailRe.MatchString(email) {
		b.Add("email", "please include a valid email")
	}
	b.Require("password", in.Password, "password is required")
	if err := b.Err(); err != nil {
		return "", err
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(u.ID)
	if err != nil {
		return "", ErrInternal
	}
	return token, nil
}

func (s *Service) Me(ctx context.Context, userID uuid.UUID) (user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, ErrInternal
	}
	u.PasswordHash = ""
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ Usecase = (*Service)(nil)
