package post

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"devconnect/internal/domain/post"
	"devconnect/internal/domain/user"
	"devconnect/internal/pkg/validation"
)

var (
	ErrNotFound        = errors.New("post not found")
	ErrForbidden       = errors.New("user not authorized")
	ErrAlreadyLiked    = errors.New("post already liked")
	ErrNotYetLiked     = errors.New("post has not been liked yet")
	ErrCommentNotFound = errors.New("comment does not exist")
	ErrInternal        = errors.New("internal error")
)

// Notifier receives newly created posts; the websocket feed hub
// implements it. A nil notifier is fine.
type Notifier interface {
	PostCreated(p post.Post)
}

type Usecase interface {
	Create(ctx context.Context, userID uuid.UUID, text string) (post.Post, error)
	List(ctx context.Context) ([]post.Post, error)
	Get(ctx context.Context, id uuid.UUID) (post.Post, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error

	Like(ctx context.Context, userID, id uuid.UUID) ([]post.Like, error)
	Unlike(ctx context.Context, userID, id uuid.UUID) ([]post.Like, error)

	AddComment(ctx context.Context, userID, id uuid.UUID, text string) (post.Post, error)
	RemoveComment(ctx context.Context, userID, id, commentID uuid.UUID) ([]post.Comment, error)
}

type Service struct {
	posts    post.Repository
	users    user.Repository
	notifier Notifier

	now func() time.Time
}

func NewService(posts post.Repository, users user.Repository, notifier Notifier) *Service {
	return &Service{posts: posts, users: users, notifier: notifier, now: time.Now}
}

// Create snapshots the author's current name and avatar into the post;
// later profile edits do not rewrite published posts.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, text string) (post.Post, error) {
	b := &validation.Builder{}
	b.Require("text", text, "text is required")
	if err := b.Err(); err != nil {
		return post.Post{}, err
	}

	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return post.Post{}, ErrInternal
	}

	now := s.now().UTC()
	p := post.Post{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      author.Name,
		Avatar:    author.Avatar,
		Text:      text,
		Likes:     []post.Like{},
		Comments:  []post.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.posts.Create(ctx, p); err != nil {
		return post.Post{}, ErrInternal
	}

	created, err := s.posts.GetByID(ctx, p.ID)
	if err != nil {
		return post.Post{}, ErrInternal
	}

	if s.notifier != nil {
		s.notifier.PostCreated(created)
	}
	return created, nil
}

func (s *Service) List(ctx context.Context) ([]post.Post, error) {
	out, err := s.posts.List(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (post.Post, error) {
	return s.get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	p, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if p.UserID != userID {
		return ErrForbidden
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, post.ErrNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}
	return nil
}

func (s *Service) Like(ctx context.Context, userID, id uuid.UUID) ([]post.Like, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, l := range p.Likes {
		if l.UserID == userID {
			return nil, ErrAlreadyLiked
		}
	}
	p.Likes = append([]post.Like{{UserID: userID}}, p.Likes...)

	if err := s.update(ctx, p); err != nil {
		return nil, err
	}
	return p.Likes, nil
}

func (s *Service) Unlike(ctx context.Context, userID, id uuid.UUID) ([]post.Like, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, l := range p.Likes {
		if l.UserID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrNotYetLiked
	}
	p.Likes = append(p.Likes[:idx], p.Likes[idx+1:]...)

	if err := s.update(ctx, p); err != nil {
		return nil, err
	}
	return p.Likes, nil
}

func (s *Service) AddComment(ctx context.Context, userID, id uuid.UUID, text string) (post.Post, error) {
	b := &validation.Builder{}
	b.Require("text", text, "text is required")
	if err := b.Err(); err != nil {
		return post.Post{}, err
	}

	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return post.Post{}, ErrInternal
	}

	p, err := s.get(ctx, id)
	if err != nil {
		return post.Post{}, err
	}

	c := post.Comment{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      author.Name,
		Avatar:    author.Avatar,
		Text:      text,
		CreatedAt: s.now().UTC(),
	}
	p.Comments = append([]post.Comment{c}, p.Comments...)

	if err := s.update(ctx, p); err != nil {
		return post.Post{}, err
	}
	return p, nil
}

// RemoveComment locates the comment by its own id, then checks
// authorship. Matching by commenter (as the original did) can delete
// the wrong comment when a user commented more than once.
func (s *Service) RemoveComment(ctx context.Context, userID, id, commentID uuid.UUID) ([]post.Comment, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, c := range p.Comments {
		if c.ID == commentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrCommentNotFound
	}
	if p.Comments[idx].UserID != userID {
		return nil, ErrForbidden
	}
	p.Comments = append(p.Comments[:idx], p.Comments[idx+1:]...)

	if err := s.update(ctx, p); err != nil {
		return nil, err
	}
	return p.Comments, nil
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (post.Post, error) {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			return post.Post{}, ErrNotFound
		}
		return post.Post{}, ErrInternal
	}
	return p, nil
}

func (s *Service) update(ctx context.Context, p post.Post) error {
	if err := s.posts.Update(ctx, p); err != nil {
		if errors.Is(err, post.ErrNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}
	return nil
}

var _ Usecase = (*Service)(nil)
