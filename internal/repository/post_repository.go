package repository

import (
	"context"
	"encoding/json"

	"devconnect/internal/database"
	"devconnect/internal/domain/post"

	"github.com/google/uuid"
)

type PostgresPostRepository struct {
	db database.DB
}

func NewPostgresPostRepository(db database.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

const postSelect = `
SELECT id, user_id, name, avatar, body, likes, comments, created_at, updated_at
FROM posts`

func (r *PostgresPostRepository) Create(ctx context.Context, p post.Post) error {
	likes, comments, err := marshalPostLists(p)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO posts (id, user_id, name, avatar, body, likes, comments)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.UserID, p.Name, p.Avatar, p.Text, likes, comments,
	)
	return err
}

func (r *PostgresPostRepository) List(ctx context.Context) ([]post.Post, error) {
	rows, err := r.db.Query(ctx, postSelect+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]post.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresPostRepository) GetByID(ctx context.Context, id uuid.UUID) (post.Post, error) {
	row := r.db.QueryRow(ctx, postSelect+` WHERE id = $1`, id)
	p, err := scanPost(row)
	if err != nil {
		if isNoRows(err) {
			return post.Post{}, post.ErrNotFound
		}
		return post.Post{}, err
	}
	return p, nil
}

func (r *PostgresPostRepository) Update(ctx context.Context, p post.Post) error {
	likes, comments, err := marshalPostLists(p)
	if err != nil {
		return err
	}

	n, err := r.db.Exec(ctx,
		`UPDATE posts SET likes = $2, comments = $3, updated_at = now() WHERE id = $1`,
		p.ID, likes, comments,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return post.ErrNotFound
	}
	return nil
}

func (r *PostgresPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return post.ErrNotFound
	}
	return nil
}

func marshalPostLists(p post.Post) ([]byte, []byte, error) {
	l := p.Likes
	if l == nil {
		l = []post.Like{}
	}
	c := p.Comments
	if c == nil {
		c = []post.Comment{}
	}

	likes, err := json.Marshal(l)
	if err != nil {
		return nil, nil, err
	}
	comments, err := json.Marshal(c)
	if err != nil {
		return nil, nil, err
	}
	return likes, comments, nil
}

type postScanner interface {
	Scan(dest ...any) error
}

func scanPost(row postScanner) (post.Post, error) {
	var (
		p        post.Post
		likes    []byte
		comments []byte
	)

	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Avatar, &p.Text, &likes, &comments, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return post.Post{}, err
	}

	if err := json.Unmarshal(likes, &p.Likes); err != nil {
		return post.Post{}, err
	}
	if err := json.Unmarshal(comments, &p.Comments); err != nil {
		return post.Post{}, err
	}
	if p.Likes == nil {
		p.Likes = []post.Like{}
	}
	if p.Comments == nil {
		p.Comments = []post.Comment{}
	}

	return p, nil
}
