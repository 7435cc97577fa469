package repository

import (
	"context"
	"encoding/json"

	"devconnect/internal/database"
	"devconnect/internal/domain/profile"

	"github.com/google/uuid"
)

// PostgresProfileRepository stores one profile document per user. The
// embedded entry lists and the social sub-record live in JSONB columns
// so a save is a single-row write, matching the original document
// model.
type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

const profileSelect = `
SELECT p.id, p.user_id, u.name, u.avatar,
       p.company, p.website, p.location, p.status, p.bio, p.github_username,
       p.skills, p.social, p.experience, p.education,
       p.created_at, p.updated_at
FROM profiles p
JOIN users u ON u.id = p.user_id`

func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	row := r.db.QueryRow(ctx, profileSelect+` WHERE p.user_id = $1`, userID)
	p, err := scanProfile(row)
	if err != nil {
		if isNoRows(err) {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, err
	}
	return p, nil
}

func (r *PostgresProfileRepository) List(ctx context.Context) ([]profile.Profile, error) {
	rows, err := r.db.Query(ctx, profileSelect+` ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profile.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
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

func (r *PostgresProfileRepository) Save(ctx context.Context, p profile.Profile) error {
	social, err := json.Marshal(p.Social)
	if err != nil {
		return err
	}
	experience, err := json.Marshal(emptyIfNilExp(p.Experience))
	if err != nil {
		return err
	}
	education, err := json.Marshal(emptyIfNilEdu(p.Education))
	if err != nil {
		return err
	}

	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO profiles
		   (id, user_id, company, website, location, status, bio, github_username,
		    skills, social, experience, education)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (user_id) DO UPDATE SET
		   company = EXCLUDED.company,
		   website = EXCLUDED.website,
		   location = EXCLUDED.location,
		   status = EXCLUDED.status,
		   bio = EXCLUDED.bio,
		   github_username = EXCLUDED.github_username,
		   skills = EXCLUDED.skills,
		   social = EXCLUDED.social,
		   experience = EXCLUDED.experience,
		   education = EXCLUDED.education,
		   updated_at = now()`,
		p.ID, p.User.ID, p.Company, p.Website, p.Location, p.Status, p.Bio,
		p.GithubUsername, skills, social, experience, education,
	)
	return err
}

type profileScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row profileScanner) (profile.Profile, error) {
	var (
		p          profile.Profile
		social     []byte
		experience []byte
		education  []byte
	)

	err := row.Scan(
		&p.ID, &p.User.ID, &p.User.Name, &p.User.Avatar,
		&p.Company, &p.Website, &p.Location, &p.Status, &p.Bio, &p.GithubUsername,
		&p.Skills, &social, &experience, &education,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return profile.Profile{}, err
	}

	if err := json.Unmarshal(social, &p.Social); err != nil {
		return profile.Profile{}, err
	}
	if err := json.Unmarshal(experience, &p.Experience); err != nil {
		return profile.Profile{}, err
	}
	if err := json.Unmarshal(education, &p.Education); err != nil {
		return profile.Profile{}, err
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experience == nil {
		p.Experience = []profile.Experience{}
	}
	if p.Education == nil {
		p.Education = []profile.Education{}
	}

	return p, nil
}

func emptyIfNilExp(in []profile.Experience) []profile.Experience {
	if in == nil {
		return []profile.Experience{}
	}
	return in
}

func emptyIfNilEdu(in []profile.Education) []profile.Education {
	if in == nil {
		return []profile.Education{}
	}
	return in
}
