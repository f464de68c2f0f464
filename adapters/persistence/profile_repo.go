package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/devconnect/internal/domain/profile"
)

type postgresProfileRepo struct {
	db *pgxpool.Pool
}

func NewPostgresProfileRepo(db *pgxpool.Pool) profile.Repository {
	return &postgresProfileRepo{db: db}
}

func selectProfiles() sq.SelectBuilder {
	return psql.Select(
		"p.id", "p.user_id", "p.company", "p.website", "p.location", "p.status",
		"p.skills", "p.bio", "p.github_username", "p.social", "p.experience", "p.education",
		"p.created_at", "p.updated_at",
		"u.name", "u.avatar",
	).
		From("profiles p").
		LeftJoin("users u ON u.id = p.user_id")
}

func scanProfile(row pgx.Row) (*profile.Profile, error) {
	p := &profile.Profile{}
	var socialBytes, experienceBytes, educationBytes []byte
	var ownerName, ownerAvatar *string

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Company,
		&p.Website,
		&p.Location,
		&p.Status,
		&p.Skills,
		&p.Bio,
		&p.GitHubUsername,
		&socialBytes,
		&experienceBytes,
		&educationBytes,
		&p.CreatedAt,
		&p.UpdatedAt,
		&ownerName,
		&ownerAvatar,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to scan profile row: %w", err)
	}

	if err := json.Unmarshal(socialBytes, &p.Social); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile social: %w", err)
	}
	if err := json.Unmarshal(experienceBytes, &p.Experience); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile experience: %w", err)
	}
	if err := json.Unmarshal(educationBytes, &p.Education); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile education: %w", err)
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Social == nil {
		p.Social = map[profile.SocialPlatform]string{}
	}
	if p.Experience == nil {
		p.Experience = []profile.ExperienceEntry{}
	}
	if p.Education == nil {
		p.Education = []profile.EducationEntry{}
	}

	if ownerName != nil {
		p.Owner = &profile.Owner{ID: p.UserID, Name: *ownerName}
		if ownerAvatar != nil {
			p.Owner.Avatar = *ownerAvatar
		}
	}
	return p, nil
}

func (r *postgresProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	query, args, err := selectProfiles().Where(sq.Eq{"p.user_id": userID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find profile query: %w", err)
	}
	return scanProfile(r.db.QueryRow(ctx, query, args...))
}

func (r *postgresProfileRepo) List(ctx context.Context) ([]*profile.Profile, error) {
	query, args, err := selectProfiles().OrderBy("p.created_at ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list profiles query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]*profile.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profile rows: %w", err)
	}
	return profiles, nil
}

// Save writes the whole document. An existing row for the same user is overwritten,
// so two concurrent read-modify-write cycles on one profile resolve last-write-wins.
func (r *postgresProfileRepo) Save(ctx context.Context, p *profile.Profile) error {
	socialBytes, err := json.Marshal(p.Social)
	if err != nil {
		return fmt.Errorf("failed to marshal profile social: %w", err)
	}
	experienceBytes, err := json.Marshal(p.Experience)
	if err != nil {
		return fmt.Errorf("failed to marshal profile experience: %w", err)
	}
	educationBytes, err := json.Marshal(p.Education)
	if err != nil {
		return fmt.Errorf("failed to marshal profile education: %w", err)
	}
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}

	query, args, err := psql.Insert("profiles").
		Columns(
			"id", "user_id", "company", "website", "location", "status", "skills", "bio",
			"github_username", "social", "experience", "education", "created_at", "updated_at",
		).
		Values(
			p.ID, p.UserID, p.Company, p.Website, p.Location, p.Status, skills, p.Bio,
			p.GitHubUsername, socialBytes, experienceBytes, educationBytes, p.CreatedAt, p.UpdatedAt,
		).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			company = EXCLUDED.company,
			website = EXCLUDED.website,
			location = EXCLUDED.location,
			status = EXCLUDED.status,
			skills = EXCLUDED.skills,
			bio = EXCLUDED.bio,
			github_username = EXCLUDED.github_username,
			social = EXCLUDED.social,
			experience = EXCLUDED.experience,
			education = EXCLUDED.education,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build save profile query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}
