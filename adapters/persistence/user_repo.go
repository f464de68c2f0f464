package persistence

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/devconnect/internal/domain/user"
)

const pgUniqueViolation = "23505"

type postgresUserRepo struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepo(db *pgxpool.Pool) user.Repository {
	return &postgresUserRepo{db: db}
}

var userColumns = []string{"id", "name", "email", "password_hash", "avatar", "created_at"}

func scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Avatar, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("error when query user: %w", err)
	}
	return u, nil
}

func (r *postgresUserRepo) Create(ctx context.Context, u *user.User) error {
	u.Email = user.NormalizeEmail(u.Email)
	query, args, err := psql.Insert("users").
		Columns(userColumns...).
		Values(u.ID, u.Name, u.Email, u.PasswordHash, u.Avatar, u.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert user query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return user.ErrEmailTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *postgresUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").
		Where(sq.Eq{"email": user.NormalizeEmail(email)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find user query: %w", err)
	}
	return scanUser(r.db.QueryRow(ctx, query, args...))
}

func (r *postgresUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find user query: %w", err)
	}
	return scanUser(r.db.QueryRow(ctx, query, args...))
}

func (r *postgresUserRepo) UpdateAvatar(ctx context.Context, id uuid.UUID, avatar string) error {
	query, args, err := psql.Update("users").
		Set("avatar", avatar).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update avatar query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
