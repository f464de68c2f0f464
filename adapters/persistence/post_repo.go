package persistence

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/devconnect/internal/domain/post"
)

type postgresPostRepo struct {
	db *pgxpool.Pool
}

func NewPostgresPostRepo(db *pgxpool.Pool) post.Repository {
	return &postgresPostRepo{db: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var postColumns = []string{"id", "user_id", "text", "name", "avatar", "created_at"}

func scanPost(row pgx.Row) (*post.Post, error) {
	p := &post.Post{}
	err := row.Scan(&p.ID, &p.UserID, &p.Text, &p.Name, &p.Avatar, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, post.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to scan post row: %w", err)
	}
	return p, nil
}

func (r *postgresPostRepo) Save(ctx context.Context, p *post.Post) error {
	query, args, err := psql.Insert("posts").
		Columns(postColumns...).
		Values(p.ID, p.UserID, p.Text, p.Name, p.Avatar, p.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert post query: %w", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

func (r *postgresPostRepo) FindByID(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	query, args, err := psql.Select(postColumns...).From("posts").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find post query: %w", err)
	}
	return scanPost(r.db.QueryRow(ctx, query, args...))
}

func (r *postgresPostRepo) List(ctx context.Context) ([]*post.Post, error) {
	query, args, err := psql.Select(postColumns...).From("posts").OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list posts query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*post.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}
	return posts, nil
}

func (r *postgresPostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := psql.Delete("posts").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete post query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return post.ErrPostNotFound
	}
	return nil
}
