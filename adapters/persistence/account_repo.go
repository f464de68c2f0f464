package persistence

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/devconnect/internal/domain/account"
)

type postgresAccountRemover struct {
	db *pgxpool.Pool
}

func NewPostgresAccountRemover(db *pgxpool.Pool) account.Remover {
	return &postgresAccountRemover{db: db}
}

// RemoveAccount deletes posts, profile and user in that order inside one transaction.
// Any failure rolls the whole cascade back.
func (r *postgresAccountRemover) RemoveAccount(ctx context.Context, userID uuid.UUID) error {
	steps := []sq.DeleteBuilder{
		psql.Delete("posts").Where(sq.Eq{"user_id": userID}),
		psql.Delete("profiles").Where(sq.Eq{"user_id": userID}),
		psql.Delete("users").Where(sq.Eq{"id": userID}),
	}

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for _, step := range steps {
			query, args, err := step.ToSql()
			if err != nil {
				return fmt.Errorf("failed to build cascade delete query: %w", err)
			}
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("cascade delete failed: %w", err)
			}
		}
		return nil
	})
}
