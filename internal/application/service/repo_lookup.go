package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrNoRepoProfile = errors.New("no repository profile found")

// RepoLookup fetches the most recent public repositories of a code-hosting account.
// The payload is passed through untouched.
type RepoLookup interface {
	RecentRepos(ctx context.Context, username string) (json.RawMessage, error)
}

type RepoCache interface {
	Get(ctx context.Context, username string) (json.RawMessage, bool, error)
	Set(ctx context.Context, username string, repos json.RawMessage, ttl time.Duration) error
	Delete(ctx context.Context, username string) error
}
