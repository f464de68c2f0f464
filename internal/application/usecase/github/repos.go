package github

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/internal/application/service"
	"github.com/khoahotran/devconnect/pkg/apperror"
	"github.com/khoahotran/devconnect/pkg/logger"
)

var tracer = otel.Tracer("github_usecase")

type ReposUseCase struct {
	lookup   service.RepoLookup
	cache    service.RepoCache
	cacheTTL time.Duration
	logger   logger.Logger
}

// NewReposUseCase accepts a nil cache; lookups then always go to GitHub.
func NewReposUseCase(lookup service.RepoLookup, cache service.RepoCache, cacheTTL time.Duration, log logger.Logger) *ReposUseCase {
	return &ReposUseCase{
		lookup:   lookup,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log,
	}
}

// Execute returns the pass-through repo list. Cache errors are logged and bypassed.
func (uc *ReposUseCase) Execute(ctx context.Context, username string) (json.RawMessage, error) {
	ctx, span := tracer.Start(ctx, "RecentRepos")
	defer span.End()
	span.SetAttributes(attribute.String("github_username", username))

	if uc.cache != nil {
		repos, ok, err := uc.cache.Get(ctx, username)
		switch {
		case err != nil:
			uc.logger.Warn("Repo cache read failed", zap.String("github_username", username), zap.Error(err))
		case ok:
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return repos, nil
		}
	}

	repos, err := uc.lookup.RecentRepos(ctx, username)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, service.ErrNoRepoProfile) {
			uc.logger.Debug("GitHub lookup failed", zap.String("github_username", username), zap.Error(err))
		} else {
			uc.logger.Error("GitHub lookup failed", err, zap.String("github_username", username))
		}
		return nil, apperror.NewUpstream("No Github profile found", username, err)
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, username, repos, uc.cacheTTL); err != nil {
			uc.logger.Warn("Repo cache write failed", zap.String("github_username", username), zap.Error(err))
		}
	}
	return repos, nil
}
