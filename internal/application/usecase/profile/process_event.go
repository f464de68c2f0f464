package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/internal/application/service"
	"github.com/khoahotran/devconnect/pkg/logger"
)

// ProcessProfileEventUseCase runs in the worker. Upserts warm the GitHub repo cache;
// account deletions evict it and destroy the uploaded avatar.
type ProcessProfileEventUseCase struct {
	lookup   service.RepoLookup
	cache    service.RepoCache
	uploader service.Uploader
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewProcessProfileEventUseCase(lookup service.RepoLookup, cache service.RepoCache, uploader service.Uploader, cacheTTL time.Duration, log logger.Logger) *ProcessProfileEventUseCase {
	return &ProcessProfileEventUseCase{
		lookup:   lookup,
		cache:    cache,
		uploader: uploader,
		cacheTTL: cacheTTL,
		logger:   log,
	}
}

func (uc *ProcessProfileEventUseCase) Execute(ctx context.Context, evt service.ProfileEvent) error {
	ctx, span := tracer.Start(ctx, "ProcessProfileEvent")
	defer span.End()

	switch evt.EventType {
	case service.ProfileEventUpserted:
		return uc.warmRepos(ctx, evt)
	case service.ProfileEventAccountDeleted:
		return uc.cleanup(ctx, evt)
	default:
		uc.logger.Warn("Ignoring unknown profile event", zap.String("event_type", string(evt.EventType)))
		return nil
	}
}

func (uc *ProcessProfileEventUseCase) warmRepos(ctx context.Context, evt service.ProfileEvent) error {
	if evt.GitHubUsername == "" {
		return nil
	}

	repos, err := uc.lookup.RecentRepos(ctx, evt.GitHubUsername)
	if err != nil {
		// The account may simply not exist on GitHub; the API answers 404 on demand.
		if errors.Is(err, service.ErrNoRepoProfile) {
			uc.logger.Debug("No repos to warm", zap.String("github_username", evt.GitHubUsername))
			return nil
		}
		return fmt.Errorf("lookup repos: %w", err)
	}

	if err := uc.cache.Set(ctx, evt.GitHubUsername, repos, uc.cacheTTL); err != nil {
		return fmt.Errorf("cache repos: %w", err)
	}
	return nil
}

func (uc *ProcessProfileEventUseCase) cleanup(ctx context.Context, evt service.ProfileEvent) error {
	if evt.GitHubUsername != "" {
		if err := uc.cache.Delete(ctx, evt.GitHubUsername); err != nil {
			return fmt.Errorf("evict repos: %w", err)
		}
	}
	if evt.AvatarPublicID != "" && uc.uploader != nil {
		if err := uc.uploader.Delete(ctx, evt.AvatarPublicID); err != nil {
			return fmt.Errorf("delete avatar: %w", err)
		}
	}
	return nil
}
