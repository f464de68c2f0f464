package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ProfileEventType string

const (
	ProfileEventUpserted       ProfileEventType = "profile.upserted"
	ProfileEventAccountDeleted ProfileEventType = "account.deleted"
)

type ProfileEvent struct {
	EventType      ProfileEventType `json:"event_type"`
	UserID         uuid.UUID        `json:"user_id"`
	GitHubUsername string           `json:"github_username,omitempty"`
	AvatarPublicID string           `json:"avatar_public_id,omitempty"`
	OccurredAt     time.Time        `json:"occurred_at"`
}

type EventPublisher interface {
	PublishProfileEvent(ctx context.Context, event ProfileEvent) error
}
