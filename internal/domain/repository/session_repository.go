package repository

import (
	"context"
	"time"

	"cabinet-portal/internal/domain/entity"
)

// SessionRepository persists logged-in identities between requests.
type SessionRepository interface {
	Save(ctx context.Context, session *entity.Session, ttl time.Duration) error
	Find(ctx context.Context, userID, tokenID string) (*entity.Session, error)
	Delete(ctx context.Context, userID, tokenID string) error
	// SaveRefreshToken keeps the identity under the refresh token id so it can be rotated
	// after the access session expired.
	SaveRefreshToken(ctx context.Context, session *entity.Session, ttl time.Duration) error
	FindRefreshToken(ctx context.Context, userID, tokenID string) (*entity.Session, error)
	DeleteRefreshToken(ctx context.Context, userID, tokenID string) error
	DeleteAllForUser(ctx context.Context, userID string) error
}
