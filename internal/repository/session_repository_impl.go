package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cabinet-portal/internal/domain/entity"
	domainRepo "cabinet-portal/internal/domain/repository"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const scanBatchSize = 100

type sessionRepository struct {
	redisClient *redis.Client
}

func NewSessionRepository(redisClient *redis.Client) domainRepo.SessionRepository {
	return &sessionRepository{redisClient: redisClient}
}

func sessionKey(userID, tokenID string) string {
	return fmt.Sprintf("session:%s:%s", userID, tokenID)
}

func refreshKey(userID, tokenID string) string {
	return fmt.Sprintf("refresh_token:%s:%s", userID, tokenID)
}

func (r *sessionRepository) Save(ctx context.Context, session *entity.Session, ttl time.Duration) error {
	return r.set(ctx, sessionKey(session.User.ID, session.TokenID), session, ttl)
}

// Find returns nil, nil when the session expired or was revoked.
func (r *sessionRepository) Find(ctx context.Context, userID, tokenID string) (*entity.Session, error) {
	return r.get(ctx, sessionKey(userID, tokenID))
}

func (r *sessionRepository) set(ctx context.Context, key string, session *entity.Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.redisClient.Set(ctx, key, payload, ttl).Err()
}

func (r *sessionRepository) get(ctx context.Context, key string) (*entity.Session, error) {
	payload, err := r.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var session entity.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Delete(ctx context.Context, userID, tokenID string) error {
	return r.redisClient.Del(ctx, sessionKey(userID, tokenID)).Err()
}

func (r *sessionRepository) SaveRefreshToken(ctx context.Context, session *entity.Session, ttl time.Duration) error {
	return r.set(ctx, refreshKey(session.User.ID, session.TokenID), session, ttl)
}

// FindRefreshToken returns nil, nil when the refresh token was used, revoked or expired.
func (r *sessionRepository) FindRefreshToken(ctx context.Context, userID, tokenID string) (*entity.Session, error) {
	return r.get(ctx, refreshKey(userID, tokenID))
}

func (r *sessionRepository) DeleteRefreshToken(ctx context.Context, userID, tokenID string) error {
	return r.redisClient.Del(ctx, refreshKey(userID, tokenID)).Err()
}

// DeleteAllForUser revokes every session and refresh token of userID.
func (r *sessionRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	for _, pattern := range []string{sessionKey(userID, "*"), refreshKey(userID, "*")} {
		var cursor uint64
		for {
			keys, next, err := r.redisClient.Scan(ctx, cursor, pattern, scanBatchSize).Result()
			if err != nil {
				return err
			}
			if len(keys) > 0 {
				if err := r.redisClient.Del(ctx, keys...).Err(); err != nil {
					return err
				}
			}
			cursor = next
			if cursor == 0 {
				break
			}
		}
	}
	return nil
}
