package repository

import (
	"context"

	"cabinet-portal/internal/domain/entity"
)

// AuthRepository checks credentials against the backend.
type AuthRepository interface {
	Login(ctx context.Context, email, password string) (*entity.User, error)
	Register(ctx context.Context, user *entity.User, password string) (*entity.User, error)
}
