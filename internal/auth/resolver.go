package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/campuskit/school-service/internal/cache"
	"github.com/campuskit/school-service/internal/models"
	"github.com/campuskit/school-service/internal/repositories"
)

// Identity is the resolved principal attached to a request.
type Identity struct {
	ID   string          `json:"id"`
	Role models.UserRole `json:"role"`
}

// Resolver maps a bearer token to an Identity. Both implementations are
// store-authoritative: role and status come from the stored user record at
// resolution time, never from a token claim, so a revoked or demoted
// account loses access without waiting for token expiry.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*Identity, error)
}

// LocalResolver verifies self-issued tokens and re-reads the identity.
type LocalResolver struct {
	codec *Codec
	users repositories.UserRepository
	cache *cache.Cache
}

func NewLocalResolver(codec *Codec, users repositories.UserRepository, userCache *cache.Cache) *LocalResolver {
	return &LocalResolver{codec: codec, users: users, cache: userCache}
}

func (r *LocalResolver) Resolve(ctx context.Context, token string) (*Identity, error) {
	claims, err := r.codec.Verify(token)
	if err != nil {
		return nil, err
	}
	return resolveStoredUser(ctx, r.users, r.cache, "id:"+claims.Subject, func() (*models.User, error) {
		return r.users.GetByID(ctx, claims.Subject)
	})
}

// resolveStoredUser loads the user through the cache and enforces the
// status gate shared by both resolver modes.
func resolveStoredUser(ctx context.Context, users repositories.UserRepository, userCache *cache.Cache, cacheKey string, lookup func() (*models.User, error)) (*Identity, error) {
	var user models.User
	hit, _ := userCache.GetJSON(ctx, cacheKey, &user)
	if !hit {
		found, err := lookup()
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: unknown subject", ErrInvalidToken)
			}
			return nil, fmt.Errorf("resolve identity: %w", err)
		}
		user = *found
		// Best effort; a failed cache write only costs the next lookup.
		_ = userCache.SetJSON(ctx, cacheKey, &user)
	}

	if !user.IsActive() {
		return nil, ErrInactiveAccount
	}
	return &Identity{ID: user.ID, Role: user.Role}, nil
}
