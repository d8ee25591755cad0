package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"

	"github.com/campuskit/school-service/internal/cache"
	"github.com/campuskit/school-service/internal/config"
	"github.com/campuskit/school-service/internal/models"
	"github.com/campuskit/school-service/internal/repositories"
)

// CasdoorResolver accepts tokens issued by a Casdoor deployment. The
// provider authenticates the bearer; authorization still comes from the
// internal user record, matched by email. An email with no internal record
// is a valid login to the provider but not a provisioned identity here.
type CasdoorResolver struct {
	client *casdoorsdk.Client
	users  repositories.UserRepository
	cache  *cache.Cache
}

func NewCasdoorResolver(cfg config.CasdoorConfig, users repositories.UserRepository, userCache *cache.Cache) *CasdoorResolver {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Cert,
		cfg.Organization,
		cfg.Application,
	)
	return &CasdoorResolver{client: client, users: users, cache: userCache}
}

func (r *CasdoorResolver) Resolve(ctx context.Context, token string) (*Identity, error) {
	claims, err := r.client.ParseJwtToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	email := claims.User.Email
	if email == "" {
		return nil, fmt.Errorf("%w: token carries no email", ErrInvalidToken)
	}

	identity, err := resolveStoredUser(ctx, r.users, r.cache, "email:"+email, func() (*models.User, error) {
		return r.users.GetByEmail(ctx, email)
	})
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return nil, fmt.Errorf("%w: no identity for %s", ErrIdentityNotProvisioned, email)
		}
		return nil, err
	}
	return identity, nil
}
