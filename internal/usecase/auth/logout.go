package auth

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/account"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/authz"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type Logout struct {
	denylist account.Denylist
	audit    *audit.Dispatcher
	now      func() time.Time
}

func NewLogout(denylist account.Denylist, audit *audit.Dispatcher) *Logout {
	return &Logout{denylist: denylist, audit: audit, now: time.Now}
}

// Execute revoga o jti só pelo tempo que falta para o token expirar.
func (uc *Logout) Execute(ctx context.Context, claims Claims) error {
	ttl := claims.ExpiresAt.Sub(uc.now())
	if err := uc.denylist.Revoke(ctx, claims.JTI, ttl); err != nil {
		return err
	}

	uc.audit.Dispatch(ctx, audit.Event{
		UserID:   &claims.UserID,
		Action:   "user_logged_out",
		Entity:   "user",
		EntityID: &claims.UserID,
	})
	return nil
}

type Me struct {
	users account.Repository
}

func NewMe(users account.Repository) *Me {
	return &Me{users: users}
}

func (uc *Me) Execute(ctx context.Context, actor authz.Actor) (*models.User, error) {
	if err := authz.RequireMember(actor); err != nil {
		return nil, err
	}

	user, err := uc.users.GetUserByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrNotFound("user_not_found", "The account for this session no longer exists.")
		}
		return nil, err
	}
	return user, nil
}
