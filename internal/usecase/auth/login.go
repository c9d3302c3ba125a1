package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/account"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/validators"
)

type Login struct {
	users  account.Repository
	tokens *Tokens
	audit  *audit.Dispatcher
}

func NewLogin(users account.Repository, tokens *Tokens, audit *audit.Dispatcher) *Login {
	return &Login{users: users, tokens: tokens, audit: audit}
}

// Execute não diz se o e-mail existe: qualquer falha é invalid_credentials.
func (uc *Login) Execute(ctx context.Context, email, password string) (*Session, error) {
	invalid := httperr.ErrUnauthorized("invalid_credentials", "E-mail or password is incorrect.")

	user, err := uc.users.GetUserByEmail(ctx, validators.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, invalid
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, invalid
	}

	token, claims, err := uc.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(ctx, audit.Event{
		UserID:   &user.ID,
		Action:   "user_logged_in",
		Entity:   "user",
		EntityID: &user.ID,
	})

	return &Session{User: user, Token: token, ExpiresAt: claims.ExpiresAt}, nil
}
