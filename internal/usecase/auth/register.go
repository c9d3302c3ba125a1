package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/account"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/authz"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/logging"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
	"github.com/BruksfildServices01/studio-scheduler/internal/validators"
)

const minPasswordLength = 6

// Session é a resposta de register/login.
type Session struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// DomainChecker verifica se o domínio do e-mail existe (DNS).
type DomainChecker func(ctx context.Context, email string) bool

type Register struct {
	users       account.Repository
	tokens      *Tokens
	audit       *audit.Dispatcher
	checkDomain DomainChecker
	cost        int
}

// NewRegister: checkDomain nil desliga a verificação de DNS.
func NewRegister(
	users account.Repository,
	tokens *Tokens,
	audit *audit.Dispatcher,
	checkDomain DomainChecker,
) *Register {
	return &Register{
		users:       users,
		tokens:      tokens,
		audit:       audit,
		checkDomain: checkDomain,
		cost:        bcrypt.DefaultCost,
	}
}

func (uc *Register) Execute(ctx context.Context, in RegisterInput) (*Session, error) {
	email := validators.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)

	fields := map[string][]string{}
	if name == "" {
		fields["name"] = append(fields["name"], "is required")
	}
	if !validators.IsEmailSyntaxValid(email) {
		fields["email"] = append(fields["email"], "is not a valid e-mail address")
	}
	if len(in.Password) < minPasswordLength {
		fields["password"] = append(fields["password"], "must have at least 6 characters")
	}
	if len(fields) > 0 {
		return nil, httperr.ErrValidationFields("Some registration fields are invalid.", fields)
	}

	if uc.checkDomain != nil && !uc.checkDomain(ctx, email) {
		return nil, httperr.ErrValidation(
			"invalid_email_domain",
			"The e-mail domain does not seem to exist.",
		)
	}

	user, err := uc.createUser(ctx, name, email, in.Password, authz.RoleMember)
	if err != nil {
		return nil, err
	}

	token, claims, err := uc.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(ctx, audit.Event{
		UserID:   &user.ID,
		Action:   "user_registered",
		Entity:   "user",
		EntityID: &user.ID,
	})

	return &Session{User: user, Token: token, ExpiresAt: claims.ExpiresAt}, nil
}

// EnsureAdmin cria a conta admin inicial se o e-mail ainda não existe.
func (uc *Register) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	email = validators.NormalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}

	existing, err := uc.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != string(authz.RoleAdmin) {
			logging.FromContext(ctx).Warn("bootstrap admin e-mail belongs to a member account", "email", email)
		}
		return false, nil
	case !errors.Is(err, domain.ErrNotFound):
		return false, err
	}

	if name == "" {
		name = "Admin"
	}
	if _, err := uc.createUser(ctx, name, email, password, authz.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}

func (uc *Register) createUser(
	ctx context.Context,
	name, email, password string,
	role authz.Role,
) (*models.User, error) {

	if _, err := uc.users.GetUserByEmail(ctx, email); err == nil {
		return nil, emailTaken()
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), uc.cost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         string(role),
	}
	if err := uc.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func emailTaken() error {
	return httperr.ErrConflict(
		"email_taken",
		"An account with this e-mail already exists.",
		nil,
	)
}
