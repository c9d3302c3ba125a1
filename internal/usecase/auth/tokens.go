package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/account"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/authz"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

// ===============================
// Claims
// ===============================

type Claims struct {
	UserID    uint
	Role      authz.Role
	JTI       string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (c Claims) Actor() authz.Actor {
	return authz.Actor{UserID: c.UserID, Role: c.Role}
}

// ===============================
// Tokens (HS256)
// ===============================

type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (t *Tokens) Issue(user *models.User) (string, Claims, error) {
	role, ok := authz.ParseRole(user.Role)
	if !ok {
		role = authz.RoleMember
	}

	now := t.now()
	claims := Claims{
		UserID:    user.ID,
		Role:      role,
		JTI:       uuid.NewString(),
		IssuedAt:  now,
		ExpiresAt: now.Add(t.ttl),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  claims.UserID,
		"role": string(claims.Role),
		"jti":  claims.JTI,
		"exp":  claims.ExpiresAt.Unix(),
		"iat":  claims.IssuedAt.Unix(),
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", Claims{}, err
	}
	return signed, claims, nil
}

var errInvalidToken = httperr.ErrUnauthorized("invalid_token", "The session token is invalid or expired; please log in again.")

func (t *Tokens) Parse(raw string) (Claims, error) {
	token, err := jwt.Parse(
		raw,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return t.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return Claims{}, errInvalidToken
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errInvalidToken
	}

	sub, ok := mc["sub"].(float64)
	if !ok || sub <= 0 {
		return Claims{}, errInvalidToken
	}
	roleStr, _ := mc["role"].(string)
	role, ok := authz.ParseRole(roleStr)
	if !ok {
		return Claims{}, errInvalidToken
	}
	jti, _ := mc["jti"].(string)
	if jti == "" {
		return Claims{}, errInvalidToken
	}

	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return Claims{}, errInvalidToken
	}
	var iat time.Time
	if issued, err := mc.GetIssuedAt(); err == nil && issued != nil {
		iat = issued.Time
	}

	return Claims{
		UserID:    uint(sub),
		Role:      role,
		JTI:       jti,
		IssuedAt:  iat,
		ExpiresAt: exp.Time,
	}, nil
}

// ===============================
// Authenticate
// ===============================

// Authenticate valida o token e recusa jti revogados.
type Authenticate struct {
	tokens   *Tokens
	denylist account.Denylist
}

func NewAuthenticate(tokens *Tokens, denylist account.Denylist) *Authenticate {
	return &Authenticate{tokens: tokens, denylist: denylist}
}

func (uc *Authenticate) Execute(ctx context.Context, raw string) (Claims, error) {
	claims, err := uc.tokens.Parse(raw)
	if err != nil {
		return Claims{}, err
	}

	revoked, err := uc.denylist.IsRevoked(ctx, claims.JTI)
	if err != nil {
		return Claims{}, err
	}
	if revoked {
		return Claims{}, httperr.ErrUnauthorized("token_revoked", "This session was logged out; please log in again.")
	}

	return claims, nil
}
