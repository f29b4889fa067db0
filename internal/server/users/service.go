// Package users manages the operators who may edit the site and issues their
// session tokens.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/yardcms/internal/common"
	"github.com/dmitrijs2005/yardcms/internal/server/auth"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// dummyHash is compared against when the user does not exist so unknown
// names take as long as wrong passwords.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("yardcms-dummy-password"), bcrypt.DefaultCost)

type Service struct {
	repo            Repository
	jwtSecret       []byte
	sessionValidity time.Duration
}

func NewService(repo Repository, secretKey string, sessionValidity time.Duration) *Service {
	return &Service{
		repo:            repo,
		jwtSecret:       []byte(secretKey),
		sessionValidity: sessionValidity,
	}
}

// SessionValidity is how long issued tokens stay valid.
func (s *Service) SessionValidity() time.Duration {
	return s.sessionValidity
}

// Register creates a user with a bcrypt hash of password.
func (s *Service) Register(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, common.NewValidationError("username is required")
	}
	if strings.ContainsAny(username, ": \t") {
		return nil, common.NewValidationError("username must not contain spaces or colons")
	}
	if len(password) < minPasswordLength {
		return nil, common.NewValidationError(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{Username: username, HashedPassword: string(hash)}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the credentials and returns a signed session token. Unknown
// users and wrong passwords both yield common.ErrUnauthorized.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", common.NewValidationError("username and password are required")
	}

	user, err := s.repo.GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return "", common.ErrUnauthorized
		}
		return "", fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return "", common.ErrUnauthorized
	}

	token, err := auth.GenerateToken(user.Username, s.jwtSecret, s.sessionValidity)
	if err != nil {
		return "", err
	}
	return token, nil
}
