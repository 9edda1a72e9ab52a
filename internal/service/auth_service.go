package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"frutolandia/internal/auth"
	"frutolandia/internal/domain"
	"frutolandia/internal/repository"
)

// AuthResult is returned by login and registration.
type AuthResult struct {
	Token string
	User  *domain.User
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthService verifies credentials and issues and checks bearer tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	// Verify validates token and returns the identity it was issued to.
	Verify(ctx context.Context, token string) (*domain.User, error)
	// Authenticate validates token and confirms its subject still exists.
	// The role claim is returned as issued and is not re-read from storage.
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

type authService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
	logger logrus.FieldLogger
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenService, logger logrus.FieldLogger) AuthService {
	if logger == nil {
		logger = logrus.New()
	}
	return &authService{
		users:  users,
		tokens: tokens,
		logger: logger.WithField("component", "auth"),
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, internalError("login lookup", err)
		}
		// burn a hash comparison so unknown emails cost the same as bad passwords
		_ = auth.CheckPassword("", password)
		s.logger.WithField("email", email).Info("login rejected")
		return nil, ErrInvalidCredentials
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.WithField("email", email).Info("login rejected")
			return nil, ErrInvalidCredentials
		}
		return nil, internalError("login compare", err)
	}

	return s.issue(user)
}

// Register creates a USER account. The existence check only produces a clean
// error in the common case; the UNIQUE(email) constraint decides races.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	user, password, err := newIdentity(in.Name, in.Email, in.Password, domain.RoleUser)
	if err != nil {
		return nil, err
	}

	taken, err := s.users.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, internalError("register lookup", err)
	}
	if taken {
		return nil, ErrDuplicateEmail
	}

	if user.PasswordHash, err = auth.HashPassword(password); err != nil {
		return nil, internalError("register", err)
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateEmail
		}
		return nil, internalError("register insert", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("user registered")
	return s.issue(user)
}

func (s *authService) Verify(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByEmail(ctx, claims.Email())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, internalError("verify lookup", err)
	}
	return sanitizeUser(user), nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	found, err := s.users.ExistsByEmail(ctx, claims.Email())
	if err != nil {
		return nil, internalError("authenticate lookup", err)
	}
	if !found {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *authService) issue(user *domain.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, internalError("issue token", err)
	}
	return &AuthResult{Token: token, User: sanitizeUser(user)}, nil
}
