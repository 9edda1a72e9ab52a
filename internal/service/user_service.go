package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"frutolandia/internal/auth"
	"frutolandia/internal/domain"
	"frutolandia/internal/repository"
)

const (
	minPasswordLen = 6
	minNameLen     = 2
	maxNameLen     = 100
)

var validate = validator.New()

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// UpdateUserInput carries a partial update; nil fields are left unchanged.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *domain.Role
}

// UserService describes administrative user lifecycle operations.
type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id int64, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	// EnsureAdmin creates an ADMIN account for email unless one already
	// exists. It reports whether a new account was created.
	EnsureAdmin(ctx context.Context, name, email, password string) (bool, error)
}

type userService struct {
	users  repository.UserRepository
	logger logrus.FieldLogger
}

func NewUserService(users repository.UserRepository, logger logrus.FieldLogger) UserService {
	if logger == nil {
		logger = logrus.New()
	}
	return &userService{
		users:  users,
		logger: logger.WithField("component", "users"),
	}
}

func (s *userService) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	if in.Role == "" {
		in.Role = domain.RoleUser
	}
	user, password, err := newIdentity(in.Name, in.Email, in.Password, in.Role)
	if err != nil {
		return nil, err
	}

	taken, err := s.users.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, internalError("create user lookup", err)
	}
	if taken {
		return nil, ErrDuplicateEmail
	}

	if user.PasswordHash, err = auth.HashPassword(password); err != nil {
		return nil, internalError("create user", err)
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateEmail
		}
		return nil, internalError("create user insert", err)
	}
	return sanitizeUser(user), nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, userLookupError(err)
	}
	return sanitizeUser(user), nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, userLookupError(err)
	}
	return sanitizeUser(user), nil
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, internalError("list users", err)
	}
	out := make([]domain.User, len(users))
	for i := range users {
		out[i] = *sanitizeUser(&users[i])
	}
	return out, nil
}

func (s *userService) Update(ctx context.Context, id int64, in UpdateUserInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, userLookupError(err)
	}

	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		if email != user.Email {
			taken, err := s.users.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, internalError("update user lookup", err)
			}
			if taken {
				return nil, ErrDuplicateEmail
			}
			user.Email = email
		}
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		user.Name = name
	}
	if in.Password != nil {
		if len(*in.Password) < minPasswordLen {
			return nil, invalidInput("password must be at least %d characters", minPasswordLen)
		}
		if user.PasswordHash, err = auth.HashPassword(*in.Password); err != nil {
			return nil, internalError("update user", err)
		}
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, invalidInput("unknown role %q", *in.Role)
		}
		// tokens already issued keep their role claim until they expire
		user.Role = *in.Role
	}

	if err := s.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrDuplicateEmail
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, internalError("update user", err)
	}
	return sanitizeUser(user), nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	found, err := s.users.ExistsByID(ctx, id)
	if err != nil {
		return internalError("delete user lookup", err)
	}
	if !found {
		return ErrUserNotFound
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return internalError("delete user", err)
	}
	return nil
}

func (s *userService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	_, err := s.Create(ctx, CreateUserInput{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     domain.RoleAdmin,
	})
	if errors.Is(err, ErrDuplicateEmail) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.logger.WithField("email", email).Info("admin account created")
	return true, nil
}

func userLookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return internalError("user lookup", err)
}

// newIdentity validates registration fields and returns an unsaved user plus
// the plaintext password to hash.
func newIdentity(name, email, password string, role domain.Role) (*domain.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if err := validateName(name); err != nil {
		return nil, "", err
	}
	if err := validateEmail(email); err != nil {
		return nil, "", err
	}
	if len(password) < minPasswordLen {
		return nil, "", invalidInput("password must be at least %d characters", minPasswordLen)
	}
	if !role.Valid() {
		return nil, "", invalidInput("unknown role %q", role)
	}

	return &domain.User{
		Email: email,
		Name:  name,
		Role:  role,
	}, password, nil
}

func validateName(name string) error {
	if n := utf8.RuneCountInString(name); n < minNameLen || n > maxNameLen {
		return invalidInput("name must be between %d and %d characters", minNameLen, maxNameLen)
	}
	return nil
}

func validateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return invalidInput("a valid email is required")
	}
	return nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
