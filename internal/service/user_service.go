package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"budong-api/internal/domain"
	"budong-api/internal/repository"
)

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned when registering with an email already in use.
	ErrEmailTaken = errors.New("email already registered")
	// ErrNicknameTaken is returned when registering with a nickname already in use.
	ErrNicknameTaken = errors.New("nickname already taken")
	// ErrInvalidInput wraps request validation failures.
	ErrInvalidInput = errors.New("invalid input")
)

// validate applies the same rules as the HTTP binding tags.
var validate = validator.New()

const (
	minPasswordBytes = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72
)

// PasswordHasher is satisfied by *auth.Hasher.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// UserService describes user lifecycle operations.
type UserService interface {
	Register(ctx context.Context, email, password, nickname string) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	ChangePassword(ctx context.Context, id int64, current, next string) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type userService struct {
	users  repository.UserRepository
	hasher PasswordHasher
	// compared against when the email is unknown so both paths do bcrypt work
	dummyHash string
}

func NewUserService(users repository.UserRepository, hasher PasswordHasher) (UserService, error) {
	dummy, err := hasher.Hash("budong-placeholder-password")
	if err != nil {
		return nil, fmt.Errorf("prepare placeholder hash: %w", err)
	}
	return &userService{
		users:     users,
		hasher:    hasher,
		dummyHash: dummy,
	}, nil
}

func (s *userService) Register(ctx context.Context, email, password, nickname string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	nickname = strings.TrimSpace(nickname)

	if err := validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("%w: email is malformed", ErrInvalidInput)
	}
	if nickname == "" {
		return nil, fmt.Errorf("%w: nickname is required", ErrInvalidInput)
	}
	if err := checkPassword(password); err != nil {
		return nil, err
	}

	if err := s.ensureAvailable(ctx, email, nickname); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		Nickname:     nickname,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// lost a race with a concurrent registration
			if err := s.ensureAvailable(ctx, email, nickname); err != nil {
				return nil, err
			}
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

func (s *userService) ensureAvailable(ctx context.Context, email, nickname string) error {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if _, err := s.users.GetByNickname(ctx, nickname); err == nil {
		return ErrNicknameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return sanitizeUser(user), nil
}

func (s *userService) ChangePassword(ctx context.Context, id int64, current, next string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	// the caller is already authenticated; a wrong current password is a
	// bad request, not a dead session
	if !s.hasher.Verify(current, user.PasswordHash) {
		return fmt.Errorf("%w: current password is incorrect", ErrInvalidInput)
	}
	if err := checkPassword(next); err != nil {
		return err
	}
	if current == next {
		return fmt.Errorf("%w: new password must differ from the current one", ErrInvalidInput)
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, id, hash)
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func checkPassword(password string) error {
	if len(password) < minPasswordBytes {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordBytes)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, maxPasswordBytes)
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
		Nickname:  user.Nickname,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
