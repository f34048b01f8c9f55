package usecase

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pmholt/budgeteer/internal/domain"
	"github.com/pmholt/budgeteer/internal/infrastructure/metrics"
)

// UserUseCase handles registration and login.
type UserUseCase struct {
	userRepo UserRepository
	idGen    IDGenerator
	tokens   TokenGenerator
	clock    Clock
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(userRepo UserRepository, idGen IDGenerator, tokens TokenGenerator, clock Clock) *UserUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &UserUseCase{
		userRepo: userRepo,
		idGen:    idGen,
		tokens:   tokens,
		clock:    clock,
	}
}

// Register creates a user with a bcrypt-hashed password and returns it along
// with a fresh auth token.
func (uc *UserUseCase) Register(ctx context.Context, username, password string) (*domain.User, string, error) {
	if err := domain.ValidateUsername(username); err != nil {
		return nil, "", err
	}
	if err := domain.ValidatePassword(password); err != nil {
		return nil, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	now := uc.clock().UTC()
	user := &domain.User{
		ID:             uc.idGen.Generate(),
		Username:       username,
		HashedPassword: string(hashed),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := uc.tokens.Generate(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login checks the credentials and returns the user with a fresh auth token.
// Unknown usernames and wrong passwords both come back as
// domain.ErrInvalidCredentials so callers cannot probe for registered names.
func (uc *UserUseCase) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthAttempts.WithLabelValues("failure").Inc()
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := uc.tokens.Generate(user)
	if err != nil {
		return nil, "", err
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()

	return user, token, nil
}
