package server

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Data-Integrities/DeathWatch-sub001/internal/config"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/db"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/types"
)

// DBClient is the slice of the database layer the user service needs.
// *db.DB satisfies it.
type DBClient interface {
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, name, email, phone string) (uuid.UUID, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	GetUser(ctx context.Context, userID uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
}

// UserService owns the account lifecycle: registration, credential checks,
// and password changes. Handlers translate its typed errors to HTTP.
type UserService struct {
	db             DBClient
	passwordConfig *config.PasswordConfig
}

// NewUserService creates a new UserService with the given dependencies.
func NewUserService(db DBClient, passwordConfig *config.PasswordConfig) *UserService {
	return &UserService{db: db, passwordConfig: passwordConfig}
}

// publicUser strips a db row down to the API shape. The password hash never
// crosses this boundary.
func publicUser(dbUser *db.User) *types.User {
	if dbUser == nil {
		return nil
	}
	return &types.User{
		ID:          dbUser.ID,
		Name:        dbUser.Name,
		Email:       dbUser.Email,
		Phone:       dbUser.Phone,
		PasswordSet: dbUser.PasswordSet,
		CreatedAt:   dbUser.CreatedAt,
		UpdatedAt:   dbUser.UpdatedAt,
	}
}

// Register creates an account. The email must not already be registered.
func (s *UserService) Register(ctx context.Context, req *types.CreateUserRequest) (*types.User, error) {
	taken, err := s.db.CheckEmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("checking email: %w", err)
	}
	if taken {
		return nil, &ErrEmailAlreadyExists{Email: req.Email}
	}

	hash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	// The row is created first and the credential attached second; the
	// PasswordSet flag only flips on the second step.
	userID, err := s.db.CreateUser(ctx, req.Name, req.Email, req.Phone)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	if err := s.db.UpdatePassword(ctx, userID, hash); err != nil {
		return nil, fmt.Errorf("setting password: %w", err)
	}

	created, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reading back user: %w", err)
	}
	if created == nil {
		return nil, fmt.Errorf("created user %s vanished", userID)
	}
	return publicUser(created), nil
}

// Login checks credentials and returns the account on success. Every
// failure, unknown email included, gets the same ErrInvalidCredentials so
// the endpoint never confirms which addresses are registered.
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	account, err := s.db.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("looking up email: %w", err)
	}

	switch {
	case account == nil:
		return nil, &ErrInvalidCredentials{}
	case !account.PasswordSet:
		return nil, &ErrInvalidCredentials{}
	case !s.passwordConfig.VerifyPassword(req.Password, account.PasswordHash):
		return nil, &ErrInvalidCredentials{}
	}

	return publicUser(account), nil
}

// UpdatePassword replaces the password after re-checking the current one.
func (s *UserService) UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	account, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("looking up user: %w", err)
	}
	if account == nil {
		return &ErrUserNotFound{UserID: userID}
	}

	if !s.passwordConfig.VerifyPassword(currentPassword, account.PasswordHash) {
		return &ErrPasswordMismatch{}
	}

	hash, err := s.passwordConfig.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hashing new password: %w", err)
	}
	if err := s.db.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("storing new password: %w", err)
	}
	return nil
}
