package service

import (
	"context"
	"log"
	"time"

	"github.com/campusops/tigerpatrol/internal/auth"
	apperrors "github.com/campusops/tigerpatrol/internal/errors"
	"github.com/campusops/tigerpatrol/internal/models"
	"github.com/campusops/tigerpatrol/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, username, password, role string) (*models.Account, error)
	Login(ctx context.Context, username, password, role string) (*models.TokenResponse, error)
	EnsureAdmin(ctx context.Context, username, password string) error
}

type authService struct {
	accountRepo repository.AccountRepository
	signingKey  string
	issuer      string
	tokenTTL    time.Duration
}

func NewAuthService(accountRepo repository.AccountRepository, signingKey, issuer string, tokenTTL time.Duration) AuthService {
	return &authService{
		accountRepo: accountRepo,
		signingKey:  signingKey,
		issuer:      issuer,
		tokenTTL:    tokenTTL,
	}
}

// dummyHash is compared against when the username is unknown, so a login
// probe cannot tell a missing account from a wrong password by timing.
var dummyHash = func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("tigerpatrol-dummy"), bcrypt.DefaultCost)
	return h
}()

func (s *authService) Register(ctx context.Context, username, password, role string) (*models.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		Username:     username,
		Role:         role,
		PasswordHash: string(hash),
	}

	// Uniqueness is enforced by the insert itself; no read-then-write race.
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *authService) Login(ctx context.Context, username, password, role string) (*models.TokenResponse, error) {
	if role == "" {
		role = models.RoleOfficer
	}

	account, err := s.accountRepo.GetByUsername(ctx, username, role)
	if err != nil {
		return nil, err
	}
	if account == nil {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresAt, err := auth.Issue(account.Username, account.Role, s.issuer, s.signingKey, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	return &models.TokenResponse{
		Token:     token,
		Role:      account.Role,
		ExpiresAt: expiresAt,
	}, nil
}

// EnsureAdmin provisions the bootstrap admin account from config at startup.
// An already existing admin is fine; an empty password means skip.
func (s *authService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		log.Println("no bootstrap admin configured, skipping")
		return nil
	}

	_, err := s.Register(ctx, username, password, models.RoleAdmin)
	if err == apperrors.ErrDuplicateUsername {
		return nil
	}
	return err
}
