package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wadjakorntonsri/go-biolink/pkg/core/domain"
	"github.com/wadjakorntonsri/go-biolink/pkg/ports"
)

// ErrInvalidCredentials maps to 401; it deliberately does not say whether
// the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

var reDerivedUsername = regexp.MustCompile(`[^a-z0-9_]`)

type AuthService struct {
	accounts ports.AccountRepository
	profiles ports.ProfileRepository
}

func NewAuthService(accounts ports.AccountRepository, profiles ports.ProfileRepository) *AuthService {
	return &AuthService{accounts: accounts, profiles: profiles}
}

// Register creates the account and its profile row in one request. The
// profile shares the account's id.
func (s *AuthService) Register(ctx context.Context, email, password, username string) (*domain.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, &domain.ValidationError{Reason: "a valid email is required"}
	}
	if len(password) < 8 {
		return nil, &domain.ValidationError{Reason: "password must be at least 8 characters"}
	}
	if !reUsername.MatchString(username) {
		return nil, &domain.ValidationError{Reason: "username may only contain letters, numbers and underscores"}
	}
	username = strings.ToLower(username)

	existing, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "check email", Err: err}
	}
	if existing != nil {
		return nil, domain.ErrConflict
	}
	taken, err := s.profiles.GetProfileByUsername(ctx, username)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "check username", Err: err}
	}
	if taken != nil {
		return nil, domain.ErrConflict
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		if err == domain.ErrConflict {
			return nil, domain.ErrConflict
		}
		return nil, &domain.PersistenceError{Op: "create account", Err: err}
	}

	profile := &domain.Profile{
		ID:        account.ID,
		Username:  username,
		UpdatedAt: account.CreatedAt,
	}
	if err := s.profiles.CreateProfile(ctx, profile); err != nil {
		if err == domain.ErrConflict {
			return nil, domain.ErrConflict
		}
		return nil, &domain.PersistenceError{Op: "create profile", Err: err}
	}
	return profile, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get account", Err: err}
	}
	if account == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

// EnsureAccount backs the Google sign-in callback: the email is already
// verified by the provider, so the first sign-in provisions an account with
// no usable password plus a profile under a derived username.
func (s *AuthService) EnsureAccount(ctx context.Context, email, fullName string) (*domain.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, &domain.ValidationError{Reason: "a valid email is required"}
	}

	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get account", Err: err}
	}
	if account != nil {
		return account, nil
	}

	username, err := s.deriveUsername(ctx, email)
	if err != nil {
		return nil, err
	}

	account = &domain.Account{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: time.Now(),
	}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		return nil, &domain.PersistenceError{Op: "create account", Err: err}
	}

	profile := &domain.Profile{
		ID:        account.ID,
		Username:  username,
		FullName:  fullName,
		UpdatedAt: account.CreatedAt,
	}
	if err := s.profiles.CreateProfile(ctx, profile); err != nil {
		return nil, &domain.PersistenceError{Op: "create profile", Err: err}
	}
	return account, nil
}

// deriveUsername sanitizes the email local part and probes numeric
// suffixes until a free username turns up.
func (s *AuthService) deriveUsername(ctx context.Context, email string) (string, error) {
	base, _, _ := strings.Cut(email, "@")
	base = reDerivedUsername.ReplaceAllString(strings.ToLower(base), "")
	if base == "" {
		base = "user"
	}

	candidate := base
	for i := 1; ; i++ {
		existing, err := s.profiles.GetProfileByUsername(ctx, candidate)
		if err != nil {
			return "", &domain.PersistenceError{Op: "check username", Err: err}
		}
		if existing == nil {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
}
