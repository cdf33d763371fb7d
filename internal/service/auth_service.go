package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"earnhub/internal/domain"
	"earnhub/internal/logger"
	"earnhub/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

const maxCodeAttempts = 5

// AuthService handles registration and login. Registration is the entry
// point of the referral chain builder: a supplied referral code links the
// new user to an upline, but a bad or unknown code never fails the
// registration itself.
type AuthService struct {
	users     *repository.UserRepository
	referrals *ReferralService
}

func NewAuthService(db *pgxpool.Pool, referrals *ReferralService) *AuthService {
	return &AuthService{
		users:     repository.NewUserRepository(db),
		referrals: referrals,
	}
}

type RegisterInput struct {
	Name         string `json:"name"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Whatsapp     string `json:"whatsapp"`
	Password     string `json:"password"`
	ReferralCode string `json:"referral_code"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if in.Name == "" || in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: name, username, email and password are required", ErrValidation)
	}
	if !usernameRe.MatchString(in.Username) {
		return nil, fmt.Errorf("%w: username can only contain letters, numbers, and underscores", ErrValidation)
	}
	if len(in.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         in.Name,
		Username:     strings.ToLower(in.Username),
		Email:        strings.ToLower(in.Email),
		Whatsapp:     in.Whatsapp,
		PasswordHash: string(hash),
	}

	// retry the insert on referral code collisions only
	for attempt := 0; ; attempt++ {
		user.ReferralCode = repository.GenerateReferralCode(in.Username)
		err = s.users.Create(ctx, user)
		if err == nil {
			break
		}
		if repository.IsUniqueViolation(err) {
			taken, checkErr := s.users.ReferralCodeExists(ctx, user.ReferralCode)
			if checkErr == nil && taken && attempt < maxCodeAttempts {
				continue
			}
			return nil, fmt.Errorf("%w: username or email already exists", ErrConflict)
		}
		return nil, err
	}

	if code := strings.TrimSpace(in.ReferralCode); code != "" {
		// best-effort: registration already succeeded
		if _, err := s.referrals.AttachReferral(ctx, user.ID, code); err != nil {
			logger.Error("register: referral attach failed",
				"user_id", user.ID, "code", code, "error", err)
		}
	}

	return s.users.GetByID(ctx, user.ID)
}

// Login verifies credentials and issues a token. Blocked accounts cannot
// log in.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, fmt.Errorf("%w: invalid credentials", ErrValidation)
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, fmt.Errorf("%w: invalid credentials", ErrValidation)
	}
	if user.IsBlocked {
		return "", nil, fmt.Errorf("%w: account is blocked", ErrConflict)
	}

	token, err := GenerateJWT(user.ID, user.IsAdmin)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// SetUserBlocked flips a member's block flag. Blocking cuts off both
// future logins and requests carrying an already issued token.
func (s *AuthService) SetUserBlocked(ctx context.Context, id int64, blocked bool) error {
	found, err := s.users.SetBlocked(ctx, id, blocked)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: user not found", ErrNotFound)
	}
	return nil
}

func (s *AuthService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}
