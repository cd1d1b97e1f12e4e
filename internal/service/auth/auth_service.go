package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookoro/internal/domain"
	"bookoro/internal/kafka"
	"bookoro/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthUseCase interface {
	Signup(ctx context.Context, input SignupInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, userID, refreshToken string) (*TokenPair, error)
	VerifyEmail(ctx context.Context, email, code string) error
	Profile(ctx context.Context, userID string) (*domain.User, error)
}

// OTPStore keeps one-time verification codes with a TTL; a code is
// consumable at most once.
type OTPStore interface {
	SetOTP(ctx context.Context, email, code string, ttl time.Duration) error
	VerifyOTP(ctx context.Context, email, code string) (bool, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type SignupInput struct {
	Email    string
	Name     string
	Password string
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthResult struct {
	TokenPair
	User *domain.User `json:"user"`
}

type AuthService struct {
	users              repository.UserRepository
	otp                OTPStore
	tokens             *TokenManager
	producer           Producer
	notificationsTopic string
	otpLength          int
	otpTTL             time.Duration
	logger             *zap.Logger
}

func NewAuthService(
	users repository.UserRepository,
	otp OTPStore,
	tokens *TokenManager,
	producer Producer,
	notificationsTopic string,
	otpLength int,
	otpTTL time.Duration,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:              users,
		otp:                otp,
		tokens:             tokens,
		producer:           producer,
		notificationsTopic: notificationsTopic,
		otpLength:          otpLength,
		otpTTL:             otpTTL,
		logger:             logger,
	}
}

// Signup registers the user, issues a verification code and logs them in.
// The verification email is best-effort; a delivery failure leaves the
// account usable and unverified.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Name == "" {
		return nil, fmt.Errorf("%w: email and name are required", domain.ErrInvalidInput)
	}
	if len(input.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         input.Name,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.issueOTP(ctx, user); err != nil {
		s.logger.Warn("failed to issue verification code", zap.String("email", email), zap.Error(err))
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{TokenPair: *pair, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{TokenPair: *pair, User: user}, nil
}

// Refresh validates the presented refresh token against the stored hash and
// rotates the pair.
func (s *AuthService) Refresh(ctx context.Context, userID, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.Parse(refreshToken)
	if err != nil || claims.Subject != userID {
		return nil, domain.ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidRefreshToken
		}
		return nil, err
	}
	if user.RefreshTokenHash == "" {
		return nil, domain.ErrInvalidRefreshToken
	}
	presented := HashToken(refreshToken)
	if subtle.ConstantTimeCompare([]byte(presented), []byte(user.RefreshTokenHash)) != 1 {
		return nil, domain.ErrInvalidRefreshToken
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	ok, err := s.otp.VerifyOTP(ctx, email, code)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidOTP
	}
	return s.users.SetVerified(ctx, email)
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (*TokenPair, error) {
	access, err := s.tokens.GenerateAccess(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.GenerateRefresh(user)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateRefreshTokenHash(ctx, user.ID, HashToken(refresh)); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) issueOTP(ctx context.Context, user *domain.User) error {
	code, err := GenerateOTP(s.otpLength)
	if err != nil {
		return err
	}
	if err := s.otp.SetOTP(ctx, user.Email, code, s.otpTTL); err != nil {
		return err
	}

	if s.producer == nil || s.notificationsTopic == "" {
		return nil
	}
	event := kafka.NotificationEvent{
		Type:  kafka.EventOTPIssued,
		Email: user.Email,
		Name:  user.Name,
		OTP:   code,
	}
	return s.producer.Publish(ctx, s.notificationsTopic, user.Email, event)
}

var _ AuthUseCase = (*AuthService)(nil)
