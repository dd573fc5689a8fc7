package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/forkcast/forkcast-backend/internal/cache"
	"github.com/forkcast/forkcast-backend/internal/config"
	"github.com/forkcast/forkcast-backend/internal/dto"
	"github.com/forkcast/forkcast-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrInvalidCode        = errors.New("invalid or expired code")
	ErrUserNotFound       = errors.New("user not found")
)

// CodeSender delivers verification and reset codes to the user's email.
type CodeSender interface {
	Send(ctx context.Context, email, subject, code string) error
}

// LogSender writes codes to the log instead of sending mail. Used until a
// mail provider is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, email, subject, code string) error {
	slog.Info("code issued", "email", email, "subject", subject, "code", code)
	return nil
}

type AuthService struct {
	db     *gorm.DB
	cfg    *config.Config
	codes  *cache.Codes
	sender CodeSender
}

func NewAuthService(db *gorm.DB, cfg *config.Config, codes *cache.Codes, sender CodeSender) *AuthService {
	if sender == nil {
		sender = LogSender{}
	}
	return &AuthService{db: db, cfg: cfg, codes: codes, sender: sender}
}

func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if len(req.Email) == 0 || len(req.Password) < 8 {
		return nil, errors.New("email required and password must be at least 8 characters")
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:          uuid.New(),
		Email:       req.Email,
		Password:    string(hash),
		DisplayName: req.DisplayName,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.generateTokenPair(&user)
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(&user)
}

func (s *AuthService) Refresh(req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	var stored models.RefreshToken
	if err := s.db.Where("token_hash = ? AND revoked = false", tokenHash).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}

	if time.Now().After(stored.ExpiresAt) {
		s.db.Model(&stored).Update("revoked", true)
		return nil, ErrInvalidToken
	}

	// Rotate: the presented token is spent whether or not minting succeeds.
	s.db.Model(&stored).Update("revoked", true)

	var user models.User
	if err := s.db.First(&user, "id = ?", stored.UserID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	return s.generateTokenPair(&user)
}

func (s *AuthService) Logout(req *dto.LogoutRequest) error {
	tokenHash := hashToken(req.RefreshToken)
	return s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

func (s *AuthService) DeleteAccount(userID uuid.UUID, password string) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return ErrUserNotFound
	}

	if password == "" {
		return errors.New("password is required")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{})
		tx.Where("user_id = ?", userID).Delete(&models.Favorite{})
		tx.Where("user_id = ? OR friend_id = ?", userID, userID).Delete(&models.Friend{})
		tx.Where("user_id = ?", userID).Delete(&models.Suggestion{})
		return tx.Delete(&user).Error
	})
}

// SendVerification issues a fresh email-verification code. Re-sending
// replaces any outstanding code.
func (s *AuthService) SendVerification(ctx context.Context, userID uuid.UUID) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return ErrUserNotFound
	}
	if user.EmailVerified {
		return errors.New("email already verified")
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	if err := s.codes.SaveVerifyCode(ctx, userID.String(), code, s.cfg.VerifyCodeTTL); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}

	return s.sender.Send(ctx, user.Email, "Verify your email", code)
}

func (s *AuthService) CheckVerification(ctx context.Context, userID uuid.UUID, code string) error {
	if err := s.codes.CheckVerifyCode(ctx, userID.String(), code); err != nil {
		if errors.Is(err, cache.ErrCodeNotFound) {
			return ErrInvalidCode
		}
		return err
	}
	return s.db.Model(&models.User{}).Where("id = ?", userID).
		Update("email_verified", true).Error
}

// RequestPasswordReset issues a reset code. An unknown email gets the same
// nil response so account existence is not leaked.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	if err := s.codes.SaveResetCode(ctx, email, code, s.cfg.ResetCodeTTL); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}

	return s.sender.Send(ctx, email, "Reset your password", code)
}

func (s *AuthService) ConfirmPasswordReset(ctx context.Context, req *dto.PasswordResetConfirm) error {
	if len(req.NewPassword) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	if err := s.codes.CheckResetCode(ctx, req.Email, req.Code); err != nil {
		if errors.Is(err, cache.ErrCodeNotFound) {
			return ErrInvalidCode
		}
		return err
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return ErrUserNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("password", string(hash)).Error; err != nil {
			return err
		}
		// Changing the password revokes every open session.
		return tx.Model(&models.RefreshToken{}).Where("user_id = ?", user.ID).
			Update("revoked", true).Error
	})
}

func (s *AuthService) generateTokenPair(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: dto.UserResponse{
			ID:                  user.ID,
			Email:               user.Email,
			DisplayName:         user.DisplayName,
			EmailVerified:       user.EmailVerified,
			OnboardingCompleted: user.OnboardingCompleted,
		},
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"email":    user.Email,
		"verified": user.EmailVerified,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)
	tokenHash := hashToken(rawToken)

	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}

// generateCode returns a 6-digit numeric code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
