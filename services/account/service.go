package account

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/signupd/signupd/config"
	"github.com/signupd/signupd/services/logging"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidInput             = errors.New("email and password are required")
	ErrDuplicateAccount         = errors.New("an account with this email already exists")
	ErrPasswordHashingFailed    = errors.New("failed to hash password")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrAccountNotVerified       = errors.New("account not verified")
	ErrVerificationTokenInvalid = errors.New("invalid or expired verification token")
	ErrEmailDeliveryFailed      = errors.New("failed to send verification email")
)

type MailService interface {
	SendTemplate(templateName string, to []string, subject string, data map[string]any) error
}

// Service owns the account lifecycle: registration, token verification and the
// login gate. The persistence and mail collaborators are injected.
type Service struct {
	config      *config.Config
	db          *gorm.DB
	mailService MailService
	logger      *logging.Service
}

func NewService(cfg *config.Config, db *gorm.DB, logger *logging.Service) *Service {
	if cfg.Auth.BcryptCost < bcrypt.MinCost || cfg.Auth.BcryptCost > bcrypt.MaxCost {
		cfg.Auth.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		config: cfg,
		db:     db,
		logger: logger,
	}
}

func (s *Service) SetMailService(mailService MailService) {
	s.mailService = mailService
}

func (s *Service) generateVerificationToken() (string, error) {
	bytes := make([]byte, s.config.Auth.VerificationTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// Register creates an unverified account and dispatches the verification
// email. The account is persisted before the mail attempt and is not rolled
// back if delivery fails; the caller sees ErrEmailDeliveryFailed in that case.
func (s *Service) Register(email, password string) (*Account, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	s.logger.Info("registering account", zap.String("email", email))

	var existing Account
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		s.logger.Warn("registration attempted for existing email", zap.String("email", email))
		return nil, ErrDuplicateAccount
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.Auth.BcryptCost)
	if err != nil {
		s.logger.Error("password hashing failed", zap.Error(err))
		return nil, ErrPasswordHashingFailed
	}

	token, err := s.generateVerificationToken()
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.config.Auth.VerificationExpiry)
	acct := &Account{
		Email:             email,
		Password:          string(hash),
		Verified:          false,
		VerificationToken: &token,
		TokenExpiresAt:    &expiresAt,
	}

	if err := s.db.Create(acct).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateAccount
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.logger.Info("account created",
		zap.String("email", email),
		zap.Time("token_expires_at", expiresAt))

	if err := s.sendVerificationEmail(email, token); err != nil {
		s.logger.Error("failed to send verification email", zap.Error(err), zap.String("email", email))
		return acct, ErrEmailDeliveryFailed
	}

	return acct, nil
}

func (s *Service) sendVerificationEmail(email, token string) error {
	if s.mailService == nil {
		return fmt.Errorf("mail service is not configured")
	}

	verificationURL := fmt.Sprintf("%s/verify/%s", s.config.App.URL, token)

	data := map[string]any{
		"Email":           email,
		"VerificationURL": verificationURL,
		"ExpiryDuration":  s.config.Auth.VerificationExpiry.String(),
		"AppName":         s.config.App.Name,
	}

	subject := "Please verify your email address"
	return s.mailService.SendTemplate("verification_email", []string{email}, subject, data)
}

// VerifyToken marks the matching account as verified and clears the token
// columns, making the token single-use. Unknown and expired tokens produce
// the same error so callers cannot probe which tokens exist.
func (s *Service) VerifyToken(token string) (*Account, error) {
	if token == "" {
		return nil, ErrVerificationTokenInvalid
	}

	var acct Account
	if err := s.db.Where("verification_token = ?", token).First(&acct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("unknown verification token attempted")
			return nil, ErrVerificationTokenInvalid
		}
		return nil, fmt.Errorf("failed to look up verification token: %w", err)
	}

	if acct.TokenExpiresAt == nil || !time.Now().Before(*acct.TokenExpiresAt) {
		s.logger.Warn("expired verification token attempted", zap.String("email", acct.Email))
		return nil, ErrVerificationTokenInvalid
	}

	updates := map[string]any{
		"verified":           true,
		"verification_token": nil,
		"token_expires_at":   nil,
	}
	if err := s.db.Model(&acct).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to mark account as verified: %w", err)
	}

	acct.Verified = true
	acct.VerificationToken = nil
	acct.TokenExpiresAt = nil

	s.logger.Info("account verified", zap.String("email", acct.Email))
	return &acct, nil
}

// Login checks credentials in a fixed order: account lookup, verification
// gate, then password comparison. Unknown emails and wrong passwords produce
// the same error to avoid account enumeration.
func (s *Service) Login(email, password string) (*Account, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	var acct Account
	if err := s.db.Where("email = ?", email).First(&acct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("login attempted for unknown email", zap.String("email", email))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if !acct.Verified {
		s.logger.Warn("login attempted for unverified account", zap.String("email", email))
		return nil, ErrAccountNotVerified
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.Password), []byte(password)); err != nil {
		s.logger.Warn("login failed: password mismatch", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("login successful", zap.String("email", email))
	return &acct, nil
}
