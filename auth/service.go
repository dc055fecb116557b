// Package auth signs buyers in with a password or a Google ID token and
// issues the storefront's session JWT.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/fruitika/storefront-api/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 8

var (
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidEmail       = errors.New("a valid email is required")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", minPasswordLength)
	ErrUserNotFound       = errors.New("user not found")
)

type Service struct {
	db       *gorm.DB
	tokens   *TokenIssuer
	verifier TokenVerifier // nil when Google sign-in is off
}

func NewService(db *gorm.DB, tokens *TokenIssuer, verifier TokenVerifier) *Service {
	return &Service{db: db, tokens: tokens, verifier: verifier}
}

func (s *Service) Tokens() *TokenIssuer {
	return s.tokens
}

// Session is a signed-in user plus their bearer token.
type Session struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func (s *Service) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if len(in.Password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: string(hash),
		Provider:     "credentials",
		Role:         models.RoleUser,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}
		return tx.Create(&user).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}
	return s.session(&user)
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	err = s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	// Google-only accounts have no password.
	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.session(&user)
}

// GoogleLogin verifies the ID token, then finds the user by Firebase uid or
// email, creating the account on first sign-in and refreshing the profile
// afterwards.
func (s *Service) GoogleLogin(ctx context.Context, idToken string) (*Session, error) {
	if s.verifier == nil {
		return nil, ErrGoogleDisabled
	}
	profile, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}
	email := strings.ToLower(profile.Email)

	var user models.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? OR email = ?", profile.UID, email).First(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = models.User{
				ID:       profile.UID,
				Email:    email,
				Name:     profile.Name,
				Picture:  profile.Picture,
				Provider: "google",
				Role:     models.RoleUser,
			}
			return tx.Create(&user).Error
		case err != nil:
			return err
		}
		user.Name = profile.Name
		user.Picture = profile.Picture
		return tx.Model(&user).Updates(map[string]any{"name": profile.Name, "picture": profile.Picture}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.session(&user)
}

func (s *Service) User(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CurrentRole reads the stored role, which can differ from the one in an
// older token after an admin is revoked.
func (s *Service) CurrentRole(ctx context.Context, userID string) (models.Role, error) {
	var user models.User
	err := s.db.WithContext(ctx).Select("id", "role").First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

func (s *Service) session(u *models.User) (*Session, error) {
	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Token: token}, nil
}
