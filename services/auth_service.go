package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"pupcare/models"
	"pupcare/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthService owns users and their login sessions. Sessions are rows, not
// process state: a token is only valid while its session exists.
type AuthService struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(db *gorm.DB, secret string, ttl time.Duration) *AuthService {
	return &AuthService{db: db, secret: []byte(secret), ttl: ttl, now: time.Now}
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (*models.User, error) {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, invalid("email %q", email)
	}
	if len(password) < 8 {
		return nil, invalid("password must be at least 8 characters")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("user %w", ErrConflict)
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Email: email, Password: hashed, FullName: strings.TrimSpace(fullName)}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials, creates a session and signs a token for it.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, ErrUnauthorized
	}

	sess := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.db.WithContext(ctx).Create(sess).Error; err != nil {
		return nil, err
	}

	token, err := utils.GenerateJWT(s.secret, user.ID, user.Email, sess.ID, s.ttl)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: sess.ExpiresAt, User: &user}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.db.WithContext(ctx).Where("id = ?", sessionID).Delete(&models.Session{}).Error
}

// ResolveSession turns a bearer token into its live session.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*models.Session, error) {
	claims, err := utils.ParseJWT(s.secret, token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return nil, ErrUnauthorized
	}

	var sess models.Session
	if err := s.db.WithContext(ctx).First(&sess, "id = ?", sid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if sess.Expired(s.now()) {
		_ = s.db.WithContext(ctx).Delete(&sess).Error
		return nil, ErrUnauthorized
	}
	if uid, ok := claims["userId"].(float64); ok && uint(uid) != sess.UserID {
		return nil, ErrUnauthorized
	}
	return &sess, nil
}

// PurgeExpiredSessions deletes sessions past their expiry.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at < ?", s.now()).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
