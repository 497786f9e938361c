package services

import (
	"context"
	"strings"

	"pupcare/models"

	"gorm.io/gorm"
)

type UserService struct{ db *gorm.DB }

func NewUserService(db *gorm.DB) *UserService { return &UserService{db: db} }

type ProfileInput struct {
	FullName string `json:"full_name"`
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input ProfileInput) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(input.FullName); name != "" {
		user.FullName = name
	}
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListAlerts(ctx context.Context, userID uint, limit int) ([]models.Alert, error) {
	if limit <= 0 {
		limit = 50
	}
	var alerts []models.Alert
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&alerts).Error
	return alerts, err
}
