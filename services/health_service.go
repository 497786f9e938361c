package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pupcare/models"
	"pupcare/utils"

	"gorm.io/gorm"
)

type HealthService struct {
	db   *gorm.DB
	feed *ChangeFeed
	loc  *time.Location
}

func NewHealthService(db *gorm.DB, feed *ChangeFeed, loc *time.Location) *HealthService {
	if loc == nil {
		loc = time.Local
	}
	return &HealthService{db: db, feed: feed, loc: loc}
}

type HealthRecordInput struct {
	Category    string `json:"category" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Clinic      string `json:"clinic"`
	Description string `json:"description"`
	Notes       string `json:"notes"`
}

func (s *HealthService) validate(in HealthRecordInput) error {
	if !models.HealthCategory(in.Category).Valid() {
		return invalid("category %q", in.Category)
	}
	if _, ok := utils.ParseDate(in.Date, s.loc); !ok {
		return invalid("date %q", in.Date)
	}
	if strings.TrimSpace(in.Title) == "" {
		return invalid("title is required")
	}
	return nil
}

func (s *HealthService) Create(ctx context.Context, puppyID, actorID uint, in HealthRecordInput) (*models.HealthRecord, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	rec := &models.HealthRecord{PuppyID: puppyID}
	fill(rec, in)
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, err
	}
	s.feed.HealthRecordChanged(ctx, puppyID, actorID, rec, "created")
	return rec, nil
}

// List returns records newest first, optionally narrowed to one category.
func (s *HealthService) List(ctx context.Context, puppyID uint, category string) ([]models.HealthRecord, error) {
	q := s.db.WithContext(ctx).Where("puppy_id = ?", puppyID)
	if category != "" {
		if !models.HealthCategory(category).Valid() {
			return nil, invalid("category %q", category)
		}
		q = q.Where("category = ?", category)
	}
	var out []models.HealthRecord
	err := q.Order("date DESC, id DESC").Find(&out).Error
	return out, err
}

func (s *HealthService) Get(ctx context.Context, puppyID, recordID uint) (*models.HealthRecord, error) {
	var rec models.HealthRecord
	if err := s.db.WithContext(ctx).
		Where("id = ? AND puppy_id = ?", recordID, puppyID).
		First(&rec).Error; err != nil {
		return nil, notFound(err, "health record")
	}
	return &rec, nil
}

func (s *HealthService) Update(ctx context.Context, puppyID, actorID, recordID uint, in HealthRecordInput) (*models.HealthRecord, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	rec, err := s.Get(ctx, puppyID, recordID)
	if err != nil {
		return nil, err
	}
	fill(rec, in)
	if err := s.db.WithContext(ctx).Save(rec).Error; err != nil {
		return nil, err
	}
	s.feed.HealthRecordChanged(ctx, puppyID, actorID, rec, "updated")
	return rec, nil
}

func (s *HealthService) Delete(ctx context.Context, puppyID, actorID, recordID uint) error {
	rec, err := s.Get(ctx, puppyID, recordID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(rec).Error; err != nil {
		return fmt.Errorf("deleting health record: %w", err)
	}
	s.feed.HealthRecordChanged(ctx, puppyID, actorID, rec, "deleted")
	return nil
}

// Recent returns up to limit records dated on or before asOf.
func (s *HealthService) Recent(ctx context.Context, puppyID uint, asOf string, limit int) ([]models.HealthRecord, error) {
	var out []models.HealthRecord
	err := s.db.WithContext(ctx).
		Where("puppy_id = ? AND date <= ?", puppyID, asOf).
		Order("date DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func fill(rec *models.HealthRecord, in HealthRecordInput) {
	rec.Category = models.HealthCategory(in.Category)
	rec.Date = in.Date
	rec.Title = strings.TrimSpace(in.Title)
	rec.Clinic = in.Clinic
	rec.Description = in.Description
	rec.Notes = in.Notes
}
