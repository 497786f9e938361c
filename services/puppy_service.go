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

// PhotoUploader stores an image payload and returns its public URL.
type PhotoUploader interface {
	UploadBase64Image(ctx context.Context, base64Data, filenamePrefix string) (string, error)
}

type PuppyService struct {
	db       *gorm.DB
	uploader PhotoUploader
	loc      *time.Location
}

func NewPuppyService(db *gorm.DB, uploader PhotoUploader, loc *time.Location) *PuppyService {
	if loc == nil {
		loc = time.Local
	}
	return &PuppyService{db: db, uploader: uploader, loc: loc}
}

type PuppyInput struct {
	Name         string `json:"name"`
	Breed        string `json:"breed"`
	BirthDate    string `json:"birth_date"` // YYYY-MM-DD
	MicrochipID  string `json:"microchip_id"`
	VetName      string `json:"vet_name"`
	VetPhone     string `json:"vet_phone"`
	OwnerContact string `json:"owner_contact"`
}

// PuppyWithRole is a puppy as seen by one member.
type PuppyWithRole struct {
	models.Puppy
	Role models.Role `json:"role"`
}

// Create stores a new puppy and makes the creator its owner.
func (s *PuppyService) Create(ctx context.Context, ownerID uint, in PuppyInput) (*models.Puppy, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, invalid("name is required")
	}
	p := &models.Puppy{}
	if err := s.apply(p, in); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		return tx.Create(&models.Membership{PuppyID: p.ID, UserID: ownerID, Role: models.RoleOwner}).Error
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PuppyService) ListForUser(ctx context.Context, userID uint) ([]PuppyWithRole, error) {
	var members []models.Membership
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&members).Error; err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return []PuppyWithRole{}, nil
	}
	roles := make(map[uint]models.Role, len(members))
	ids := make([]uint, 0, len(members))
	for _, m := range members {
		roles[m.PuppyID] = m.Role
		ids = append(ids, m.PuppyID)
	}

	var puppies []models.Puppy
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&puppies).Error; err != nil {
		return nil, err
	}
	out := make([]PuppyWithRole, 0, len(puppies))
	for _, p := range puppies {
		out = append(out, PuppyWithRole{Puppy: p, Role: roles[p.ID]})
	}
	return out, nil
}

func (s *PuppyService) Get(ctx context.Context, puppyID uint) (*models.Puppy, error) {
	var p models.Puppy
	if err := s.db.WithContext(ctx).First(&p, puppyID).Error; err != nil {
		return nil, notFound(err, "puppy")
	}
	return &p, nil
}

// Update overwrites only the non-empty fields of in.
func (s *PuppyService) Update(ctx context.Context, puppyID uint, in PuppyInput) (*models.Puppy, error) {
	p, err := s.Get(ctx, puppyID)
	if err != nil {
		return nil, err
	}
	if err := s.apply(p, in); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// Delete soft-deletes the puppy and revokes every membership. Care records stay.
func (s *PuppyService) Delete(ctx context.Context, puppyID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Puppy{}, puppyID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("puppy %w", ErrNotFound)
		}
		return tx.Where("puppy_id = ?", puppyID).Delete(&models.Membership{}).Error
	})
}

func (s *PuppyService) SetPhoto(ctx context.Context, puppyID uint, imageBase64 string) (*models.Puppy, error) {
	if s.uploader == nil {
		return nil, ErrUploadDisabled
	}
	p, err := s.Get(ctx, puppyID)
	if err != nil {
		return nil, err
	}
	url, err := s.uploader.UploadBase64Image(ctx, imageBase64, fmt.Sprintf("puppy-%d", puppyID))
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}
	p.PhotoURL = url
	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PuppyService) apply(p *models.Puppy, in PuppyInput) error {
	if v := strings.TrimSpace(in.Name); v != "" {
		p.Name = v
	}
	if v := strings.TrimSpace(in.Breed); v != "" {
		p.Breed = v
	}
	if in.BirthDate != "" {
		d, ok := utils.ParseDate(in.BirthDate, s.loc)
		if !ok {
			return invalid("birth_date %q", in.BirthDate)
		}
		p.BirthDate = &d
	}
	if v := strings.TrimSpace(in.MicrochipID); v != "" {
		p.MicrochipID = v
	}
	if v := strings.TrimSpace(in.VetName); v != "" {
		p.VetName = v
	}
	if v := strings.TrimSpace(in.VetPhone); v != "" {
		p.VetPhone = v
	}
	if v := strings.TrimSpace(in.OwnerContact); v != "" {
		p.OwnerContact = v
	}
	return nil
}

// ---------- Weight log ----------

func (s *PuppyService) AddWeight(ctx context.Context, puppyID uint, date string, weight float64) (*models.WeightEntry, error) {
	if _, ok := utils.ParseDate(date, s.loc); !ok {
		return nil, invalid("date %q", date)
	}
	if weight <= 0 {
		return nil, invalid("weight must be positive")
	}
	w := &models.WeightEntry{PuppyID: puppyID, Date: date, Weight: weight}
	if err := s.db.WithContext(ctx).Create(w).Error; err != nil {
		return nil, err
	}
	return w, nil
}

func (s *PuppyService) ListWeights(ctx context.Context, puppyID uint) ([]models.WeightEntry, error) {
	var out []models.WeightEntry
	err := s.db.WithContext(ctx).
		Where("puppy_id = ?", puppyID).
		Order("date ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (s *PuppyService) DeleteWeight(ctx context.Context, puppyID, weightID uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND puppy_id = ?", weightID, puppyID).
		Delete(&models.WeightEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("weight entry %w", ErrNotFound)
	}
	return nil
}
