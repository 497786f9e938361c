package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pupcare/models"
	"pupcare/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Mailer delivers invitation emails.
type Mailer interface {
	SendInvitation(ctx context.Context, to, puppyName, role, token string) error
}

type MemberService struct {
	db     *gorm.DB
	mailer Mailer
	feed   *ChangeFeed
	log    *zap.Logger
	now    func() time.Time
}

func NewMemberService(db *gorm.DB, mailer Mailer, feed *ChangeFeed, log *zap.Logger) *MemberService {
	if log == nil {
		log = zap.NewNop()
	}
	return &MemberService{db: db, mailer: mailer, feed: feed, log: log, now: time.Now}
}

// RoleFor returns the user's role on the puppy, ErrForbidden if none.
func (s *MemberService) RoleFor(ctx context.Context, puppyID, userID uint) (models.Role, error) {
	var m models.Membership
	err := s.db.WithContext(ctx).
		Where("puppy_id = ? AND user_id = ?", puppyID, userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrForbidden
		}
		return "", err
	}
	return m.Role, nil
}

func (s *MemberService) List(ctx context.Context, puppyID uint) ([]models.Membership, error) {
	var out []models.Membership
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("puppy_id = ?", puppyID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (s *MemberService) MemberIDs(ctx context.Context, puppyID uint) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("puppy_id = ?", puppyID).
		Pluck("user_id", &ids).Error
	return ids, err
}

// Invite records an invitation for email and mails it when a mailer is set.
// Owners cannot be invited; ownership is never shared.
func (s *MemberService) Invite(ctx context.Context, puppyID, inviterID uint, email string, role models.Role) (*models.Invitation, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, invalid("email is required")
	}
	if role != models.RoleEditor && role != models.RoleViewer {
		return nil, invalid("role must be editor or viewer")
	}

	var puppy models.Puppy
	if err := s.db.WithContext(ctx).First(&puppy, puppyID).Error; err != nil {
		return nil, notFound(err, "puppy")
	}

	inv := &models.Invitation{
		PuppyID:   puppyID,
		InvitedBy: inviterID,
		Email:     email,
		Role:      role,
		Token:     utils.GenerateRandomToken(32),
	}
	if err := s.db.WithContext(ctx).Create(inv).Error; err != nil {
		return nil, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendInvitation(ctx, email, puppy.Name, string(role), inv.Token); err != nil {
			s.log.Warn("invitation email failed", zap.Uint("puppy_id", puppyID), zap.Error(err))
		}
	}
	return inv, nil
}

// Accept redeems an invitation for the signed-in user. The invitation email
// must match the user's account email.
func (s *MemberService) Accept(ctx context.Context, token string, userID uint) (*models.Membership, error) {
	var inv models.Invitation
	if err := s.db.WithContext(ctx).Where("token = ?", token).First(&inv).Error; err != nil {
		return nil, notFound(err, "invitation")
	}
	if inv.AcceptedAt != nil {
		return nil, fmt.Errorf("invitation %w", ErrConflict)
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, notFound(err, "user")
	}
	if normalizeEmail(user.Email) != inv.Email {
		return nil, ErrForbidden
	}

	var m models.Membership
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("puppy_id = ? AND user_id = ?", inv.PuppyID, userID).First(&m).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			m = models.Membership{PuppyID: inv.PuppyID, UserID: userID, Role: inv.Role}
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		case m.Role != models.RoleOwner:
			m.Role = inv.Role
			if err := tx.Save(&m).Error; err != nil {
				return err
			}
		}
		now := s.now()
		inv.AcceptedAt = &now
		return tx.Save(&inv).Error
	})
	if err != nil {
		return nil, err
	}

	s.feed.MembersChanged(ctx, inv.PuppyID, userID, fmt.Sprintf("%s joined as %s", user.Email, m.Role))
	return &m, nil
}

func (s *MemberService) UpdateRole(ctx context.Context, puppyID, userID uint, role models.Role) (*models.Membership, error) {
	if role != models.RoleEditor && role != models.RoleViewer {
		return nil, invalid("role must be editor or viewer")
	}
	m, err := s.get(ctx, puppyID, userID)
	if err != nil {
		return nil, err
	}
	if m.Role == models.RoleOwner {
		return nil, ErrForbidden
	}
	m.Role = role
	if err := s.db.WithContext(ctx).Save(m).Error; err != nil {
		return nil, err
	}
	s.feed.MembersChanged(ctx, puppyID, 0, "")
	return m, nil
}

func (s *MemberService) Remove(ctx context.Context, puppyID, userID uint) error {
	m, err := s.get(ctx, puppyID, userID)
	if err != nil {
		return err
	}
	if m.Role == models.RoleOwner {
		return ErrForbidden
	}
	if err := s.db.WithContext(ctx).Delete(m).Error; err != nil {
		return err
	}
	s.feed.MembersChanged(ctx, puppyID, 0, "")
	return nil
}

func (s *MemberService) get(ctx context.Context, puppyID, userID uint) (*models.Membership, error) {
	var m models.Membership
	err := s.db.WithContext(ctx).
		Where("puppy_id = ? AND user_id = ?", puppyID, userID).
		First(&m).Error
	if err != nil {
		return nil, notFound(err, "member")
	}
	return &m, nil
}
