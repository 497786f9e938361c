package services

import (
	"context"
	"fmt"
	"time"

	"pupcare/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Pusher delivers a notification to a user's registered devices.
type Pusher interface {
	PushToUser(ctx context.Context, userID uint, title, body string, data map[string]string)
}

// AlertBus stores an alert for every member of a puppy except the actor and
// pushes it to their devices.
type AlertBus struct {
	db     *gorm.DB
	pusher Pusher
	log    *zap.Logger
}

func NewAlertBus(db *gorm.DB, pusher Pusher, log *zap.Logger) *AlertBus {
	if log == nil {
		log = zap.NewNop()
	}
	return &AlertBus{db: db, pusher: pusher, log: log}
}

func (b *AlertBus) Emit(ctx context.Context, puppyID, actorID uint, typ, message string) []models.Alert {
	if b == nil || b.db == nil {
		return nil
	}
	var members []uint
	if err := b.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("puppy_id = ?", puppyID).
		Pluck("user_id", &members).Error; err != nil {
		b.log.Warn("alert recipients lookup failed", zap.Uint("puppy_id", puppyID), zap.Error(err))
		return nil
	}

	var out []models.Alert
	for _, uid := range members {
		if uid == actorID {
			continue
		}
		a := models.Alert{UserID: uid, PuppyID: puppyID, Type: typ, Message: message, CreatedAt: time.Now()}
		if err := b.db.WithContext(ctx).Create(&a).Error; err != nil {
			b.log.Warn("alert insert failed", zap.Uint("user_id", uid), zap.Error(err))
			continue
		}
		out = append(out, a)
		if b.pusher != nil {
			b.pusher.PushToUser(ctx, uid, "Puppy update", message, map[string]string{
				"type": typ, "alertId": fmt.Sprintf("%d", a.ID), "puppyId": fmt.Sprintf("%d", puppyID),
			})
		}
	}
	return out
}
