package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"pupcare/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PushService registers devices as SNS platform endpoints and publishes to them.
type PushService struct {
	db          *gorm.DB
	sns         *awssns.Client
	platformArn string
	log         *zap.Logger
}

func NewPushService(ctx context.Context, db *gorm.DB, region, platformArn string, log *zap.Logger) (*PushService, error) {
	if region == "" {
		region = "us-east-1"
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PushService{
		db:          db,
		sns:         awssns.NewFromConfig(cfg),
		platformArn: platformArn,
		log:         log,
	}, nil
}

type RegisterDeviceReq struct {
	Platform string `json:"platform" binding:"required"` // "android" | "ios"
	Token    string `json:"token" binding:"required"`
}

func TokenHash(tok string) string {
	h := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(h[:])
}

func (p *PushService) platform(platform string) (string, error) {
	switch strings.ToLower(platform) {
	case "android", "ios":
		if p.platformArn == "" {
			return "", errors.New("SNS_FCM_ARN not set")
		}
		return p.platformArn, nil
	default:
		return "", invalid("unknown platform %q", platform)
	}
}

func (p *PushService) RegisterDevice(ctx context.Context, userID uint, platform, token string) (*models.UserDevice, error) {
	appArn, err := p.platform(platform)
	if err != nil {
		return nil, err
	}

	out, err := p.sns.CreatePlatformEndpoint(ctx, &awssns.CreatePlatformEndpointInput{
		PlatformApplicationArn: aws.String(appArn),
		Token:                  aws.String(token),
	})
	if err != nil {
		return nil, err
	}

	dev := &models.UserDevice{
		UserID:      userID,
		Platform:    strings.ToLower(platform),
		TokenHash:   TokenHash(token),
		EndpointARN: aws.ToString(out.EndpointArn),
		Enabled:     true,
		UpdatedAt:   time.Now(),
	}
	var existing models.UserDevice
	if err := p.db.WithContext(ctx).Where("user_id = ? AND token_hash = ?", userID, dev.TokenHash).First(&existing).Error; err == nil {
		existing.EndpointARN = dev.EndpointARN
		existing.Platform = dev.Platform
		existing.UpdatedAt = time.Now()
		if err := p.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}
	if err := p.db.WithContext(ctx).Create(dev).Error; err != nil {
		return nil, err
	}
	return dev, nil
}

func (p *PushService) PushToUser(ctx context.Context, userID uint, title, body string, data map[string]string) {
	var endpoints []models.UserDevice
	if err := p.db.WithContext(ctx).Where("user_id = ? AND enabled = ?", userID, true).Find(&endpoints).Error; err != nil {
		p.log.Warn("push endpoint lookup failed", zap.Uint("user_id", userID), zap.Error(err))
		return
	}
	if len(endpoints) == 0 {
		return
	}

	raw, err := GCMPayload(title, body, data)
	if err != nil {
		return
	}
	for _, d := range endpoints {
		_, err := p.sns.Publish(ctx, &awssns.PublishInput{
			MessageStructure: aws.String("json"),
			Message:          aws.String(raw),
			TargetArn:        aws.String(d.EndpointARN),
		})
		if err != nil {
			p.log.Warn("push publish failed", zap.Uint("device_id", d.ID), zap.Error(err))
		}
	}
}

// GCMPayload builds the SNS message-structure JSON. SNS expects the GCM
// member to be a JSON string, not an object.
func GCMPayload(title, body string, data map[string]string) (string, error) {
	gcm, err := json.Marshal(map[string]any{
		"notification": map[string]string{"title": title, "body": body},
		"data":         data,
	})
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(map[string]string{"default": body, "GCM": string(gcm)})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// SetNotifications enables or disables every device of the user.
func SetNotifications(ctx context.Context, db *gorm.DB, userID uint, enabled bool) error {
	return db.WithContext(ctx).Model(&models.UserDevice{}).
		Where("user_id = ?", userID).
		Update("enabled", enabled).Error
}
