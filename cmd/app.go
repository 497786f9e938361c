package main

import (
	"context"
	"fmt"

	"pupcare/config"
	"pupcare/services"
	"pupcare/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app is the wired service graph shared by the commands.
type app struct {
	db        *gorm.DB
	hub       *services.RealtimeHub
	publisher *services.SummaryPublisher
	push      *services.PushService

	auth      *services.AuthService
	users     *services.UserService
	puppies   *services.PuppyService
	members   *services.MemberService
	days      *services.DayLogService
	health    *services.HealthService
	analytics *services.AnalyticsService
	chat      *services.ChatService
}

// buildApp connects the store and the optional AWS and MQTT collaborators.
// Collaborators without configuration are left out and their features report
// themselves unavailable.
func buildApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	db, err := config.OpenDB(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	a := &app{db: db, hub: services.NewRealtimeHub()}

	var uploader services.PhotoUploader
	if cfg.AWS.S3Bucket != "" {
		s3u, err := utils.NewS3Uploader(ctx, cfg.GetS3Region(), cfg.AWS.S3Bucket, cfg.AWS.CloudFrontURL)
		if err != nil {
			return nil, fmt.Errorf("configuring S3: %w", err)
		}
		uploader = s3u
	} else {
		log.Info("S3_BUCKET not set, photo upload disabled")
	}

	var mailer services.Mailer
	if cfg.AWS.SESFrom != "" {
		m, err := utils.NewSESMailer(ctx, cfg.AWS.Region, cfg.AWS.SESFrom, cfg.Server.AppURL)
		if err != nil {
			return nil, fmt.Errorf("configuring SES: %w", err)
		}
		mailer = m
	}

	var pusher services.Pusher
	if cfg.AWS.SNSPlatformARN != "" {
		if a.push, err = services.NewPushService(ctx, db, cfg.AWS.Region, cfg.AWS.SNSPlatformARN, log); err != nil {
			return nil, fmt.Errorf("configuring SNS: %w", err)
		}
		pusher = a.push
	}

	var sink services.DaySink
	if a.publisher, err = services.NewSummaryPublisher(cfg.MQTT, cfg.GetTopicPrefix()); err != nil {
		log.Warn("MQTT publisher unavailable", zap.Error(err))
	} else if a.publisher != nil {
		sink = a.publisher
	}

	feed := services.NewChangeFeed(a.hub, services.NewAlertBus(db, pusher, log), sink, log)

	a.auth = services.NewAuthService(db, cfg.Auth.JWTSecret, cfg.GetSessionTTL())
	a.users = services.NewUserService(db)
	a.puppies = services.NewPuppyService(db, uploader, loc)
	a.members = services.NewMemberService(db, mailer, feed, log)
	a.days = services.NewDayLogService(db, feed, loc)
	a.health = services.NewHealthService(db, feed, loc)
	a.analytics = services.NewAnalyticsService(a.days, a.health, a.puppies, loc)
	a.chat = services.NewChatService(services.ChatConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Timeout: cfg.GetLLMTimeout(),
	}, a.analytics)
	return a, nil
}

func (a *app) close() {
	a.publisher.Close()
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
