package utils

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type SESMailer struct {
	client *ses.Client
	from   string
	appURL string
}

func NewSESMailer(ctx context.Context, region, from, appURL string) (*SESMailer, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config for ses: %w", err)
	}
	return &SESMailer{client: ses.NewFromConfig(cfg), from: from, appURL: appURL}, nil
}

func (m *SESMailer) sendEmail(ctx context.Context, to, subject, body string) error {
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(m.from),
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("email send failed: %w", err)
	}
	return nil
}

func (m *SESMailer) SendInvitation(ctx context.Context, to, puppyName, role, token string) error {
	subject := fmt.Sprintf("You've been invited to help care for %s", puppyName)
	body := InvitationBody(puppyName, role, token, m.appURL)
	return m.sendEmail(ctx, to, subject, body)
}

func InvitationBody(puppyName, role, token, appURL string) string {
	link := token
	if appURL != "" {
		link = fmt.Sprintf("%s/invitations/%s", appURL, token)
	}
	return fmt.Sprintf("You've been added as %s %s for %s's care log.\n\nAccept the invitation: %s\n",
		article(role), role, puppyName, link)
}

func article(word string) string {
	if word != "" && (word[0] == 'a' || word[0] == 'e' || word[0] == 'i' || word[0] == 'o' || word[0] == 'u') {
		return "an"
	}
	return "a"
}
