package bootstrap

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	appconfig "github.com/praxia/citas-gateway/internal/config"
	"github.com/praxia/citas-gateway/internal/notify"
	"github.com/praxia/citas-gateway/pkg/logging"
)

// BuildEmailSender selects the confirmation email backend from config.
// Misconfigured providers fall back to the stub so booking never depends
// on email being up.
func BuildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	if logger == nil {
		logger = logging.Default()
	}

	switch cfg.EmailProvider {
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sender != nil {
			logger.Info("email provider: sendgrid", "from", cfg.SendGridFromEmail)
			return sender
		}
		logger.Warn("sendgrid selected but not configured, falling back to stub")
	case "ses":
		awsCfg, err := LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Warn("ses selected but AWS config failed, falling back to stub", "error", err)
			break
		}
		sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger)
		if sender != nil {
			logger.Info("email provider: ses", "from", cfg.SESFromEmail)
			return sender
		}
	}

	return notify.NewStubEmailSender(logger)
}
