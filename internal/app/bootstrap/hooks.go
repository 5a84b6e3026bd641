package bootstrap

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	"github.com/wolfman30/clara-insurance-guide/internal/archive"
	appconfig "github.com/wolfman30/clara-insurance-guide/internal/config"
	"github.com/wolfman30/clara-insurance-guide/internal/conversation"
	"github.com/wolfman30/clara-insurance-guide/internal/events"
	"github.com/wolfman30/clara-insurance-guide/internal/extract"
	"github.com/wolfman30/clara-insurance-guide/internal/leads"
	"github.com/wolfman30/clara-insurance-guide/internal/notify"
	"github.com/wolfman30/clara-insurance-guide/pkg/logging"
)

const hookTimeout = 10 * time.Second

// BuildEmailSender picks the sender named by EMAIL_PROVIDER. Providers that
// lack credentials fall back to the stub sender.
func BuildEmailSender(cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) notify.EmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	switch cfg.EmailProvider {
	case appconfig.EmailProviderSendGrid:
		// NewSendGridSender returns a typed nil without a key.
		if sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, logger); sender != nil {
			return sender
		}
		logger.Warn("EMAIL_PROVIDER=sendgrid but SENDGRID_API_KEY is empty; using stub sender")
	case appconfig.EmailProviderSES:
		if awsCfg != nil {
			return notify.NewSESSender(sesv2.NewFromConfig(*awsCfg), notify.SESConfig{
				FromEmail:        cfg.EmailFrom,
				FromName:         cfg.EmailFromName,
				ConfigurationSet: cfg.SESConfigSet,
			}, logger)
		}
		logger.Warn("EMAIL_PROVIDER=ses but no aws config; using stub sender")
	}
	return notify.NewStubEmailSender(logger)
}

// HookDeps are the optional side effects of a lead capture.
type HookDeps struct {
	Publisher events.Publisher
	Notifier  *notify.LeadNotifier
	Archive   *archive.Store
	Logger    *logging.Logger
}

// BuildLeadCaptureHooks returns one hook per configured side effect. Each hook
// logs and swallows its own errors.
func BuildLeadCaptureHooks(deps HookDeps) []conversation.LeadCaptureHook {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}

	var hooks []conversation.LeadCaptureHook
	if deps.Publisher != nil {
		hooks = append(hooks, publishLeadCaptured(deps.Publisher, logger))
	}
	if deps.Notifier.Enabled() {
		hooks = append(hooks, notifyLeadCaptured(deps.Notifier, logger))
	}
	if deps.Archive.Enabled() {
		hooks = append(hooks, archiveLeadTranscript(deps.Archive, logger))
	}
	return hooks
}

func publishLeadCaptured(pub events.Publisher, logger *logging.Logger) conversation.LeadCaptureHook {
	return func(ctx context.Context, lead *leads.Lead, session *conversation.Session) {
		ctx, cancel := context.WithTimeout(ctx, hookTimeout)
		defer cancel()
		evt := events.NewLeadCaptured(lead, session.Topics)
		if _, err := pub.Publish(ctx, events.LeadAggregate(lead.ID), session.ID, evt); err != nil {
			logger.Warn("failed to publish lead captured event", "error", err, "lead_id", lead.ID, "session_id", session.ID)
		}
	}
}

func notifyLeadCaptured(n *notify.LeadNotifier, logger *logging.Logger) conversation.LeadCaptureHook {
	return func(ctx context.Context, lead *leads.Lead, session *conversation.Session) {
		ctx, cancel := context.WithTimeout(ctx, hookTimeout)
		defer cancel()
		if err := n.NotifyNewLead(ctx, lead); err != nil {
			logger.Warn("lead notification incomplete", "error", err, "lead_id", lead.ID, "session_id", session.ID)
		}
	}
}

func archiveLeadTranscript(store *archive.Store, logger *logging.Logger) conversation.LeadCaptureHook {
	return func(ctx context.Context, lead *leads.Lead, session *conversation.Session) {
		ctx, cancel := context.WithTimeout(ctx, hookTimeout)
		defer cancel()
		_, err := store.ArchiveTranscript(ctx, archive.TranscriptInput{
			SessionID: session.ID,
			LeadID:    lead.ID,
			Phone:     lead.Phone,
			Messages:  session.Messages,
			Topics:    extract.TopicStrings(session.Topics),
			Step:      session.Step,
			StartedAt: session.CreatedAt,
		})
		if err != nil {
			logger.Warn("failed to archive transcript", "error", err, "lead_id", lead.ID, "session_id", session.ID)
		}
	}
}
