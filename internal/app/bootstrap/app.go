// Package bootstrap assembles the chat API from configuration.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/clara-insurance-guide/internal/api/router"
	"github.com/wolfman30/clara-insurance-guide/internal/archive"
	"github.com/wolfman30/clara-insurance-guide/internal/calendar"
	appconfig "github.com/wolfman30/clara-insurance-guide/internal/config"
	"github.com/wolfman30/clara-insurance-guide/internal/conversation"
	"github.com/wolfman30/clara-insurance-guide/internal/events"
	httpmiddleware "github.com/wolfman30/clara-insurance-guide/internal/http/middleware"
	"github.com/wolfman30/clara-insurance-guide/internal/leads"
	"github.com/wolfman30/clara-insurance-guide/internal/notify"
	"github.com/wolfman30/clara-insurance-guide/internal/observability/metrics"
	"github.com/wolfman30/clara-insurance-guide/internal/scheduling"
	"github.com/wolfman30/clara-insurance-guide/internal/webchat"
	"github.com/wolfman30/clara-insurance-guide/pkg/logging"
)

// App is the assembled service plus everything that must be released on
// shutdown.
type App struct {
	Service *conversation.Service
	Leads   leads.Repository
	Handler http.Handler

	closers []func()
}

// Close releases clients in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// BuildInferencer builds the scheduling engine from the holiday file, the
// business timezone and the scheduling policy keys. now may be nil; the
// calendar and the inferencer share it so both agree on "today" in the
// business zone.
func BuildInferencer(cfg *appconfig.Config, now calendar.Clock) (*scheduling.Inferencer, error) {
	if now == nil {
		now = time.Now
	}
	var holidays calendar.HolidayProvider = calendar.DefaultFederalHolidays()
	if cfg.HolidaysFile != "" {
		loaded, err := calendar.LoadHolidaysFile(cfg.HolidaysFile)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: load holidays: %w", err)
		}
		holidays = loaded
	}
	loc := cfg.Location()
	cal := calendar.New(holidays, calendar.WithLocation(loc), calendar.WithClock(now))
	policy := scheduling.Policy{
		MinLeadDays: cfg.SchedulingMinLeadDays,
		OptionCount: cfg.SchedulingOptionCount,
	}
	return scheduling.NewInferencer(cal,
		scheduling.WithPolicy(policy),
		scheduling.WithNow(now),
		scheduling.WithLocation(loc),
	), nil
}

// BuildMetrics returns the /metrics handler and the chat collectors
// registered on a private registry.
func BuildMetrics() (http.Handler, *metrics.ChatMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewChatMetrics(reg)
}

// Build wires the whole API. awsCfg may be nil when no AWS service is used.
func Build(ctx context.Context, cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	app := &App{}
	fail := func(err error) (*App, error) {
		app.Close()
		return nil, err
	}

	inferencer, err := BuildInferencer(cfg, nil)
	if err != nil {
		return fail(err)
	}

	var backends SessionBackends
	switch cfg.SessionStore {
	case appconfig.SessionStoreRedis:
		if backends.Redis = BuildRedisClient(ctx, cfg, logger, true); backends.Redis != nil {
			client := backends.Redis
			app.closers = append(app.closers, func() { _ = client.Close() })
		}
	case appconfig.SessionStorePostgres:
		db, err := OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return fail(err)
		}
		if db != nil {
			backends.SQL = db
			app.closers = append(app.closers, func() { _ = db.Close() })
		}
	case appconfig.SessionStoreDynamo:
		if awsCfg != nil {
			backends.Dynamo = dynamodb.NewFromConfig(*awsCfg)
		}
	}
	sessions, err := BuildSessionStore(cfg, backends, logger)
	if err != nil {
		return fail(err)
	}

	pool := ConnectPostgresPool(ctx, cfg.DatabaseURL, logger)
	if pool != nil {
		app.closers = append(app.closers, pool.Close)
	}
	leadRepo, closeLeads, err := BuildLeadsRepository(cfg, pool, logger)
	if err != nil {
		return fail(err)
	}
	app.closers = append(app.closers, closeLeads)
	app.Leads = leadRepo

	llm, closeLLM := BuildLLMClient(ctx, cfg, awsCfg, logger)
	app.closers = append(app.closers, closeLLM)

	metricsHandler, chatMetrics := BuildMetrics()

	var publisher events.Publisher = events.NewLogPublisher(logger)
	if cfg.LeadEventsQueueURL != "" && awsCfg != nil {
		publisher = events.NewSQSPublisher(sqs.NewFromConfig(*awsCfg), cfg.LeadEventsQueueURL, logger)
		logger.Info("lead events published to SQS", "queue_url", cfg.LeadEventsQueueURL)
	}

	notifier := notify.NewLeadNotifier(BuildEmailSender(cfg, awsCfg, logger), cfg.LeadNotifyEmail, logger)

	var archiveStore *archive.Store
	if cfg.ArchiveBucket != "" && awsCfg != nil {
		s3Client := s3.NewFromConfig(*awsCfg, func(o *s3.Options) {
			o.UsePathStyle = cfg.AWSEndpointOverride != ""
		})
		archiveStore = archive.NewStore(s3Client, cfg.ArchiveBucket, logger)
		logger.Info("transcript archive enabled", "bucket", cfg.ArchiveBucket)
	}

	hooks := BuildLeadCaptureHooks(HookDeps{
		Publisher: publisher,
		Notifier:  notifier,
		Archive:   archiveStore,
		Logger:    logger,
	})

	svc, err := conversation.NewService(conversation.ServiceDeps{
		Store:      sessions,
		Leads:      leadRepo,
		LLM:        llm,
		Inferencer: inferencer,
		Metrics:    chatMetrics,
		Logger:     logger,
	},
		conversation.WithMaxTokens(int32(cfg.LLMMaxTokens), int32(cfg.SummaryMaxTokens)),
		conversation.WithLeadCaptureHooks(hooks...),
	)
	if err != nil {
		return fail(fmt.Errorf("bootstrap: conversation service: %w", err))
	}
	app.Service = svc

	var limiter *httpmiddleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		app.closers = append(app.closers, limiter.Stop)
	}

	app.Handler = router.New(&router.Config{
		Logger:              logger,
		ConversationHandler: conversation.NewHandler(svc, logger),
		LeadsHandler:        leads.NewHandler(leadRepo, svc, logger),
		WebChat:             webchat.NewHandler(svc, logger),
		MetricsHandler:      metricsHandler,
		CORSAllowedOrigins:  cfg.AllowedOrigins,
		ChatLimiter:         limiter,
	})

	logger.Info("chat service ready",
		"session_store", cfg.SessionStore,
		"lead_hooks", len(hooks),
		"phrases_version", inferencer.PhrasesVersion(),
	)
	return app, nil
}
