package di

import (
	"context"
	"fmt"
	"time"

	"ChipFlash/internal/domain/repository"
	"ChipFlash/internal/handler/api"
	internalrepo "ChipFlash/internal/repository"
	"ChipFlash/internal/service/fubon"
	"ChipFlash/internal/service/line"
	"ChipFlash/internal/service/sinopac"
	"ChipFlash/internal/usecase"
	"ChipFlash/pkg/cache"
	pkgch "ChipFlash/pkg/clickhouse"
	"ChipFlash/pkg/config"
	xhttp "ChipFlash/pkg/http"
	pkgkafka "ChipFlash/pkg/kafka"
	"ChipFlash/pkg/logger"
	"ChipFlash/pkg/metrics"
	"ChipFlash/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache creates the state cache: Redis when enabled, so the dispatch
// ledger survives restarts, in-memory otherwise.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}
	c, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return c, nil
}

// ProvideClickHouseClient creates a ClickHouse client, nil when disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideArchive creates the report archive backing day-over-day deltas.
func ProvideArchive(chClient *pkgch.Client) (repository.ReportArchive, error) {
	if chClient == nil {
		return internalrepo.NewMemoryArchive(), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	archive, err := internalrepo.NewClickHouseArchive(ctx, chClient)
	if err != nil {
		return nil, err
	}
	return archive, nil
}

// ProvideEventPublisher creates the dispatched-report event publisher.
func ProvideEventPublisher(cfg *config.Config) (repository.EventPublisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NoopPublisher{}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideLedger creates the dispatch ledger on the state cache.
func ProvideLedger(c cache.Service) repository.DispatchLedger {
	return internalrepo.NewCacheLedger(c)
}

// ProvideFubonSource creates the Fubon report adapter.
func ProvideFubonSource(cfg *config.Config, log *logger.Logger) repository.FubonSource {
	return fubon.NewAdapter(cfg.Sources.Fubon.BaseURL, cfg.Sources.FetchTimeout, log)
}

// ProvideSinopacSource creates the SinoPac report adapter.
func ProvideSinopacSource(cfg *config.Config, log *logger.Logger) repository.SinopacSource {
	return sinopac.NewAdapter(cfg.Sources.Sinopac.ListURL, cfg.Sources.Sinopac.SiteURL, cfg.Sources.FetchTimeout, log)
}

// ProvidePusher creates the messaging channel client.
func ProvidePusher(cfg *config.Config, log *logger.Logger) repository.MessagePusher {
	return line.NewClient(cfg.Line.APIBase, cfg.Line.ChannelToken, cfg.Line.Timeout, log)
}

// ProvideTracker creates the per-day readiness tracker.
func ProvideTracker() *usecase.ReadinessTracker {
	return usecase.NewReadinessTracker()
}

// ProvideReconciler creates the payload reconciler.
func ProvideReconciler() *usecase.Reconciler {
	return usecase.NewReconciler(time.Now)
}

// ProvideFormatter creates the report formatter.
func ProvideFormatter() *usecase.Formatter {
	return usecase.NewFormatter()
}

// ProvideBuilder creates the merge-archive-render pipeline.
func ProvideBuilder(
	rec *usecase.Reconciler,
	fm *usecase.Formatter,
	archive repository.ReportArchive,
	c cache.Service,
	log *logger.Logger,
) *usecase.ReportBuilder {
	return usecase.NewReportBuilder(rec, fm, archive, c, log)
}

// ProvideDispatcher creates the dispatch gate.
func ProvideDispatcher(
	ledger repository.DispatchLedger,
	pusher repository.MessagePusher,
	cfg *config.Config,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.Dispatcher {
	return usecase.NewDispatcher(ledger, pusher, cfg.Line.GroupID, m, log)
}

// ProvideScheduler creates the polling scheduler.
func ProvideScheduler(
	cfg *config.Config,
	fubonSrc repository.FubonSource,
	sinopacSrc repository.SinopacSource,
	tracker *usecase.ReadinessTracker,
	builder *usecase.ReportBuilder,
	dispatcher *usecase.Dispatcher,
	events repository.EventPublisher,
	m repository.Metrics,
	log *logger.Logger,
) (*usecase.Scheduler, error) {
	return usecase.NewScheduler(
		usecase.SchedulerConfig{
			WindowStart:  cfg.Schedule.WindowStart,
			WindowEnd:    cfg.Schedule.WindowEnd,
			PollInterval: cfg.Schedule.PollInterval,
			FetchTimeout: cfg.Sources.FetchTimeout,
		},
		fubonSrc, sinopacSrc, tracker, builder, dispatcher,
		events, m, log, nil,
	)
}

// ProvideTrigger creates the secret-phrase flow.
func ProvideTrigger(
	cfg *config.Config,
	fubonSrc repository.FubonSource,
	sinopacSrc repository.SinopacSource,
	tracker *usecase.ReadinessTracker,
	builder *usecase.ReportBuilder,
	dispatcher *usecase.Dispatcher,
	log *logger.Logger,
) *usecase.Trigger {
	return usecase.NewTrigger(
		cfg.Line.SecretPhrase,
		fubonSrc, sinopacSrc, tracker, builder, dispatcher,
		log, nil, cfg.Sources.FetchTimeout,
	)
}

// ProvideWebhookHandler creates the HTTP handler for webhook callbacks.
func ProvideWebhookHandler(trigger *usecase.Trigger, cfg *config.Config, log *logger.Logger) xhttp.Handler {
	return api.NewWebhookHandler(trigger, cfg.Line.ChannelSecret, log)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	scheduler *usecase.Scheduler,
	handler xhttp.Handler,
	events repository.EventPublisher,
	c cache.Service,
	chClient *pkgch.Client,
) *server.App {
	return server.New(cfg, log, scheduler, handler, events, c, chClient)
}
