package cli

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/deskflow/ticket-assistant/internal/config"
	"github.com/deskflow/ticket-assistant/internal/events"
	"github.com/deskflow/ticket-assistant/internal/llm"
	"github.com/deskflow/ticket-assistant/internal/observability"
	"github.com/deskflow/ticket-assistant/internal/persistence"
	"github.com/deskflow/ticket-assistant/internal/repository"
	"github.com/deskflow/ticket-assistant/internal/service"
	"github.com/deskflow/ticket-assistant/internal/tracker"
	"github.com/deskflow/ticket-assistant/internal/worker"
)

const llmRequestTimeout = 60 * time.Second

// runtime holds the wired collaborators shared by every command.
type runtime struct {
	cfg        *config.Config
	logger     *zap.Logger
	metrics    *observability.Metrics
	dispatcher events.Dispatcher
	postgres   *persistence.Postgres
	redis      *persistence.Redis
	tracker    *tracker.Client
	generator  *llm.Client
	cache      repository.TicketCache
	history    repository.ActionHistoryRepository
	tickets    *service.TicketService
	workload   *service.WorkloadService
	sessions   *service.SessionService
	auth       *service.AuthService
}

func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, err
	}

	rt := &runtime{
		cfg:        cfg,
		logger:     logger,
		metrics:    observability.NewMetrics(),
		dispatcher: events.NewInMemoryDispatcher(),
	}

	rt.postgres, err = persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Warn("postgres unavailable; action history disabled", zap.Error(err))
		rt.postgres = &persistence.Postgres{}
	}
	if pool := rt.postgres.PoolHandle(); pool != nil {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
				rt.Close()
				return nil, err
			}
		}
		rt.history = repository.NewActionHistoryRepository(pool)
	}

	rt.redis = persistence.NewRedis(ctx, cfg.Redis, logger)
	if rt.redis != nil {
		rt.cache = repository.NewRedisTicketCache(rt.redis.Client)
	} else {
		rt.cache = repository.NewFileTicketCache(cfg.Storage.CacheFile)
	}

	if cfg.Jira.Remote() {
		rt.tracker = tracker.NewClient(cfg.Jira)
	}

	provider, err := llm.NewProvider(cfg.LLM, &http.Client{Timeout: llmRequestTimeout})
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.generator = llm.NewClient(provider, logger)

	worker.StartAuditWorker(service.NewAuditService(rt.dispatcher, rt.history, logger))

	rt.tickets = service.NewTicketService(repository.NewTicketSource(cfg, rt.tracker, rt.cache, logger), logger)
	rt.workload = service.NewWorkloadService(service.WorkloadDependencies{
		Summarizer: rt.summarizer(),
		Dispatcher: rt.dispatcher,
		Metrics:    rt.metrics,
		Logger:     logger,
	})
	rt.sessions = service.NewSessionService(repository.NewFileSessionRepository(cfg.Storage.SessionFile), logger)
	rt.auth = service.NewAuthService(cfg.Auth)
	return rt, nil
}

// summarizer returns nil for the offline provider so the ranker uses its fallback directly.
func (rt *runtime) summarizer() service.Summarizer {
	if rt.generator.ProviderName() == config.ProviderStub {
		return nil
	}
	return rt.generator
}

func (rt *runtime) actionService(sessionID string) *service.ActionService {
	deps := service.ActionDependencies{
		Generator:      rt.generator,
		Dispatcher:     rt.dispatcher,
		Metrics:        rt.metrics,
		Logger:         rt.logger,
		ArtifactsDir:   rt.cfg.Storage.ArtifactsDir,
		SimulateWrites: rt.cfg.SimulateWrites(),
		SessionID:      sessionID,
	}
	if rt.tracker != nil {
		deps.Comments = rt.tracker
	}
	return service.NewActionService(deps)
}

func (rt *runtime) Close() {
	rt.redis.Close()
	rt.postgres.Close()
	_ = rt.logger.Sync()
}
