package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"storefront-backend/internal/domains/product/model"
	"storefront-backend/internal/shared"
	"storefront-backend/pkg/logger"
)

const WarmCatalogCron = "*/5 * * * *"

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddress, password string, db int) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress, Password: password, DB: db},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler}
}

func (s *Scheduler) RegisterJobs() error {
	return s.registerWarmCatalogJob()
}

// ================================================
// JOB: Warm catalog cache (every 5 minutes)
// ================================================
func (s *Scheduler) registerWarmCatalogJob() error {
	payload, err := json.Marshal(model.WarmCatalogPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeWarmCatalogCache, payload)

	_, err = s.scheduler.Register(
		WarmCatalogCron,
		task,
		asynq.Queue(shared.QueueCatalog),
		asynq.MaxRetry(1),
		asynq.Timeout(time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register WarmCatalogCache job", err)
		return err
	}

	logger.Info("✓ Registered WarmCatalogCache: every 5 minutes", map[string]interface{}{})
	return nil
}

// Start không block; Shutdown dừng scheduler
func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
