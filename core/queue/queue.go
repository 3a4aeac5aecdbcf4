package queue

import (
	"context"
	"fmt"

	"taskcal/core/config"
	"taskcal/core/logger"

	"github.com/hibiken/asynq"
)

// Enqueuer is the part of *asynq.Client used by services.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func NewClient(cfg config.RedisConfig) *asynq.Client {
	return asynq.NewClient(RedisOpt(cfg))
}

// PeriodicTask is registered with the scheduler on Start.
type PeriodicTask struct {
	Cronspec string
	Task     *asynq.Task
	Opts     []asynq.Option
}

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
	periodic  []PeriodicTask
}

func NewWorker(redisCfg config.RedisConfig, concurrency int) *Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	opt := RedisOpt(redisCfg)
	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error("Worker:Task:Error", "type", task.Type(), "error", err)
		}),
	})
	return &Worker{
		server:    server,
		mux:       asynq.NewServeMux(),
		scheduler: asynq.NewScheduler(opt, nil),
	}
}

func (w *Worker) Handle(taskType string, handler asynq.Handler) {
	w.mux.Handle(taskType, handler)
}

func (w *Worker) HandleFunc(taskType string, handler func(context.Context, *asynq.Task) error) {
	w.mux.HandleFunc(taskType, handler)
}

func (w *Worker) Schedule(p PeriodicTask) {
	w.periodic = append(w.periodic, p)
}

// Start launches the processor and scheduler in the background.
func (w *Worker) Start() error {
	for _, p := range w.periodic {
		entryID, err := w.scheduler.Register(p.Cronspec, p.Task, p.Opts...)
		if err != nil {
			return fmt.Errorf("register periodic task %s: %w", p.Task.Type(), err)
		}
		logger.Info("Worker:Schedule:Registered", "type", p.Task.Type(), "cronspec", p.Cronspec, "entry_id", entryID)
	}
	if err := w.scheduler.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	if err := w.server.Start(w.mux); err != nil {
		w.scheduler.Shutdown()
		return fmt.Errorf("start worker: %w", err)
	}
	logger.Info("Worker started")
	return nil
}

func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
	logger.Info("Worker stopped")
}
