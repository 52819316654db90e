package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"cloudinary-gateway/internal/config"
	"cloudinary-gateway/internal/infrastructure/metrics"
)

// Destroyer performs the remote delete-by-identifier call.
type Destroyer interface {
	Destroy(ctx context.Context, publicID string, invalidate bool) error
}

// Worker is the long-running consumer of the removal queue. Job executions
// are capped by a fixed-window counter local to this consumer; a second
// worker instance would carry its own independent window.
type Worker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
	log zerolog.Logger
}

func NewWorker(redisOpt asynq.RedisConnOpt, cfg *config.Config, destroyer Destroyer, log zerolog.Logger) *Worker {
	workerLog := log.With().Str("component", "removal-worker").Logger()

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.WorkerConcurrency,
		Queues:      map[string]int{QueueName: 1},
		Logger:      asynqLogger{log: workerLog},
	})

	handler := newRemoveHandler(cfg, destroyer, workerLog)
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeRemoveAsset, handler.ProcessTask)

	return &Worker{srv: srv, mux: mux, log: workerLog}
}

// Run starts the consumer loop and blocks until the context is cancelled,
// then drains in-flight jobs. The readiness log line is emitted once the
// worker begins polling the queue.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.srv.Start(w.mux); err != nil {
		return fmt.Errorf("start removal worker: %w", err)
	}
	w.log.Info().Str("queue", QueueName).Msg("removal worker active")

	<-ctx.Done()
	w.log.Info().Msg("draining removal worker")
	w.srv.Shutdown()
	return nil
}

// removeHandler executes one removal job per invocation.
type removeHandler struct {
	destroyer Destroyer
	limiter   *windowLimiter
	log       zerolog.Logger
}

func newRemoveHandler(cfg *config.Config, destroyer Destroyer, log zerolog.Logger) *removeHandler {
	return &removeHandler{
		destroyer: destroyer,
		limiter:   newWindowLimiter(cfg.RemoveRateLimit, cfg.RemoveRateWindow),
		log:       log,
	}
}

// ProcessTask claims a job, waits for rate-limit capacity and performs the
// remote delete with cache invalidation. Failures are terminal: the job is
// not retried and the error surfaces only in logs and metrics, never to the
// caller that enqueued it.
func (h *removeHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload removePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		metrics.RemovalsProcessedTotal.WithLabelValues("malformed").Inc()
		return fmt.Errorf("decode removal payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := h.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for rate limit: %w", err)
	}

	jobID, _ := asynq.GetTaskID(ctx)

	start := time.Now()
	err := h.destroyer.Destroy(ctx, payload.PublicID, true)
	metrics.DestroyDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.RemovalsProcessedTotal.WithLabelValues("failed").Inc()
		h.log.Error().
			Err(err).
			Str("job_id", jobID).
			Str("public_id", payload.PublicID).
			Msg("removal failed")
		return err
	}

	metrics.RemovalsProcessedTotal.WithLabelValues("ok").Inc()
	h.log.Info().
		Str("job_id", jobID).
		Str("public_id", payload.PublicID).
		Msg("removal completed")
	return nil
}

// asynqLogger adapts zerolog to asynq's logger interface.
type asynqLogger struct {
	log zerolog.Logger
}

func (l asynqLogger) Debug(args ...interface{}) { l.log.Debug().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...interface{})  { l.log.Info().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...interface{})  { l.log.Warn().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...interface{}) { l.log.Error().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...interface{}) { l.log.Fatal().Msg(fmt.Sprint(args...)) }
