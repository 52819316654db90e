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

// Producer appends removal jobs to the queue. Jobs carry only the public id;
// visibility is delayed by the configured grace period and terminal failures
// are never retried.
type Producer struct {
	client enqueuer
	delay  time.Duration
	log    zerolog.Logger
}

// enqueuer is the slice of asynq.Client the producer uses.
type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

func NewProducer(redisOpt asynq.RedisConnOpt, cfg *config.Config, log zerolog.Logger) *Producer {
	return &Producer{
		client: asynq.NewClient(redisOpt),
		delay:  cfg.RemoveQueueDelay,
		log:    log.With().Str("component", "removal-producer").Logger(),
	}
}

// Enqueue submits a removal job for the given public id. It returns once
// the broker has accepted the job and never blocks on worker execution.
func (p *Producer) Enqueue(ctx context.Context, publicID string) error {
	payload, err := json.Marshal(removePayload{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("encode removal payload: %w", err)
	}

	task := asynq.NewTask(TypeRemoveAsset, payload)
	info, err := p.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueName),
		asynq.ProcessIn(p.delay),
		asynq.MaxRetry(0),
	)
	if err != nil {
		return fmt.Errorf("enqueue removal job: %w", err)
	}

	metrics.RemovalsEnqueuedTotal.Inc()
	p.log.Info().
		Str("job_id", info.ID).
		Str("public_id", publicID).
		Dur("delay", p.delay).
		Msg("removal job enqueued")
	return nil
}

// Close releases the broker connection held by the producer.
func (p *Producer) Close() error {
	return p.client.Close()
}
