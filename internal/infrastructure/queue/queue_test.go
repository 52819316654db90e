package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloudinary-gateway/internal/config"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	f.opts = append(f.opts, opts)
	return &asynq.TaskInfo{ID: "job-1", Queue: QueueName, Type: task.Type()}, nil
}

func (f *fakeEnqueuer) Close() error { return nil }

func optValue(opts []asynq.Option, typ asynq.OptionType) (interface{}, bool) {
	for _, opt := range opts {
		if opt.Type() == typ {
			return opt.Value(), true
		}
	}
	return nil, false
}

func TestProducerEnqueue(t *testing.T) {
	fake := &fakeEnqueuer{}
	producer := &Producer{client: fake, delay: 3 * time.Second, log: zerolog.Nop()}

	require.NoError(t, producer.Enqueue(context.Background(), "my-photo-abc123"))
	require.Len(t, fake.tasks, 1)

	task := fake.tasks[0]
	assert.Equal(t, TypeRemoveAsset, task.Type())

	var payload removePayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "my-photo-abc123", payload.PublicID)
}

func TestProducerEnqueueOptions(t *testing.T) {
	fake := &fakeEnqueuer{}
	producer := &Producer{client: fake, delay: 3 * time.Second, log: zerolog.Nop()}

	require.NoError(t, producer.Enqueue(context.Background(), "my-photo-abc123"))
	require.Len(t, fake.opts, 1)
	opts := fake.opts[0]

	queueName, ok := optValue(opts, asynq.QueueOpt)
	require.True(t, ok, "job must target the removal queue")
	assert.Equal(t, QueueName, queueName)

	delay, ok := optValue(opts, asynq.ProcessInOpt)
	require.True(t, ok, "job visibility must be delayed")
	assert.Equal(t, 3*time.Second, delay)

	maxRetry, ok := optValue(opts, asynq.MaxRetryOpt)
	require.True(t, ok, "retry policy must be explicit")
	assert.Equal(t, 0, maxRetry)
}

func TestProducerEnqueueBrokerError(t *testing.T) {
	fake := &fakeEnqueuer{err: errors.New("broker down")}
	producer := &Producer{client: fake, delay: 3 * time.Second, log: zerolog.Nop()}

	err := producer.Enqueue(context.Background(), "my-photo-abc123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

type fakeDestroyer struct {
	calls       []string
	callTimes   []time.Time
	invalidated []bool
	err         error
}

func (f *fakeDestroyer) Destroy(_ context.Context, publicID string, invalidate bool) error {
	f.calls = append(f.calls, publicID)
	f.callTimes = append(f.callTimes, time.Now())
	f.invalidated = append(f.invalidated, invalidate)
	return f.err
}

func newHandlerConfig(limit int, window time.Duration) *config.Config {
	return &config.Config{RemoveRateLimit: limit, RemoveRateWindow: window}
}

func removeTask(t *testing.T, publicID string) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(removePayload{PublicID: publicID})
	require.NoError(t, err)
	return asynq.NewTask(TypeRemoveAsset, payload)
}

func TestRemoveHandlerDestroysWithInvalidate(t *testing.T) {
	destroyer := &fakeDestroyer{}
	handler := newRemoveHandler(newHandlerConfig(2, 3*time.Second), destroyer, zerolog.Nop())

	err := handler.ProcessTask(context.Background(), removeTask(t, "my-photo-abc123"))
	require.NoError(t, err)

	require.Equal(t, []string{"my-photo-abc123"}, destroyer.calls)
	assert.Equal(t, []bool{true}, destroyer.invalidated)
}

func TestRemoveHandlerPropagatesDestroyFailure(t *testing.T) {
	destroyer := &fakeDestroyer{err: errors.New("upstream broke")}
	handler := newRemoveHandler(newHandlerConfig(2, 3*time.Second), destroyer, zerolog.Nop())

	err := handler.ProcessTask(context.Background(), removeTask(t, "my-photo-abc123"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream broke")
}

func TestRemoveHandlerSkipsRetryOnMalformedPayload(t *testing.T) {
	destroyer := &fakeDestroyer{}
	handler := newRemoveHandler(newHandlerConfig(2, 3*time.Second), destroyer, zerolog.Nop())

	err := handler.ProcessTask(context.Background(), asynq.NewTask(TypeRemoveAsset, []byte("{not json")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
	assert.Empty(t, destroyer.calls)
}

func TestRemoveHandlerRateLimitsExecutions(t *testing.T) {
	// 2 executions per 300ms window: the first two run immediately, the
	// third must not run until the window advances.
	window := 300 * time.Millisecond
	destroyer := &fakeDestroyer{}
	handler := newRemoveHandler(newHandlerConfig(2, window), destroyer, zerolog.Nop())

	for i := 0; i < 3; i++ {
		require.NoError(t, handler.ProcessTask(context.Background(), removeTask(t, "some-asset-id-0000000000000000000000")))
	}

	require.Len(t, destroyer.callTimes, 3)
	thirdOffset := destroyer.callTimes[2].Sub(destroyer.callTimes[0])
	// Small cushion: the first timestamp lands a hair after the window
	// opens, so the measured offset can fall just short of the window.
	assert.GreaterOrEqual(t, thirdOffset, window-20*time.Millisecond, "third execution must wait for the next window")
}

func TestWindowLimiterNeverAdmitsMoreThanMaxPerWindow(t *testing.T) {
	window := 300 * time.Millisecond
	limiter := newWindowLimiter(2, window)

	// Deterministic clock: admissions never sleep, they only consult now.
	clock := time.Unix(1700000000, 0)
	limiter.now = func() time.Time { return clock }

	ok, _ := limiter.reserve()
	require.True(t, ok, "first admission of the window")

	clock = clock.Add(50 * time.Millisecond)
	ok, _ = limiter.reserve()
	require.True(t, ok, "second admission of the window")

	// A third execution inside the same window must be refused and told to
	// wait exactly until the window boundary.
	clock = clock.Add(50 * time.Millisecond)
	ok, wait := limiter.reserve()
	require.False(t, ok, "window is full")
	assert.Equal(t, 200*time.Millisecond, wait)

	// At the boundary the window resets and two more slots open.
	clock = clock.Add(wait)
	ok, _ = limiter.reserve()
	assert.True(t, ok)
	ok, _ = limiter.reserve()
	assert.True(t, ok)
	ok, _ = limiter.reserve()
	assert.False(t, ok, "new window is full again")
}

func TestRemoveHandlerRateLimitHonorsCancellation(t *testing.T) {
	destroyer := &fakeDestroyer{}
	handler := newRemoveHandler(newHandlerConfig(1, time.Hour), destroyer, zerolog.Nop())

	// Drain the only token.
	require.NoError(t, handler.ProcessTask(context.Background(), removeTask(t, "some-asset-id-0000000000000000000000")))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := handler.ProcessTask(ctx, removeTask(t, "another-asset-id-00000000000000000000"))
	require.Error(t, err)
	assert.Len(t, destroyer.calls, 1)
}
