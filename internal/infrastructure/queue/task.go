// Package queue implements the durable removal pipeline: a producer that
// appends delayed deletion jobs to a Redis-backed queue and a rate-limited
// worker that consumes them.
package queue

// QueueName is the single named queue carrying removal jobs.
const QueueName = "cloudinary-remove-queue"

// TypeRemoveAsset identifies removal tasks on the queue.
const TypeRemoveAsset = "cloudinary:remove"

type removePayload struct {
	PublicID string `json:"publicId"`
}
