package media

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"cloudinary-gateway/internal/config"
	"cloudinary-gateway/internal/infrastructure/metrics"
	"cloudinary-gateway/utils/apperrors"
	"cloudinary-gateway/utils/publicid"
)

// Signer produces provider signed upload URLs. Signing is local
// cryptography, no network I/O.
type Signer interface {
	SignUploadURL(publicID string, allowedFormats []string) string
}

// RemovalQueue accepts deletion jobs for asynchronous processing. Enqueue
// returns once the broker has accepted the job; it never waits for the
// eventual delete outcome.
type RemovalQueue interface {
	Enqueue(ctx context.Context, publicID string) error
}

// Service orchestrates upload signing and removal submission.
type Service struct {
	cfg    *config.Config
	signer Signer
	queue  RemovalQueue
	log    zerolog.Logger
}

func NewService(cfg *config.Config, signer Signer, queue RemovalQueue, log zerolog.Logger) *Service {
	return &Service{
		cfg:    cfg,
		signer: signer,
		queue:  queue,
		log:    log.With().Str("component", "media-service").Logger(),
	}
}

// SignUpload validates the requested format, derives a public id from the
// filename and returns a signed single-use upload URL.
func (s *Service) SignUpload(_ context.Context, req SignUploadRequest) (string, error) {
	filename := strings.ToLower(strings.TrimSpace(req.Filename))
	format := strings.ToLower(strings.TrimSpace(req.Format))

	if !slices.Contains(AllowedFormats, format) {
		metrics.SignedUploadsTotal.WithLabelValues("invalid_format").Inc()
		return "", apperrors.Validation("invalid file format, allowed: %s", strings.Join(AllowedFormats, ", "))
	}

	id := publicid.New(filename)
	signedURL := s.signer.SignUploadURL(id, AllowedFormats)

	metrics.SignedUploadsTotal.WithLabelValues("ok").Inc()
	s.log.Debug().Str("public_id", id).Msg("signed upload URL issued")

	return signedURL, nil
}

// RequestRemoval validates the public id and submits a deletion job.
// Fire-and-forget: the caller only learns whether the queue accepted the
// job, never how the remote delete went.
func (s *Service) RequestRemoval(ctx context.Context, publicID string) error {
	if len(publicID) < publicid.MinLength {
		return apperrors.Validation("publicId must be at least %d characters", publicid.MinLength)
	}

	if err := s.queue.Enqueue(ctx, publicID); err != nil {
		return fmt.Errorf("enqueue removal for %s: %w", publicID, err)
	}
	return nil
}
