package handlers

import (
	"github.com/rs/zerolog"

	"cloudinary-gateway/internal/config"
	domain "cloudinary-gateway/internal/domain/media"
)

// Provider wires HTTP handlers.
type Provider struct {
	Media *MediaHandler
}

func NewProvider(cfg *config.Config, service *domain.Service, log zerolog.Logger) *Provider {
	return &Provider{
		Media: NewMediaHandler(cfg, service, log),
	}
}
