package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"cloudinary-gateway/internal/config"
	domain "cloudinary-gateway/internal/domain/media"
	"cloudinary-gateway/internal/interfaces/httpserver/responses"
	"cloudinary-gateway/internal/version"
)

// MediaHandler exposes the upload-signing and removal endpoints.
type MediaHandler struct {
	cfg     *config.Config
	service *domain.Service
	log     zerolog.Logger
}

func NewMediaHandler(cfg *config.Config, service *domain.Service, log zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		cfg:     cfg,
		service: service,
		log:     log.With().Str("component", "media-handler").Logger(),
	}
}

type homeResponse struct {
	Version string `json:"version"`
}

type signUploadResponse struct {
	Cloudinary string `json:"cloudinary"`
}

type removeResponse struct {
	PublicID string `json:"publicId"`
}

// Home reports the service version. No auth.
func (h *MediaHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, homeResponse{Version: version.Version})
}

// SignUpload validates the requested format and returns a signed
// single-use upload URL.
func (h *MediaHandler) SignUpload(c *gin.Context) {
	var req domain.SignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleValidationError(c, err.Error())
		return
	}

	signedURL, err := h.service.SignUpload(c.Request.Context(), req)
	if err != nil {
		h.log.Warn().Err(err).Str("format", req.Format).Msg("sign upload rejected")
		responses.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, signUploadResponse{Cloudinary: signedURL})
}

// Remove enqueues an asynchronous deletion job and echoes the public id
// immediately; the eventual delete outcome is never reported here.
func (h *MediaHandler) Remove(c *gin.Context) {
	publicID := c.Query("publicId")

	if err := h.service.RequestRemoval(c.Request.Context(), publicID); err != nil {
		h.log.Warn().Err(err).Str("public_id", publicID).Msg("removal rejected")
		responses.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, removeResponse{PublicID: publicID})
}
