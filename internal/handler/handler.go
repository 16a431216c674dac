package handler

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Bhaveshb1986/Image-Optimizer/internal/config"
	"github.com/Bhaveshb1986/Image-Optimizer/internal/domain"
	"github.com/Bhaveshb1986/Image-Optimizer/internal/repository"
	"github.com/Bhaveshb1986/Image-Optimizer/internal/service"
)

// MsgUnexpected is the body served when no more specific error applies,
// including recovered panics.
const MsgUnexpected = "An unexpected error occurred. Please try again."

type Handler struct {
	service service.ImageService
	storage repository.Storage
	cfg     *config.Config
	log     *zap.Logger
}

func NewHandler(service service.ImageService, storage repository.Storage, cfg *config.Config, log *zap.Logger) *Handler {
	return &Handler{
		service: service,
		storage: storage,
		cfg:     cfg,
		log:     log,
	}
}

// UploadImage accepts a multipart upload under the "image" field, runs
// it through the optimization pipeline and reports the stored result.
func (h *Handler) UploadImage(c *gin.Context) {
	requestID := uuid.New().String()
	log := h.log.With(zap.String("request_id", requestID))

	file, err := c.FormFile("image")
	if err != nil {
		log.Warn("no image in request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image uploaded!"})
		return
	}
	if file.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image uploaded!"})
		return
	}

	if file.Size > h.cfg.App.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	src, err := file.Open()
	if err != nil {
		log.Error("failed to open multipart file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": MsgUnexpected})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		log.Error("failed to read multipart file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": MsgUnexpected})
		return
	}

	result, err := h.service.ProcessUpload(c.Request.Context(), domain.UploadRequest{
		Data: data,
		// Browsers may send a full client-side path as the filename.
		Filename:  filepath.Base(file.Filename),
		Quality:   c.PostForm("quality"),
		RequestID: requestID,
	})
	if err != nil {
		h.respondError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ServeUpload streams a stored artifact back to the client.
func (h *Handler) ServeUpload(c *gin.Context) {
	name := filepath.Base(c.Param("filename"))

	data, err := h.storage.ReadFile(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidName) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found."})
			return
		}
		h.log.Error("failed to serve file", zap.String("file", name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error: Unable to serve file."})
		return
	}

	c.Data(http.StatusOK, http.DetectContentType(data), data)
}

func (h *Handler) ListImages(c *gin.Context) {
	images, err := h.service.ListImages(c.Request.Context())
	if err != nil {
		h.log.Error("failed to list images", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list images"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"images": images})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (h *Handler) GetUI(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{})
}

// Favicon answers the background requests browsers fire at every site
// so they stop showing up as 404s in the logs.
func (h *Handler) Favicon(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// respondError translates pipeline failures into the API's status and
// message contract. Anything without a known kind becomes a generic 500.
func (h *Handler) respondError(c *gin.Context, log *zap.Logger, err error) {
	var derr *domain.Error
	if errors.As(err, &derr) {
		status := http.StatusInternalServerError
		if derr.Kind.ClientError() {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": derr.Message})
		return
	}

	log.Error("upload failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": MsgUnexpected})
}
