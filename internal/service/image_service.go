package service

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Bhaveshb1986/Image-Optimizer/internal/config"
	"github.com/Bhaveshb1986/Image-Optimizer/internal/domain"
	"github.com/Bhaveshb1986/Image-Optimizer/internal/repository"
	"github.com/Bhaveshb1986/Image-Optimizer/pkg/utils"
)

// resizeRatio is the fixed downscale factor applied to both dimensions
// of every accepted upload.
const resizeRatio = 0.5

const (
	tempPrefix      = "temp_"
	processedPrefix = "processed_"
)

// Caller-facing messages, one per pipeline stage. The handler returns
// these verbatim, so changing them changes the API contract.
const (
	msgMissingFile         = "No image uploaded!"
	msgUnsupportedType     = "Invalid file type! Only image files are allowed."
	msgNotAValidImage      = "Uploaded file is not a valid image!"
	msgInvalidImageFile    = "Invalid image file!"
	msgDirUnavailable      = "Server error: Unable to prepare upload directory."
	msgSaveUploadFailed    = "Server error: Unable to save uploaded file."
	msgVerifyFailed        = "Server error: Unable to verify file type."
	msgProcessFailed       = "Server error: Unable to process image."
	msgSaveProcessedFailed = "Server error: Unable to save processed image."
	msgSuccess             = "Image uploaded and processed successfully!"
)

// ImageService runs the optimization pipeline over uploaded images.
type ImageService interface {
	// ProcessUpload validates, downscales and re-encodes one upload and
	// returns the stored result. Failures carry a *domain.Error so the
	// transport layer can pick the right status code.
	ProcessUpload(ctx context.Context, req domain.UploadRequest) (*domain.UploadResult, error)

	// ListImages reports every artifact currently in storage.
	ListImages(ctx context.Context) ([]domain.FileInfo, error)
}

type imageService struct {
	storage repository.Storage
	cfg     *config.Config
	log     *zap.Logger
	proc    *utils.ImageProcessor
}

// NewImageService wires the pipeline against the given storage backend.
func NewImageService(storage repository.Storage, cfg *config.Config, log *zap.Logger) ImageService {
	return &imageService{
		storage: storage,
		cfg:     cfg,
		log:     log,
		proc:    utils.NewImageProcessor(log),
	}
}

func (s *imageService) ProcessUpload(ctx context.Context, req domain.UploadRequest) (*domain.UploadResult, error) {
	log := s.requestLogger(req)

	if len(req.Data) == 0 {
		return nil, domain.NewError(domain.KindMissingFile, msgMissingFile, nil)
	}

	if err := s.storage.EnsureReady(ctx); err != nil {
		log.Error("failed to prepare storage", zap.Error(err))
		return nil, domain.NewError(domain.KindStorageUnavailable, msgDirUnavailable, err)
	}

	if !s.extensionAllowed(req.Filename) {
		return nil, domain.NewError(domain.KindUnsupportedType, msgUnsupportedType, nil)
	}

	tempName := tempPrefix + req.Filename
	if err := s.storage.SaveFile(ctx, tempName, req.Data, contentTypeFor(req.Filename)); err != nil {
		log.Error("failed to save temp file", zap.String("file", tempName), zap.Error(err))
		return nil, domain.NewError(domain.KindStorageWriteFailed, msgSaveUploadFailed, err)
	}

	// Verification runs against the stored bytes, not the request body,
	// so a broken round-trip through storage surfaces here.
	raw, err := s.storage.ReadFile(ctx, tempName)
	if err != nil {
		log.Error("failed to read temp file back", zap.String("file", tempName), zap.Error(err))
		s.cleanupTemp(ctx, log, tempName)
		return nil, domain.NewError(domain.KindVerificationFailed, msgVerifyFailed, err)
	}

	if _, err := s.proc.Verify(raw); err != nil {
		log.Warn("uploaded file is not a valid image",
			zap.String("file", req.Filename), zap.Error(err))
		s.cleanupTemp(ctx, log, tempName)
		return nil, domain.NewError(domain.KindInvalidImageContent, msgNotAValidImage, err)
	}

	quality := s.resolveQuality(req.Quality)

	img, _, err := s.proc.Decode(raw)
	if err != nil {
		log.Warn("failed to decode image", zap.String("file", req.Filename), zap.Error(err))
		s.cleanupTemp(ctx, log, tempName)
		return nil, domain.NewError(domain.KindInvalidImageContent, msgInvalidImageFile, err)
	}

	resized, err := s.proc.Resize(img, resizeRatio)
	if err != nil {
		log.Error("failed to resize image", zap.String("file", req.Filename), zap.Error(err))
		s.cleanupTemp(ctx, log, tempName)
		return nil, domain.NewError(domain.KindProcessingFailed, msgProcessFailed, err)
	}

	encoded, err := s.proc.EncodeJPEG(resized, quality)
	if err != nil {
		log.Error("failed to encode image", zap.String("file", req.Filename), zap.Error(err))
		s.cleanupTemp(ctx, log, tempName)
		return nil, domain.NewError(domain.KindStorageWriteFailed, msgSaveProcessedFailed, err)
	}

	processedName := processedPrefix + baseName(req.Filename) + ".jpg"
	if err := s.storage.SaveFile(ctx, processedName, encoded, "image/jpeg"); err != nil {
		log.Error("failed to save processed image",
			zap.String("file", processedName), zap.Error(err))
		s.cleanupTemp(ctx, log, tempName)
		return nil, domain.NewError(domain.KindStorageWriteFailed, msgSaveProcessedFailed, err)
	}

	// Sizes come from storage so the reported numbers match what a
	// client will actually download.
	originalSize, err := s.storage.FileSize(ctx, tempName)
	if err != nil {
		s.cleanupTemp(ctx, log, tempName)
		return nil, fmt.Errorf("stat original upload %q: %w", tempName, err)
	}
	processedSize, err := s.storage.FileSize(ctx, processedName)
	if err != nil {
		s.cleanupTemp(ctx, log, tempName)
		return nil, fmt.Errorf("stat processed image %q: %w", processedName, err)
	}

	reduction := 0.0
	if originalSize > 0 {
		reduction = float64(originalSize-processedSize) / float64(originalSize) * 100
	}
	reduction = math.Round(reduction*100) / 100

	s.cleanupTemp(ctx, log, tempName)

	log.Info("image processed",
		zap.String("file", req.Filename),
		zap.String("processed", processedName),
		zap.Int("quality", quality),
		zap.Int64("original_size", originalSize),
		zap.Int64("processed_size", processedSize),
		zap.Float64("reduction_percent", reduction))

	return &domain.UploadResult{
		Message:              msgSuccess,
		ProcessedImage:       processedName,
		OriginalSize:         originalSize,
		ProcessedSize:        processedSize,
		SizeReductionPercent: reduction,
	}, nil
}

func (s *imageService) ListImages(ctx context.Context) ([]domain.FileInfo, error) {
	return s.storage.ListFiles(ctx)
}

// extensionAllowed matches the suffix after the last dot against the
// configured allow-set, case-insensitively. Names without an extension
// are rejected.
func (s *imageService) extensionAllowed(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return false
	}
	for _, allowed := range s.cfg.App.AllowedFormats {
		if ext == strings.ToLower(strings.TrimPrefix(allowed, ".")) {
			return true
		}
	}
	return false
}

// resolveQuality parses the raw form value. Absent, unparsable or
// out-of-range values fall back to the configured default; a bad value
// is never an error.
func (s *imageService) resolveQuality(raw string) int {
	if raw == "" {
		return s.cfg.App.DefaultQuality
	}
	q, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || q < 0 || q > 100 {
		return s.cfg.App.DefaultQuality
	}
	return q
}

// requestLogger tags pipeline log lines with the transport-assigned
// request id, so one upload can be traced across both layers.
func (s *imageService) requestLogger(req domain.UploadRequest) *zap.Logger {
	if req.RequestID == "" {
		return s.log
	}
	return s.log.With(zap.String("request_id", req.RequestID))
}

// cleanupTemp removes the temp artifact. A failed removal leaves junk
// behind but never changes the outcome of the request.
func (s *imageService) cleanupTemp(ctx context.Context, log *zap.Logger, name string) {
	if err := s.storage.RemoveFile(ctx, name); err != nil {
		log.Warn("failed to remove temp file", zap.String("file", name), zap.Error(err))
	}
}

func baseName(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
