// Package service implements the application's business logic.
package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif" // Register decoders for the accepted upload types
	"image/jpeg"
	_ "image/png"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"identify/internal/config"
	"identify/internal/models"
	"identify/internal/observability"
	"identify/internal/repository"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultMediaUploadDir       = "/tmp/identify/uploads"
	DefaultMediaMaxUploadSizeMB = 10
	MasterMaxSize               = 2048
	ThumbnailMaxSize            = 256
	JPEGQuality                 = 82
	WebPQuality                 = 70
)

// UploadMediaInput carries one file from a multipart request.
type UploadMediaInput struct {
	UserID      uint
	Filename    string
	ContentType string
	Content     []byte
}

// MediaService stores uploaded files on disk and records them in the store.
// Each upload commits independently; a later post-transaction rollback leaves
// the media row and files in place.
type MediaService struct {
	repo               repository.MediaRepository
	uploadDir          string
	maxUploadSizeBytes int64
	publicBaseURL      string
}

// NewMediaService returns a MediaService configured from cfg.
func NewMediaService(repo repository.MediaRepository, cfg *config.Config) *MediaService {
	uploadDir := DefaultMediaUploadDir
	maxUploadSizeMB := DefaultMediaMaxUploadSizeMB
	publicBaseURL := "/media"

	if cfg != nil {
		if cfg.MediaUploadDir != "" {
			uploadDir = cfg.MediaUploadDir
		}
		if cfg.MediaMaxUploadSizeMB > 0 {
			maxUploadSizeMB = cfg.MediaMaxUploadSizeMB
		}
		if cfg.MediaPublicBaseURL != "" {
			publicBaseURL = strings.TrimSuffix(cfg.MediaPublicBaseURL, "/")
		}
	}

	return &MediaService{
		repo:               repo,
		uploadDir:          uploadDir,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
		publicBaseURL:      publicBaseURL,
	}
}

// UploadDir returns the directory uploads are written to.
func (s *MediaService) UploadDir() string {
	return s.uploadDir
}

// Upload validates and stores one image: a resized JPEG master plus a WebP
// thumbnail under a fresh UUID directory, then the media row.
func (s *MediaService) Upload(ctx context.Context, in UploadMediaInput) (*models.Media, error) {
	ctx, span := observability.TraceMediaOperation(ctx, "upload")
	defer span.End()

	media, err := s.upload(ctx, in)
	if err != nil {
		observability.MediaUploadsTotal.WithLabelValues("rejected").Inc()
		span.RecordError(err)
		return nil, err
	}
	observability.MediaUploadsTotal.WithLabelValues("accepted").Inc()
	observability.MediaUploadBytes.Observe(float64(media.SizeBytes))
	return media, nil
}

func (s *MediaService) upload(ctx context.Context, in UploadMediaInput) (*models.Media, error) {
	if in.UserID == 0 {
		return nil, models.NewValidationError("Invalid user")
	}
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detectedType) {
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}
	if !isSupportedDecodedFormat(format) {
		return nil, models.NewValidationError("Unsupported image format")
	}

	master := resizeToFit(decoded, MasterMaxSize, MasterMaxSize)
	thumbnail := resizeToFit(decoded, ThumbnailMaxSize, ThumbnailMaxSize)

	encodedMaster, err := encodeJPEG(master, JPEGQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	encodedThumb, err := encodeWebP(thumbnail, WebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	id := uuid.New().String()
	masterRel := filepath.ToSlash(filepath.Join(id, "master.jpg"))
	masterAbs := filepath.Join(s.uploadDir, id, "master.jpg")
	thumbAbs := filepath.Join(s.uploadDir, id, "thumb.webp")

	if err := writeBytesToFile(masterAbs, encodedMaster); err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := writeBytesToFile(thumbAbs, encodedThumb); err != nil {
		_ = os.Remove(masterAbs)
		return nil, models.NewInternalError(err)
	}

	record := &models.Media{
		UserID:    in.UserID,
		URL:       s.publicBaseURL + "/" + masterRel,
		MimeType:  "image/jpeg",
		SizeBytes: int64(len(encodedMaster)),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		_ = os.Remove(masterAbs)
		_ = os.Remove(thumbAbs)
		return nil, err
	}
	return record, nil
}

// ThumbnailURL returns the WebP thumbnail location for a stored master URL.
func (s *MediaService) ThumbnailURL(masterURL string) string {
	return strings.TrimSuffix(masterURL, "master.jpg") + "thumb.webp"
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isSupportedDecodedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}

func writeBytesToFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
