package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"identify/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadStoresMasterAndThumbnail(t *testing.T) {
	svc := testMediaService(t)

	media, err := svc.Upload(context.Background(), UploadMediaInput{
		UserID:      1,
		Filename:    "shot.png",
		ContentType: "image/png",
		Content:     pngBytes(t),
	})
	require.NoError(t, err)
	require.NotZero(t, media.ID)
	assert.Equal(t, "image/jpeg", media.MimeType)
	assert.Greater(t, media.SizeBytes, int64(0))
	require.True(t, strings.HasSuffix(media.URL, "/master.jpg"), media.URL)

	// Both derivatives exist on disk under the upload's UUID directory.
	rel := strings.TrimPrefix(media.URL, "/media/")
	masterPath := filepath.Join(svc.UploadDir(), filepath.FromSlash(rel))
	_, err = os.Stat(masterPath)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(filepath.Dir(masterPath), "thumb.webp"))
	require.NoError(t, err)
}

// Every advertised MIME type must decode with the decoders media_service.go
// itself registers. The fixtures are checked-in files rather than encoder
// output so a dropped blank import cannot be papered over by a test-only one.
func TestUploadDecodesEveryAdvertisedFormat(t *testing.T) {
	svc := testMediaService(t)
	ctx := context.Background()

	for _, name := range []string{"pixel.png", "pixel.gif"} {
		t.Run(name, func(t *testing.T) {
			content, err := os.ReadFile(filepath.Join("testdata", name))
			require.NoError(t, err)

			media, err := svc.Upload(ctx, UploadMediaInput{
				UserID:   1,
				Filename: name,
				Content:  content,
			})
			require.NoError(t, err)
			assert.Equal(t, "image/jpeg", media.MimeType)
		})
	}
}

func TestUploadRejections(t *testing.T) {
	svc := testMediaService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   UploadMediaInput
	}{
		{"missing user", UploadMediaInput{Content: pngBytes(t)}},
		{"empty file", UploadMediaInput{UserID: 1}},
		{"not an image", UploadMediaInput{UserID: 1, Content: []byte("plain text, not pixels")}},
		{"truncated image", UploadMediaInput{UserID: 1, Content: pngBytes(t)[:8]}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Upload(ctx, tc.in)
			require.Error(t, err)
			appErr, ok := err.(*models.AppError)
			require.True(t, ok)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		})
	}
}

func TestUploadEnforcesSizeLimit(t *testing.T) {
	svc := testMediaService(t)
	svc.maxUploadSizeBytes = 16

	_, err := svc.Upload(context.Background(), UploadMediaInput{
		UserID:  1,
		Content: pngBytes(t),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestUploadKeepsNoFilesOnRepoFailure(t *testing.T) {
	repo := noopMediaRepo()
	repo.createFn = func(_ context.Context, _ *models.Media) error {
		return models.NewInternalError(assert.AnError)
	}
	svc := testMediaService(t)
	svc.repo = repo

	_, err := svc.Upload(context.Background(), UploadMediaInput{
		UserID:  1,
		Content: pngBytes(t),
	})
	require.Error(t, err)

	entries, readErr := os.ReadDir(svc.UploadDir())
	require.NoError(t, readErr)
	for _, entry := range entries {
		files, _ := os.ReadDir(filepath.Join(svc.UploadDir(), entry.Name()))
		assert.Empty(t, files)
	}
}

func TestThumbnailURL(t *testing.T) {
	svc := testMediaService(t)
	assert.Equal(t, "/media/abc/thumb.webp", svc.ThumbnailURL("/media/abc/master.jpg"))
}

func TestResizeToFitKeepsAspectRatio(t *testing.T) {
	src := testImage(400, 100)
	out := resizeToFit(src, 200, 200)
	assert.Equal(t, 200, out.Bounds().Dx())
	assert.Equal(t, 50, out.Bounds().Dy())

	// Images already inside the box are returned untouched.
	small := testImage(40, 40)
	assert.Equal(t, small.Bounds(), resizeToFit(small, 200, 200).Bounds())
}

func TestNormalizeContentType(t *testing.T) {
	assert.Equal(t, "image/png", normalizeContentType("image/png; charset=binary"))
	assert.Equal(t, "image/jpeg", normalizeContentType(" IMAGE/JPEG "))
	assert.Equal(t, "", normalizeContentType(""))
	assert.False(t, isAllowedImageMIME("image/svg+xml"))
	assert.True(t, isAllowedImageMIME("image/webp"))
}

func TestEncodeJPEGProducesValidOutput(t *testing.T) {
	data, err := encodeJPEG(testImage(8, 8), JPEGQuality)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte{0xff, 0xd8}))
}
