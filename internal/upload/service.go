package upload

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/venue-admin/internal/api"
	"github.com/nekogravitycat/venue-admin/internal/pkg/apperror"
)

// Upload limits, matching what the backend enforces.
const (
	MaxFileSize = 5 << 20 // 5 MiB
	maxWidth    = 1600
	maxHeight   = 1600
)

var (
	ErrTooLarge        = apperror.New(apperror.KindValidation, "image exceeds the 5 MB limit")
	ErrUnsupportedType = apperror.New(apperror.KindValidation, "unsupported image type")
)

var supportedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Service prepares images and pushes them to the backend's upload endpoint.
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// UploadImage validates and, when possible, downscales the image before
// posting it as multipart field "image". Returns the public URL assigned by
// the backend.
func (s *Service) UploadImage(ctx context.Context, filename string, content io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(content, MaxFileSize+1))
	if err != nil {
		return "", apperror.Wrap(err, apperror.KindNetwork, "failed to read image")
	}
	if len(data) > MaxFileSize {
		return "", ErrTooLarge
	}

	contentType := http.DetectContentType(data)
	if !supportedTypes[contentType] {
		return "", ErrUnsupportedType
	}

	if shrunk, ok := downscale(data); ok {
		data = shrunk
		filename = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"
	}

	var resp struct {
		URL string `json:"url"`
	}
	if err := s.client.PostMultipart(ctx, "/upload", "image", filename, bytes.NewReader(data), &resp); err != nil {
		return "", err
	}
	if resp.URL == "" {
		return "", apperror.New(apperror.KindParse, "upload response missing url")
	}
	return resp.URL, nil
}

// downscale re-encodes images larger than the bounding box as JPEG. Formats
// the decoder does not know (e.g. webp) are uploaded untouched.
func downscale(data []byte) ([]byte, bool) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	bounds := img.Bounds()
	if bounds.Dx() <= maxWidth && bounds.Dy() <= maxHeight {
		return nil, false
	}

	resized := imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, resized, &jpeg.Options{Quality: 80}); err != nil {
		log.Warn().Err(err).Msg("image re-encode failed, uploading original")
		return nil, false
	}
	return buf.Bytes(), true
}
