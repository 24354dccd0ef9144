package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/genricoloni/spotink/internal/domain"
)

const _maxImageSize = 10 * 1024 * 1024 // 10 MB

var errNotImage = errors.New("url is not an image")

// HTTPFetcher downloads and decodes artwork from HTTP/HTTPS URLs
type HTTPFetcher struct {
	logger *zap.Logger
	client *http.Client
}

// NewHTTPFetcher creates a new HTTP-based fetcher instance
func NewHTTPFetcher(logger *zap.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		logger: logger,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Fetch downloads the image at url and decodes it.
// Transport failures are returned as *domain.FetchError, undecodable bodies as *domain.DecodeError.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, &domain.FetchError{Op: "cover", Err: fmt.Errorf("unsupported url %q", url)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &domain.FetchError{Op: "cover", Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("User-Agent", "spotink/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &domain.FetchError{Op: "cover", Err: fmt.Errorf("network error: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.FetchError{Op: "cover", Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		return nil, &domain.FetchError{Op: "cover", Err: fmt.Errorf("%w: %s", errNotImage, ct)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, _maxImageSize))
	if err != nil {
		return nil, &domain.FetchError{Op: "cover", Err: fmt.Errorf("failed to read body: %w", err)}
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &domain.DecodeError{Source: url, Err: err}
	}

	f.logger.Debug("Cover fetched",
		zap.Int("bytes", len(data)),
		zap.String("format", format),
		zap.Stringer("size", img.Bounds().Size()),
		zap.String("url", url))
	return img, nil
}
