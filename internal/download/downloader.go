// Package download streams release archives to disk. Downloads land in a
// uniquely named temp file first and move into place with an atomic rename,
// so an interrupted download never leaves a partial artifact behind.
package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dojoengine/dojoup/internal/errors"
)

// ProgressCallback reports download progress. total is -1 when
// Content-Length is unknown.
type ProgressCallback func(downloaded, total int64)

// Downloader downloads artifacts over HTTP.
type Downloader interface {
	// Download fetches url into destPath and returns destPath.
	Download(ctx context.Context, url, destPath string) (string, error)

	// DownloadWithProgress fetches url with a progress callback.
	DownloadWithProgress(ctx context.Context, url, destPath string, callback ProgressCallback) (string, error)
}

// httpDownloader implements Downloader using HTTP.
type httpDownloader struct {
	client *http.Client
}

// New creates a Downloader with the given HTTP client.
// A nil client falls back to http.DefaultClient.
func New(client *http.Client) Downloader {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpDownloader{client: client}
}

// Download fetches url into destPath.
func (d *httpDownloader) Download(ctx context.Context, url, destPath string) (string, error) {
	return d.DownloadWithProgress(ctx, url, destPath, nil)
}

// DownloadWithProgress fetches url into destPath with an optional callback.
func (d *httpDownloader) DownloadWithProgress(ctx context.Context, url, destPath string, callback ProgressCallback) (string, error) {
	slog.Debug("downloading file", "url", url, "dest", destPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", &errors.Error{
			Category: errors.CategoryNetwork,
			Code:     errors.CodeNetworkFailed,
			Message:  fmt.Sprintf("failed to download from %s", url),
			Cause:    err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &errors.Error{
			Category: errors.CategoryNetwork,
			Code:     errors.CodeHTTPError,
			Message:  fmt.Sprintf("failed to download: HTTP %d", resp.StatusCode),
			Details:  map[string]any{"url": url, "status_code": resp.StatusCode},
		}
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	// Unique temp name keeps a crashed run from colliding with the next one.
	tmpPath := fmt.Sprintf("%s.%s.tmp", destPath, uuid.NewString())
	f, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath)
	}()

	var reader io.Reader = resp.Body
	if callback != nil {
		reader = &progressReader{
			reader:   resp.Body,
			total:    resp.ContentLength,
			callback: callback,
		}
	}

	if _, err := io.Copy(f, reader); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return "", fmt.Errorf("failed to rename file: %w", err)
	}

	slog.Debug("download completed", "path", destPath)
	return destPath, nil
}

// progressReader wraps an io.Reader and reports progress.
type progressReader struct {
	reader     io.Reader
	total      int64
	downloaded int64
	callback   ProgressCallback
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.downloaded += int64(n)
		r.callback(r.downloaded, r.total)
	}
	return n, err
}
