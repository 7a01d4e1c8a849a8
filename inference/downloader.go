package inference

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"artarena/logging"

	"go.uber.org/zap"

	_ "image/jpeg" // decoders for artifact validation
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Downloader fetches generated images from the temporary URLs the backend
// and providers return, saves them under the artifacts directory, and
// validates that the payload actually decodes as an image.
//
// Thread safety: safe for concurrent use; each download is an independent
// request and file.
type Downloader struct {
	client *http.Client
	dir    string
	log    *logging.Logger
}

// DownloaderConfig holds configuration for the downloader.
type DownloaderConfig struct {
	// Dir is the directory for downloaded artifacts (default "artifacts").
	Dir string

	// Timeout bounds a single download (default 60s).
	Timeout time.Duration

	// HTTPClient overrides the transport; nil gets a default.
	HTTPClient *http.Client
}

// NewDownloader creates an artifact downloader, ensuring the artifacts
// directory exists.
func NewDownloader(cfg DownloaderConfig, logger *logging.Logger) (*Downloader, error) {
	if logger == nil {
		return nil, fmt.Errorf("inference: logger cannot be nil")
	}

	dir := cfg.Dir
	if dir == "" {
		dir = "artifacts"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("inference: failed to create artifacts directory: %w", err)
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 60 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	return &Downloader{
		client: client,
		dir:    dir,
		log:    logger.Named("downloader"),
	}, nil
}

// DownloadResult describes a downloaded artifact.
type DownloadResult struct {
	// Path is the local file path.
	Path string

	// Size is the payload size in bytes.
	Size int64

	// Width and Height are the decoded image dimensions.
	Width  int
	Height int
}

// Download fetches the image at url and writes it to the artifacts
// directory under the given base name (extension chosen from the decoded
// format). The payload must decode as an image; anything else is an error.
func (d *Downloader) Download(ctx context.Context, url, name string) (*DownloadResult, error) {
	if url == "" {
		return nil, fmt.Errorf("inference: download URL cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("inference: artifact name cannot be empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("inference: failed to build download request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference: download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference: download returned status %d", resp.StatusCode)
	}

	// Generated images are at most a few MB; 50MB is a sanity bound.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 50<<20))
	if err != nil {
		return nil, fmt.Errorf("inference: failed to read download: %w", err)
	}

	config, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("inference: downloaded payload is not a decodable image: %w", err)
	}

	path := filepath.Join(d.dir, name+"."+extensionFor(format))
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return nil, fmt.Errorf("inference: failed to write artifact: %w", err)
	}

	d.log.Debug("artifact downloaded",
		zap.String("path", path),
		zap.String("format", format),
		zap.Int("bytes", len(raw)))

	return &DownloadResult{
		Path:   path,
		Size:   int64(len(raw)),
		Width:  config.Width,
		Height: config.Height,
	}, nil
}

// SaveDataURL decodes a data URL (the direct generation path returns one)
// and writes it to the artifacts directory with the same validation as a
// remote download.
func (d *Downloader) SaveDataURL(dataURL, name string) (*DownloadResult, error) {
	if name == "" {
		return nil, fmt.Errorf("inference: artifact name cannot be empty")
	}
	_, encoded, found := strings.Cut(dataURL, ";base64,")
	if !found || !IsDataURL(dataURL) {
		return nil, fmt.Errorf("inference: not a base64 data URL")
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("inference: failed to decode data URL payload: %w", err)
	}

	config, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("inference: data URL payload is not a decodable image: %w", err)
	}

	path := filepath.Join(d.dir, name+"."+extensionFor(format))
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return nil, fmt.Errorf("inference: failed to write artifact: %w", err)
	}

	d.log.Debug("artifact saved from data URL",
		zap.String("path", path),
		zap.String("format", format),
		zap.Int("bytes", len(raw)))

	return &DownloadResult{
		Path:   path,
		Size:   int64(len(raw)),
		Width:  config.Width,
		Height: config.Height,
	}, nil
}

// Dir returns the artifacts directory.
func (d *Downloader) Dir() string {
	return d.dir
}

func extensionFor(format string) string {
	switch format {
	case "jpeg":
		return "jpg"
	case "":
		return "img"
	default:
		return format
	}
}
