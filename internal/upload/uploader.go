package upload

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"trun/internal/domain"
)

// Uploader forwards a run's result directory to the reporting sink.
// Reporting is a side channel: every failure here is a warning and
// never changes the process exit code.
type Uploader struct {
	endpoint string
	client   *http.Client
	log      zerolog.Logger
}

// NewUploader creates an Uploader for the configured endpoint
func NewUploader(endpoint string, log zerolog.Logger) *Uploader {
	return &Uploader{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
		log:      log,
	}
}

// Upload POSTs the run directory as a gzipped tarball. Returns an
// UploadError on any failure; callers log it and move on.
func (u *Uploader) Upload(ctx context.Context, runDir, runID string) error {
	if u.endpoint == "" {
		u.log.Debug().Msg("no reporting endpoint configured, skipping upload")
		return nil
	}

	archive, err := tarDirectory(runDir)
	if err != nil {
		return &domain.UploadError{Endpoint: u.endpoint, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, bytes.NewReader(archive))
	if err != nil {
		return &domain.UploadError{Endpoint: u.endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/gzip")
	req.Header.Set("X-Trun-Run-Id", runID)

	resp, err := u.client.Do(req)
	if err != nil {
		return &domain.UploadError{Endpoint: u.endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &domain.UploadError{
			Endpoint: u.endpoint,
			Err:      fmt.Errorf("reporting endpoint returned status %d: %s", resp.StatusCode, body),
		}
	}

	u.log.Info().Str("endpoint", u.endpoint).Int("bytes", len(archive)).Msg("results uploaded")
	return nil
}

// tarDirectory packs a directory into an in-memory gzipped tarball
func tarDirectory(root string) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = rel
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("archive %s: %w", root, err)
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
