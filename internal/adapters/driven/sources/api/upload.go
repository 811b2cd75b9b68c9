package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/custodia-labs/salesboard/internal/core/domain"
	"github.com/custodia-labs/salesboard/internal/logger"
)

// UploadField is the multipart form field carrying the file.
const UploadField = "file"

// MaxUploadSize is the largest file accepted for upload, 10 MB.
const MaxUploadSize = 10 * 1024 * 1024

// UploadURL returns where files are uploaded. The "upload_url" config
// key wins; otherwise "upload" is resolved against the fetch endpoint,
// so /api/getsales uploads to /api/upload.
func (s *Source) UploadURL() (string, error) {
	if v := s.source.Config[ConfigUploadURL]; v != "" {
		u, err := url.Parse(v)
		if err != nil {
			return "", fmt.Errorf("%w: parse upload url: %v", domain.ErrInvalidInput, err)
		}
		return s.endpoint.ResolveReference(u).String(), nil
	}
	return s.endpoint.ResolveReference(&url.URL{Path: "upload"}).String(), nil
}

// Upload POSTs the file at path to the backend as multipart form data.
func (s *Source) Upload(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}
	if info.Size() > MaxUploadSize {
		return fmt.Errorf("%w: file size must be under %d MB", domain.ErrInvalidInput, MaxUploadSize/(1024*1024))
	}

	target, err := s.UploadURL()
	if err != nil {
		return err
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer f.Close()

	// Stream the form so the file is never held in memory.
	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		part, err := form.CreateFormFile(UploadField, filepath.Base(path))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		if err == nil {
			err = form.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, pr)
	if err != nil {
		pr.Close()
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return s.wrapError(err, "upload")
	}
	defer resp.Body.Close()

	logger.Debug("POST %s -> %d in %v", target, resp.StatusCode, time.Since(start))

	if err := checkResponse(resp, target); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	logger.Info("Uploaded %s (%d bytes)", filepath.Base(path), info.Size())
	return nil
}
