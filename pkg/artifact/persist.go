// Package artifact downloads a generated artifact and persists it to local
// storage.
package artifact

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const logPrefix = "artifact:store"

// DownloadError is a non-success reply while fetching an artifact.
type DownloadError struct {
	// Status is the upstream status text.
	Status string
}

// Error implements the error interface.
func (e *DownloadError) Error() string {
	return fmt.Sprintf("download failed: %s", e.Status)
}

// Store persists fetched artifacts under an output directory.
type Store struct {
	httpClient *http.Client
	outputDir  string
}

// NewStore creates a Store writing under outputDir. A nil httpClient uses a
// plain client; the fetch deadline comes from the invocation context.
func NewStore(outputDir string, httpClient *http.Client) *Store {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Store{httpClient: httpClient, outputDir: outputDir}
}

// Save fetches the artifact at url and writes it to targetPath, or to a
// derived timestamped path when targetPath is empty. Parent directories are
// created as needed; an existing file at the resolved path is overwritten.
func (s *Store) Save(ctx context.Context, url, targetPath, prefix, ext string) (string, error) {
	if targetPath == "" {
		targetPath = s.DerivePath(prefix, ext)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%s - build fetch request: %w", logPrefix, err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &DownloadError{Status: resp.Status}
	}

	if dir := filepath.Dir(targetPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("%s - create directory %s: %w", logPrefix, dir, err)
		}
	}

	f, err := os.Create(targetPath)
	if err != nil {
		return "", fmt.Errorf("%s - create %s: %w", logPrefix, targetPath, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(targetPath)
		return "", fmt.Errorf("%s - write %s: %w", logPrefix, targetPath, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%s - close %s: %w", logPrefix, targetPath, err)
	}

	return targetPath, nil
}

// timestampReplacer makes an RFC 3339 timestamp filename-safe.
var timestampReplacer = strings.NewReplacer(":", "-", ".", "-")

// DerivePath builds `{outputDir}/{prefix}-{timestamp}.{ext}` with a UTC
// RFC 3339 timestamp whose ':' and '.' are replaced by '-'.
func (s *Store) DerivePath(prefix, ext string) string {
	stamp := timestampReplacer.Replace(time.Now().UTC().Format(time.RFC3339))
	return filepath.Join(s.outputDir, fmt.Sprintf("%s-%s.%s", prefix, stamp, ext))
}
