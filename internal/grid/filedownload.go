package grid

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileDownload is a client for the GRID file-download API.
type FileDownload struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewFileDownload returns a file-download client authenticated with the given
// API key. The timeout is generous because series artifacts run to hundreds
// of megabytes.
func NewFileDownload(baseURL, apiKey string) *FileDownload {
	return &FileDownload{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 5 * time.Minute},
	}
}

// File is one downloadable artifact of a series.
type File struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Status      string `json:"status"`
	FileName    string `json:"fileName"`
	FullURL     string `json:"fullURL"`
}

// Ready reports whether the artifact can be downloaded yet.
func (f File) Ready() bool {
	return strings.EqualFold(f.Status, "ready")
}

// ListFiles returns the artifacts available for a series.
func (c *FileDownload) ListFiles(ctx context.Context, seriesID string) ([]File, error) {
	url := fmt.Sprintf("%s/list/%s", c.baseURL, seriesID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("grid: GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("grid: GET %s: HTTP %d", url, resp.StatusCode)
	}

	var listing struct {
		Files []File `json:"files"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("grid: decode file listing: %w", err)
	}
	return listing.Files, nil
}

// DownloadTo streams an artifact to outPath, creating parent directories as
// needed. The file is written via a temp name and renamed so a failed
// download never leaves a truncated artifact behind.
func (c *FileDownload) DownloadTo(ctx context.Context, fullURL, outPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("grid: GET %s: %w", fullURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("grid: GET %s: HTTP %d", fullURL, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	tmp := outPath + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("grid: download %s: %w", fullURL, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, outPath)
}

// UnzipFirstJSONL extracts the first .jsonl entry of a zip archive to
// outPath. Series event archives contain exactly one.
func UnzipFirstJSONL(zipPath, outPath string) error {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("grid: open %s: %w", zipPath, err)
	}
	defer zr.Close()

	for _, entry := range zr.File {
		if !strings.HasSuffix(entry.Name, ".jsonl") {
			continue
		}
		src, err := entry.Open()
		if err != nil {
			return err
		}
		defer src.Close()

		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return err
		}
		dst, err := os.Create(outPath)
		if err != nil {
			return err
		}
		if _, err := io.Copy(dst, src); err != nil {
			dst.Close()
			return err
		}
		return dst.Close()
	}
	return fmt.Errorf("grid: no .jsonl entry inside %s", filepath.Base(zipPath))
}
