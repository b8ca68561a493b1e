// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package backend

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// UploadPrefix is the URL path under which DiskStore objects are served.
const UploadPrefix = "/uploads/"

// DiskStore implements Files by writing objects below a local directory.
type DiskStore struct {
	dir      string
	baseURL  string
	maxBytes int64
}

// NewDiskStore stores objects in dir and builds public URLs from baseURL.
// Objects larger than maxBytes are refused with ErrTooLarge.
func NewDiskStore(dir, baseURL string, maxBytes int64) *DiskStore {
	return &DiskStore{
		dir:      dir,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
	}
}

// UploadFile writes data at the slash-separated object path and returns its
// public URL. The write goes through a temp file so readers never see a
// partial object.
func (s *DiskStore) UploadFile(ctx context.Context, data []byte, objectPath string) (string, error) {
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return "", ErrTooLarge
	}

	clean := path.Clean(objectPath)
	if objectPath == "" || !filepath.IsLocal(filepath.FromSlash(clean)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, objectPath)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	dest := filepath.Join(s.dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("%w: create directory: %v", ErrNetwork, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("%w: create temp file: %v", ErrNetwork, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: write object: %v", ErrNetwork, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: close object: %v", ErrNetwork, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("%w: chmod object: %v", ErrNetwork, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("%w: publish object: %v", ErrNetwork, err)
	}

	url := s.baseURL + UploadPrefix + clean
	slog.Info("file uploaded", "path", clean, "bytes", len(data))
	return url, nil
}
