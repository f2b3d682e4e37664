// Package strm materializes classification results in a local media library.
package strm

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"strmsync/internal/classify"
)

const Ext = ".strm"

var ErrNoBaseURL = errors.New("stream base URL is not configured")

// Writer maps drive paths under MediaDir onto LibraryDir.
type Writer struct {
	LibraryDir string
	BaseURL    string
	MediaDir   string
}

func NewWriter(libraryDir, baseURL, mediaDir string) (*Writer, error) {
	if strings.TrimSpace(libraryDir) == "" {
		return nil, errors.New("local media library directory is not configured")
	}
	return &Writer{
		LibraryDir: libraryDir,
		BaseURL:    strings.TrimSpace(baseURL),
		MediaDir:   mediaDir,
	}, nil
}

func cleanDrivePath(p string) string {
	p = strings.Trim(strings.ReplaceAll(strings.TrimSpace(p), `\`, "/"), "/")
	return path.Clean("/" + p)
}

// relPath returns pathInPan relative to MediaDir. Paths outside the media
// root keep their full drive path.
func (w *Writer) relPath(pathInPan string) string {
	p := cleanDrivePath(pathInPan)
	root := cleanDrivePath(w.MediaDir)
	if root != "/" && classify.InMediaDir(p, root) {
		p = strings.TrimPrefix(p, root)
	}
	return strings.TrimPrefix(p, "/")
}

// LocalPath is where the file behind pathInPan lives inside the library.
func (w *Writer) LocalPath(pathInPan string) string {
	return filepath.Join(w.LibraryDir, filepath.FromSlash(w.relPath(pathInPan)))
}

// StrmPath swaps the media extension for .strm.
func (w *Writer) StrmPath(pathInPan string) string {
	local := w.LocalPath(pathInPan)
	return strings.TrimSuffix(local, filepath.Ext(local)) + Ext
}

func (w *Writer) URL(r classify.StreamResult) (string, error) {
	if w.BaseURL == "" {
		return "", ErrNoBaseURL
	}
	q := url.Values{}
	q.Set("pickcode", r.Pickcode)
	q.Set("file_name", r.OriginalFileName)

	sep := "?"
	if strings.Contains(w.BaseURL, "?") {
		sep = "&"
	}
	return w.BaseURL + sep + q.Encode(), nil
}

// WriteStream writes the .strm file for r. It reports false without touching
// the file when the content on disk is already current.
func (w *Writer) WriteStream(r classify.StreamResult) (string, bool, error) {
	link, err := w.URL(r)
	if err != nil {
		return "", false, err
	}
	target := w.StrmPath(r.PathInPan)
	content := []byte(link + "\n")

	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, content) {
		return target, false, nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create directory for %s: %w", target, err)
	}
	if err := os.WriteFile(target, content, 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write %s: %w", target, err)
	}
	return target, true, nil
}

// DownloadTarget is the local destination of a metadata file.
func (w *Writer) DownloadTarget(r classify.DownloadResult) string {
	return w.LocalPath(r.PathInPan)
}
