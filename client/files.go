package client

import (
	"context"
	"fmt"
	"io"
	"lanchat/errors"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileClient talks to the file sideband of the relay.
type FileClient struct {
	baseURL     string
	downloadDir string
	http        *http.Client
}

func NewFileClient(baseURL, downloadDir string, httpClient *http.Client) *FileClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &FileClient{baseURL: baseURL, downloadDir: downloadDir, http: httpClient}
}

func (f *FileClient) fileURL(name string) string {
	return f.baseURL + "/" + url.PathEscape(name)
}

// Upload sends a local file under its base name. created is false when the
// server replaced a file of the same name.
func (f *FileClient) Upload(ctx context.Context, path string) (name string, created bool, err error) {
	file, err := os.Open(path)
	if err != nil {
		return "", false, err
	}
	defer file.Close()

	name = filepath.Base(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, f.fileURL(name), file)
	if err != nil {
		return "", false, err
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return "", false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		return name, true, nil
	case http.StatusOK:
		return name, false, nil
	default:
		return "", false, fmt.Errorf("upload of %s refused: %s", name, resp.Status)
	}
}

// Download stores a remote file in the download directory and returns its local path.
func (f *FileClient) Download(ctx context.Context, name string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.fileURL(name), nil)
	if err != nil {
		return "", err
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return "", fmt.Errorf("%w: %s", errors.ErrFileNotFound, name)
	default:
		return "", fmt.Errorf("download of %s refused: %s", name, resp.Status)
	}

	if err = os.MkdirAll(f.downloadDir, 0o755); err != nil {
		return "", err
	}
	target := filepath.Join(f.downloadDir, filepath.Base(name))
	tmpPath := filepath.Join(f.downloadDir, "."+uuid.NewString()+".part")
	if err = writeFile(tmpPath, resp.Body); err != nil {
		_ = os.Remove(tmpPath)
		return "", err
	}
	if err = os.Rename(tmpPath, target); err != nil {
		_ = os.Remove(tmpPath)
		return "", err
	}
	return target, nil
}

func writeFile(path string, content io.Reader) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err = io.Copy(file, content); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
