package storage

import (
	goerrors "errors"
	"fmt"
	"io"
	"io/fs"
	"lanchat/domain"
	"lanchat/errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const partialSuffix = ".part"

// DiskFileStore keeps uploads as plain files in one directory.
// Content is written to a uuid-named temp file, then renamed into place,
// so readers never see a half written file.
type DiskFileStore struct {
	dir string
	log *slog.Logger
}

func NewDiskFileStore(dir string, log *slog.Logger) (*DiskFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating files dir %s: %w", dir, err)
	}
	return &DiskFileStore{dir: dir, log: log}, nil
}

func (s *DiskFileStore) Put(name string, content io.Reader) (bool, error) {
	target := filepath.Join(s.dir, name)
	_, statErr := os.Stat(target)
	created := goerrors.Is(statErr, fs.ErrNotExist)

	tmpPath := filepath.Join(s.dir, "."+uuid.NewString()+partialSuffix)
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return false, err
	}
	if _, err = io.Copy(tmp, content); err != nil {
		_ = tmp.Close()
		s.discard(tmpPath)
		return false, fmt.Errorf("writing %s: %w", name, err)
	}
	if err = tmp.Close(); err != nil {
		s.discard(tmpPath)
		return false, err
	}
	if err = os.Rename(tmpPath, target); err != nil {
		s.discard(tmpPath)
		return false, err
	}
	return created, nil
}

func (s *DiskFileStore) Get(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if goerrors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", errors.ErrFileNotFound, name)
	}
	return data, err
}

func (s *DiskFileStore) List() ([]domain.StoredFile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var files []domain.StoredFile
	for _, entry := range entries {
		if entry.IsDir() || strings.HasSuffix(entry.Name(), partialSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info
			continue
		}
		files = append(files, domain.StoredFile{Name: entry.Name(), Size: info.Size()})
	}
	return files, nil
}

func (s *DiskFileStore) Close() error {
	return nil
}

func (s *DiskFileStore) discard(path string) {
	if err := os.Remove(path); err != nil && !goerrors.Is(err, fs.ErrNotExist) {
		s.log.Warn("Could not remove partial upload", "path", path, "error", err)
	}
}
