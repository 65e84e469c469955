package storage

import (
	"fmt"
	"lanchat/contract"
	"lanchat/errors"
	"log/slog"
)

const (
	DiskBackend   = "disk"
	BadgerBackend = "badger"
)

// OpenFileStore builds the backend named by kind.
func OpenFileStore(log *slog.Logger, kind, filesDir, badgerPath string) (contract.FileStore, error) {
	switch kind {
	case DiskBackend:
		store, err := NewDiskFileStore(filesDir, log)
		if err != nil {
			return nil, err
		}
		return store, nil
	case BadgerBackend:
		db, err := OpenBadger(badgerPath)
		if err != nil {
			return nil, err
		}
		return NewBadgerFileStore(db, log), nil
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownFileStore, kind)
	}
}
