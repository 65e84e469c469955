package storage

import (
	goerrors "errors"
	"fmt"
	"io"
	"lanchat/domain"
	"lanchat/errors"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

const filePrefix = "file:"

// BadgerFileStore keeps every upload as one value under "file:{name}".
type BadgerFileStore struct {
	db  *badger.DB
	log *slog.Logger
}

func NewBadgerFileStore(db *badger.DB, log *slog.Logger) *BadgerFileStore {
	return &BadgerFileStore{db: db, log: log}
}

// OpenBadger opens (or creates) the database stored under path.
func OpenBadger(path string) (*badger.DB, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("opening badger at %s: %w", path, err)
	}
	return db, nil
}

func fileKey(name string) []byte {
	return []byte(filePrefix + name)
}

// Put reads the whole content first: a badger transaction must stay short.
func (s *BadgerFileStore) Put(name string, content io.Reader) (bool, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", name, err)
	}

	var created bool
	err = s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(fileKey(name))
		switch {
		case goerrors.Is(err, badger.ErrKeyNotFound):
			created = true
		case err != nil:
			return err
		}
		return txn.Set(fileKey(name), data)
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (s *BadgerFileStore) Get(name string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(fileKey(name))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if goerrors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", errors.ErrFileNotFound, name)
	}
	return data, err
}

// List walks the keys only, sizes come from the item metadata.
func (s *BadgerFileStore) List() ([]domain.StoredFile, error) {
	var files []domain.StoredFile
	prefix := []byte(filePrefix)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			files = append(files, domain.StoredFile{
				Name: strings.TrimPrefix(string(item.Key()), filePrefix),
				Size: item.ValueSize(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	return files, nil
}

func (s *BadgerFileStore) Close() error {
	return s.db.Close()
}
