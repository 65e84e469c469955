package client

import (
	"context"
	"lanchat/errors"
	"lanchat/infrastructure/fileserver"
	"lanchat/infrastructure/storage"
	"lanchat/mocks"
	"lanchat/observability"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newFileClient(t *testing.T) (*FileClient, *mocks.MockAnnouncer) {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	store, err := storage.NewDiskFileStore(t.TempDir(), log)
	require.NoError(t, err)
	announcer := mocks.NewMockAnnouncer(gomock.NewController(t))
	srv := httptest.NewServer(fileserver.NewServer(log, store, announcer,
		observability.NewMetrics(prometheus.NewRegistry())).Handler())
	t.Cleanup(srv.Close)
	return NewFileClient(srv.URL, filepath.Join(t.TempDir(), "downloads"), srv.Client()), announcer
}

func TestFileClient_Upload_Then_Download(t *testing.T) {
	req := require.New(t)
	files, announcer := newFileClient(t)
	announcer.EXPECT().Announce(">>> Server received file: holiday.txt").Times(2)

	// Given a local file
	local := filepath.Join(t.TempDir(), "holiday.txt")
	req.NoError(os.WriteFile(local, []byte("sunny"), 0o644))

	// When it is uploaded twice
	name, created, err := files.Upload(context.Background(), local)
	req.NoError(err)
	req.Equal("holiday.txt", name)
	req.True(created)
	_, created, err = files.Upload(context.Background(), local)
	req.NoError(err)
	req.False(created)

	// Then it can be downloaded into the download directory
	path, err := files.Download(context.Background(), "holiday.txt")
	req.NoError(err)
	req.Equal(filepath.Join(files.downloadDir, "holiday.txt"), path)
	data, err := os.ReadFile(path)
	req.NoError(err)
	req.Equal("sunny", string(data))
}

func TestFileClient_Download_Missing(t *testing.T) {
	req := require.New(t)
	files, _ := newFileClient(t)

	_, err := files.Download(context.Background(), "nothing.zip")

	req.ErrorIs(err, errors.ErrFileNotFound)
	_, statErr := os.Stat(filepath.Join(files.downloadDir, "nothing.zip"))
	req.True(os.IsNotExist(statErr))
}

func TestFileClient_Upload_Missing_Local_File(t *testing.T) {
	files, _ := newFileClient(t)

	_, _, err := files.Upload(context.Background(), filepath.Join(t.TempDir(), "ghost.txt"))

	require.Error(t, err)
}

func TestFileClient_Escapes_Names(t *testing.T) {
	req := require.New(t)
	files, announcer := newFileClient(t)
	announcer.EXPECT().Announce(">>> Server received file: my notes #1.txt")

	local := filepath.Join(t.TempDir(), "my notes #1.txt")
	req.NoError(os.WriteFile(local, []byte("x"), 0o644))

	_, created, err := files.Upload(context.Background(), local)
	req.NoError(err)
	req.True(created)

	path, err := files.Download(context.Background(), "my notes #1.txt")
	req.NoError(err)
	req.Equal("my notes #1.txt", filepath.Base(path))
}
