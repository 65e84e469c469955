package workers

import (
	"context"
	"io"
	"lanchat/errors"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestHTTPServerWorker_Serves_Until_Canceled(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	req.NoError(err)

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewHTTPServerWorker(log, "test", listener, handler).Run(ctx) }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/ping")
	req.NoError(err)
	body, err := io.ReadAll(resp.Body)
	req.NoError(err)
	req.NoError(resp.Body.Close())
	req.Equal("pong", string(body))

	cancel()
	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(2 * time.Second):
		req.Fail("http server did not stop")
	}
}

func TestHTTPServerWorker_Dead_Listener_Is_Fatal(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	req.NoError(err)
	req.NoError(listener.Close())

	err = NewHTTPServerWorker(log, "test", listener, http.NotFoundHandler()).Run(context.Background())

	req.ErrorIs(err, errors.ErrFatal)
}
