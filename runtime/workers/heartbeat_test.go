package workers

import (
	"context"
	"lanchat/mocks"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestHeartbeatWorker_Reports_On_Every_Tick(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	peers := mocks.NewMockPeerCounter(ctrl)
	clock := clockwork.NewFakeClock()

	ticks := make(chan struct{}, 2)
	peers.EXPECT().
		Counts().
		DoAndReturn(func() (int, int) {
			ticks <- struct{}{}
			return 3, 2
		}).
		Times(2)
	peers.EXPECT().Backlog().Return(7).Times(2)

	worker := NewHeartbeatWorker(log, clock, time.Minute, peers)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	// Given the ticker is armed
	clock.BlockUntil(1)

	// When two intervals elapse
	for i := 0; i < 2; i++ {
		clock.Advance(time.Minute)
		select {
		case <-ticks:
		case <-time.After(2 * time.Second):
			req.Fail("heartbeat did not tick")
		}
	}

	// Then the worker stops cleanly with its context
	cancel()
	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(2 * time.Second):
		req.Fail("heartbeat did not stop")
	}
}
