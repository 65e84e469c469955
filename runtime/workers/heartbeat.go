package workers

import (
	"context"
	"lanchat/contract"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shirou/gopsutil/process"
)

type HeartbeatWorker struct {
	log      *slog.Logger
	clock    clockwork.Clock
	interval time.Duration
	peers    contract.PeerCounter
}

func NewHeartbeatWorker(log *slog.Logger, clock clockwork.Clock, interval time.Duration, peers contract.PeerCounter) *HeartbeatWorker {
	return &HeartbeatWorker{
		log:      log,
		clock:    clock,
		interval: interval,
		peers:    peers,
	}
}

// Run logs peer counts, the outbound backlog and process health (CPU, RAM) at every tick.
func (w *HeartbeatWorker) Run(ctx context.Context) error {
	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		w.log.Warn("Process stats unavailable", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			connected, named := w.peers.Counts()
			attrs := []any{"connected", connected, "named", named, "queued_frames", w.peers.Backlog()}
			if p != nil {
				rss, cpu, err := selfStats(p)
				if err != nil {
					w.log.Debug("Failed to collect self stats", "error", err)
				} else {
					attrs = append(attrs, "rss_bytes", rss, "cpu_percent", cpu)
				}
			}
			w.log.Info("Heartbeat", attrs...)
		}
	}
}

func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
