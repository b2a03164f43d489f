package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/forgo/raidsign/internal/database"
)

// Pinger is anything whose connection can be probed
type Pinger interface {
	Ping(ctx context.Context) error
}

// Reconnector is a Pinger that can replace a dropped connection
type Reconnector interface {
	Reconnect(ctx context.Context) error
}

// StoreHealthMonitor pings the raid store on an interval. It logs once when
// the store becomes unreachable and once when it recovers. When the store is
// a Reconnector, a lost connection is redialed before the probe gives up.
type StoreHealthMonitor struct {
	store    Pinger
	interval time.Duration
	timeout  time.Duration

	failures atomic.Int64
	stopCh   chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

// NewStoreHealthMonitor creates a monitor. interval defaults to one minute.
func NewStoreHealthMonitor(store Pinger, interval time.Duration) *StoreHealthMonitor {
	if interval == 0 {
		interval = 1 * time.Minute
	}
	return &StoreHealthMonitor{
		store:    store,
		interval: interval,
		timeout:  5 * time.Second,
	}
}

// Start begins probing in the background. A stopped monitor can be started
// again.
func (m *StoreHealthMonitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.stopCh = make(chan struct{})
	stop := m.stopCh
	m.wg.Add(1)
	m.mu.Unlock()

	go m.run(stop)
	slog.Info("store health monitor started", slog.Duration("interval", m.interval))
}

// Stop ends probing and waits for the loop to exit
func (m *StoreHealthMonitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	close(m.stopCh)
	m.mu.Unlock()

	m.wg.Wait()
	slog.Info("store health monitor stopped")
}

// Run starts the monitor and stops it when ctx is done
func (m *StoreHealthMonitor) Run(ctx context.Context) error {
	m.Start()
	<-ctx.Done()
	m.Stop()
	return nil
}

// Healthy reports whether the most recent probe succeeded
func (m *StoreHealthMonitor) Healthy() bool {
	return m.failures.Load() == 0
}

// ConsecutiveFailures returns the number of failed probes since the last success
func (m *StoreHealthMonitor) ConsecutiveFailures() int64 {
	return m.failures.Load()
}

func (m *StoreHealthMonitor) run(stop <-chan struct{}) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Probe()
		case <-stop:
			return
		}
	}
}

// Probe pings the store once and records the outcome
func (m *StoreHealthMonitor) Probe() {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	err := m.store.Ping(ctx)
	if err != nil && m.reconnect(ctx, err) {
		err = m.store.Ping(ctx)
	}

	if err != nil {
		if n := m.failures.Add(1); n == 1 {
			slog.Warn("raid store unreachable", slog.String("error", err.Error()))
		}
		return
	}

	if prev := m.failures.Swap(0); prev > 0 {
		slog.Info("raid store reachable again", slog.Int64("failed_probes", prev))
	}
}

// reconnect redials after a lost connection and reports whether it worked
func (m *StoreHealthMonitor) reconnect(ctx context.Context, err error) bool {
	r, ok := m.store.(Reconnector)
	if !ok || !errors.Is(err, database.ErrConnection) {
		return false
	}
	if rerr := r.Reconnect(ctx); rerr != nil {
		slog.Debug("raid store reconnect failed", slog.String("error", rerr.Error()))
		return false
	}
	return true
}
