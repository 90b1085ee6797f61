package sync

import (
	"context"
	"log"
	"time"

	"github.com/Capitan-Parrot/surveillance-console/internal/api"
	"github.com/Capitan-Parrot/surveillance-console/internal/store"
)

// Monitor — периодическая проба /health. Единственный писатель поля
// Connection в сторе. Без ретраев и бэкоффа, только фиксированный период.
type Monitor struct {
	store    *store.Store
	client   *api.Client
	interval time.Duration
}

func NewMonitor(st *store.Store, client *api.Client, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = defaultHealthInterval
	}
	return &Monitor{store: st, client: client, interval: interval}
}

// Start блокируется до отмены ctx; запускать в горутине
func (m *Monitor) Start(ctx context.Context) {
	m.Probe(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Monitor: stopped")
			return
		case <-ticker.C:
			m.Probe(ctx)
		}
	}
}

// Probe выполняет одну пробу: connected ровно тогда, когда проба успешна
func (m *Monitor) Probe(ctx context.Context) {
	status := store.Connected
	if err := m.client.Health(ctx); err != nil {
		status = store.Disconnected
	}
	m.store.Dispatch(store.SetConnectionStatus{Status: status})
}
