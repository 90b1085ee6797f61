package sync

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/Capitan-Parrot/surveillance-console/internal/api"
	"github.com/Capitan-Parrot/surveillance-console/internal/store"
)

const (
	defaultOverviewInterval = 30 * time.Second
	defaultHealthInterval   = 10 * time.Second
)

// Scheduler держит вид консоли «живым» через периодический опрос.
// На старте выполняет по одному fetch каждого ресурса, дальше
// переопрашивает только сводку. Остановка — отмена ctx, тикер
// освобождается на любом пути выхода.
type Scheduler struct {
	store  *store.Store
	client *api.Client

	overviewInterval time.Duration

	// тик пропускается, пока предыдущий опрос сводки ещё в полёте;
	// ручной refresh это не затрагивает — он гоняется с таймером
	// по принципу last-settled-wins
	overviewBusy atomic.Bool
}

func New(st *store.Store, client *api.Client, overviewInterval time.Duration) *Scheduler {
	if overviewInterval <= 0 {
		overviewInterval = defaultOverviewInterval
	}
	return &Scheduler{
		store:            st,
		client:           client,
		overviewInterval: overviewInterval,
	}
}

// Start блокируется до отмены ctx; запускать в горутине
func (s *Scheduler) Start(ctx context.Context) {
	log.Println("Scheduler: initial fetch of all resources")
	go s.FetchOverview(ctx)
	go s.FetchTowers(ctx)
	go s.FetchCameras(ctx)
	go s.FetchAlarms(ctx)

	ticker := time.NewTicker(s.overviewInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Scheduler: stopped")
			return
		case <-ticker.C:
			if !s.overviewBusy.CompareAndSwap(false, true) {
				continue
			}
			go func() {
				defer s.overviewBusy.Store(false)
				s.FetchOverview(ctx)
			}()
		}
	}
}

// FetchOverview опрашивает сводку и применяет результат к стору
func (s *Scheduler) FetchOverview(ctx context.Context) {
	s.store.Dispatch(store.SetLoading{Key: store.ResourceOverview, Value: true})

	overview, err := s.client.GetOverview(ctx)
	if err != nil {
		s.fail(store.ResourceOverview, err)
		return
	}
	s.store.Dispatch(store.SetOverview{Overview: overview, FetchedAt: time.Now()})
}

func (s *Scheduler) FetchTowers(ctx context.Context) {
	s.store.Dispatch(store.SetLoading{Key: store.ResourceTowers, Value: true})

	towers, err := s.client.ListTowers(ctx)
	if err != nil {
		s.fail(store.ResourceTowers, err)
		return
	}
	s.store.Dispatch(store.SetTowers{Towers: towers})
}

func (s *Scheduler) FetchCameras(ctx context.Context) {
	s.store.Dispatch(store.SetLoading{Key: store.ResourceCameras, Value: true})

	cameras, err := s.client.ListCameras(ctx, "")
	if err != nil {
		s.fail(store.ResourceCameras, err)
		return
	}
	s.store.Dispatch(store.SetCameras{Cameras: cameras})
}

func (s *Scheduler) FetchAlarms(ctx context.Context) {
	s.store.Dispatch(store.SetLoading{Key: store.ResourceAlarms, Value: true})

	alarms, err := s.client.ListAlarms(ctx, api.AlarmFilter{})
	if err != nil {
		s.fail(store.ResourceAlarms, err)
		return
	}
	s.store.Dispatch(store.SetAlarms{Alarms: alarms})
}

func (s *Scheduler) fail(key store.ResourceKey, err error) {
	log.Printf("Scheduler: fetch %s failed: %v", key, err)
	s.store.Dispatch(store.SetError{Key: key, Message: Reason(err)})
}

// Reason возвращает сообщение бэкенда для APIError, иначе описание
// транспортной ошибки целиком
func Reason(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
