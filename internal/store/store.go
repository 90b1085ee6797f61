package store

import (
	"sync"
	"time"

	"github.com/Capitan-Parrot/surveillance-console/internal/models"
	"github.com/samber/lo"
)

// Snapshot — неизменяемое состояние консоли. Apply никогда не мутирует
// снапшот на месте: карты и срезы копируются перед изменением.
type Snapshot struct {
	Overview   *models.Overview
	Towers     []models.Tower
	Cameras    []models.Camera
	Alarms     []models.Alarm
	Loading    map[ResourceKey]bool
	Errors     map[ResourceKey]string
	Connection ConnectionStatus
	LastUpdate time.Time
}

// NewSnapshot возвращает начальное состояние до первого опроса
func NewSnapshot() Snapshot {
	return Snapshot{
		Loading:    map[ResourceKey]bool{},
		Errors:     map[ResourceKey]string{},
		Connection: Disconnected,
	}
}

// Apply — чистая тотальная функция переходов состояния
func Apply(snap Snapshot, cmd Command) Snapshot {
	switch c := cmd.(type) {
	case SetLoading:
		next := snap
		next.Loading = withFlag(snap.Loading, c.Key, c.Value)
		return next

	case SetError:
		next := snap
		next.Errors = withError(snap.Errors, c.Key, c.Message)
		next.Loading = withFlag(snap.Loading, c.Key, false)
		return next

	case ClearError:
		if _, ok := snap.Errors[c.Key]; !ok {
			return snap
		}
		next := snap
		next.Errors = withoutError(snap.Errors, c.Key)
		return next

	case SetOverview:
		next := snap
		overview := c.Overview
		next.Overview = &overview
		next.Loading = withFlag(snap.Loading, ResourceOverview, false)
		next.Errors = withoutError(snap.Errors, ResourceOverview)
		next.LastUpdate = c.FetchedAt
		return next

	case SetTowers:
		next := snap
		next.Towers = c.Towers
		next.Loading = withFlag(snap.Loading, ResourceTowers, false)
		next.Errors = withoutError(snap.Errors, ResourceTowers)
		return next

	case SetCameras:
		next := snap
		next.Cameras = c.Cameras
		next.Loading = withFlag(snap.Loading, ResourceCameras, false)
		next.Errors = withoutError(snap.Errors, ResourceCameras)
		return next

	case SetAlarms:
		next := snap
		next.Alarms = c.Alarms
		next.Loading = withFlag(snap.Loading, ResourceAlarms, false)
		next.Errors = withoutError(snap.Errors, ResourceAlarms)
		return next

	case AddAlarm:
		next := snap
		alarms := make([]models.Alarm, 0, len(snap.Alarms)+1)
		alarms = append(alarms, c.Alarm)
		alarms = append(alarms, snap.Alarms...)
		next.Alarms = alarms
		if snap.Overview != nil {
			overview := *snap.Overview
			overview.ActiveAlarmsCount++
			next.Overview = &overview
		}
		return next

	case UpdateTower:
		_, idx, found := lo.FindIndexOf(snap.Towers, func(t models.Tower) bool { return t.ID == c.ID })
		if !found {
			return snap
		}
		next := snap
		towers := make([]models.Tower, len(snap.Towers))
		copy(towers, snap.Towers)
		towers[idx] = mergeTower(towers[idx], c.Patch)
		next.Towers = towers
		return next

	case UpdateCamera:
		_, idx, found := lo.FindIndexOf(snap.Cameras, func(cam models.Camera) bool { return cam.ID == c.ID })
		if !found {
			return snap
		}
		next := snap
		cameras := make([]models.Camera, len(snap.Cameras))
		copy(cameras, snap.Cameras)
		cameras[idx] = mergeCamera(cameras[idx], c.Patch)
		next.Cameras = cameras
		return next

	case UpdateAlarm:
		_, idx, found := lo.FindIndexOf(snap.Alarms, func(a models.Alarm) bool { return a.ID == c.ID })
		if !found {
			return snap
		}
		next := snap
		alarms := make([]models.Alarm, len(snap.Alarms))
		copy(alarms, snap.Alarms)
		alarms[idx] = mergeAlarm(alarms[idx], c.Patch)
		next.Alarms = alarms
		return next

	case SetConnectionStatus:
		next := snap
		next.Connection = c.Status
		return next

	default:
		return snap
	}
}

func withFlag(flags map[ResourceKey]bool, key ResourceKey, value bool) map[ResourceKey]bool {
	next := make(map[ResourceKey]bool, len(flags)+1)
	for k, v := range flags {
		next[k] = v
	}
	next[key] = value
	return next
}

func withError(errs map[ResourceKey]string, key ResourceKey, message string) map[ResourceKey]string {
	next := make(map[ResourceKey]string, len(errs)+1)
	for k, v := range errs {
		next[k] = v
	}
	next[key] = message
	return next
}

func withoutError(errs map[ResourceKey]string, key ResourceKey) map[ResourceKey]string {
	if _, ok := errs[key]; !ok {
		return errs
	}
	next := make(map[ResourceKey]string, len(errs))
	for k, v := range errs {
		if k != key {
			next[k] = v
		}
	}
	return next
}

func mergeTower(t models.Tower, p TowerPatch) models.Tower {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Code != nil {
		t.Code = *p.Code
	}
	if p.Location != nil {
		t.Location = *p.Location
	}
	if p.IPAddress != nil {
		t.IPAddress = *p.IPAddress
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	return t
}

func mergeCamera(c models.Camera, p CameraPatch) models.Camera {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.RTSPURL != nil {
		c.RTSPURL = *p.RTSPURL
	}
	if p.Resolution != nil {
		c.Resolution = *p.Resolution
	}
	if p.FPS != nil {
		c.FPS = *p.FPS
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	return c
}

func mergeAlarm(a models.Alarm, p AlarmPatch) models.Alarm {
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.AcknowledgedBy != nil {
		a.AcknowledgedBy = *p.AcknowledgedBy
	}
	if p.AcknowledgedAt != nil {
		a.AcknowledgedAt = p.AcknowledgedAt
	}
	if p.ResolvedBy != nil {
		a.ResolvedBy = *p.ResolvedBy
	}
	if p.ResolvedAt != nil {
		a.ResolvedAt = p.ResolvedAt
	}
	return a
}

// Store сериализует применение команд. Единственный общий изменяемый
// ресурс: планировщик, шлюз действий и приём тревог пишут только через
// Dispatch. Команда, пришедшая после остановки потребителей, просто
// изменит снапшот, который никто не прочитает.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot
}

func New() *Store {
	return &Store{snap: NewSnapshot()}
}

func (s *Store) Dispatch(cmd Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = Apply(s.snap, cmd)
}

// State возвращает текущий снапшот; он неизменяемый, копировать не нужно
func (s *Store) State() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
