package store

import (
	"time"

	"github.com/Capitan-Parrot/surveillance-console/internal/models"
)

// ResourceKey — ключ ресурса для флагов загрузки и карты ошибок
type ResourceKey string

const (
	ResourceOverview ResourceKey = "overview"
	ResourceTowers   ResourceKey = "towers"
	ResourceCameras  ResourceKey = "cameras"
	ResourceAlarms   ResourceKey = "alarms"
)

type ConnectionStatus string

const (
	Connected    ConnectionStatus = "connected"
	Disconnected ConnectionStatus = "disconnected"
)

// Command — закрытое множество команд стора. Apply тотальна: неизвестная
// команда — no-op, возвращается тот же снапшот.
type Command interface {
	isCommand()
}

type SetLoading struct {
	Key   ResourceKey
	Value bool
}

// SetError записывает ошибку ресурса и принудительно снимает флаг загрузки
type SetError struct {
	Key     ResourceKey
	Message string
}

type ClearError struct {
	Key ResourceKey
}

// SetOverview заменяет сводку целиком. FetchedAt проставляет вызывающий,
// чтобы Apply оставалась чистой функцией.
type SetOverview struct {
	Overview  models.Overview
	FetchedAt time.Time
}

type SetTowers struct {
	Towers []models.Tower
}

type SetCameras struct {
	Cameras []models.Camera
}

type SetAlarms struct {
	Alarms []models.Alarm
}

// AddAlarm добавляет тревогу в начало списка без дедупликации по id.
// Инвариант «каждая тревога доставляется не более одного раза» держит
// вызывающий, не стор.
type AddAlarm struct {
	Alarm models.Alarm
}

type UpdateTower struct {
	ID    string
	Patch TowerPatch
}

type UpdateCamera struct {
	ID    string
	Patch CameraPatch
}

type UpdateAlarm struct {
	ID    string
	Patch AlarmPatch
}

type SetConnectionStatus struct {
	Status ConnectionStatus
}

// TowerPatch — частичное обновление вышки, nil-поля не трогаются
type TowerPatch struct {
	Name      *string
	Code      *string
	Location  *string
	IPAddress *string
	Status    *models.TowerStatus
}

type CameraPatch struct {
	Name       *string
	RTSPURL    *string
	Resolution *string
	FPS        *int
	Status     *models.CameraStatus
}

type AlarmPatch struct {
	Status         *models.AlarmStatus
	AcknowledgedBy *string
	AcknowledgedAt *time.Time
	ResolvedBy     *string
	ResolvedAt     *time.Time
}

func (SetLoading) isCommand()          {}
func (SetError) isCommand()            {}
func (ClearError) isCommand()          {}
func (SetOverview) isCommand()         {}
func (SetTowers) isCommand()           {}
func (SetCameras) isCommand()          {}
func (SetAlarms) isCommand()           {}
func (AddAlarm) isCommand()            {}
func (UpdateTower) isCommand()         {}
func (UpdateCamera) isCommand()        {}
func (UpdateAlarm) isCommand()         {}
func (SetConnectionStatus) isCommand() {}
