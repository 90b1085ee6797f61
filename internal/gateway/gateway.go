package gateway

import (
	"context"
	"log"
	"time"

	"github.com/Capitan-Parrot/surveillance-console/internal/api"
	"github.com/Capitan-Parrot/surveillance-console/internal/models"
	"github.com/Capitan-Parrot/surveillance-console/internal/store"
	consolesync "github.com/Capitan-Parrot/surveillance-console/internal/sync"
	"github.com/google/uuid"
)

// defaultActor подставляется, когда действие пришло без имени оператора
const defaultActor = "system"

// Refresher перечитывает коллекцию после создания сущности.
// Реализуется планировщиком.
type Refresher interface {
	FetchTowers(ctx context.Context)
	FetchCameras(ctx context.Context)
	FetchAlarms(ctx context.Context)
}

// Auditor публикует событие о действии оператора. Может быть nil —
// тогда аудит просто выключен.
type Auditor interface {
	SendOperatorEvent(event models.OperatorEvent) error
}

// Gateway выполняет мутации оператора и согласует стор с результатом.
// Create — полный refetch коллекции (окно неактуальности между ответом
// и завершением refetch принимается). Update и переходы статуса —
// точечная команда с изменёнными полями.
// Любая ошибка записывается в ErrorMap ресурса и возвращается вызывающему.
type Gateway struct {
	store     *store.Store
	client    *api.Client
	refresher Refresher
	auditor   Auditor
}

func New(st *store.Store, client *api.Client, refresher Refresher, auditor Auditor) *Gateway {
	return &Gateway{store: st, client: client, refresher: refresher, auditor: auditor}
}

func (g *Gateway) CreateTower(ctx context.Context, req api.CreateTowerRequest) (models.Tower, error) {
	tower, err := g.client.CreateTower(ctx, req)
	if err != nil {
		g.fail(store.ResourceTowers, err)
		return models.Tower{}, err
	}

	g.audit("tower", tower.ID, "create", defaultActor)
	g.refresher.FetchTowers(ctx)
	return tower, nil
}

func (g *Gateway) UpdateTower(ctx context.Context, id string, req api.UpdateTowerRequest) error {
	if err := g.client.UpdateTower(ctx, id, req); err != nil {
		g.fail(store.ResourceTowers, err)
		return err
	}

	g.store.Dispatch(store.UpdateTower{ID: id, Patch: store.TowerPatch{
		Name:      req.Name,
		Code:      req.Code,
		Location:  req.Location,
		IPAddress: req.IPAddress,
		Status:    towerStatus(req.Status),
	}})
	g.audit("tower", id, "update", defaultActor)
	return nil
}

func (g *Gateway) CreateCamera(ctx context.Context, req api.CreateCameraRequest) (models.Camera, error) {
	camera, err := g.client.CreateCamera(ctx, req)
	if err != nil {
		g.fail(store.ResourceCameras, err)
		return models.Camera{}, err
	}

	g.audit("camera", camera.ID, "create", defaultActor)
	g.refresher.FetchCameras(ctx)
	return camera, nil
}

func (g *Gateway) UpdateCamera(ctx context.Context, id string, req api.UpdateCameraRequest) error {
	if err := g.client.UpdateCamera(ctx, id, req); err != nil {
		g.fail(store.ResourceCameras, err)
		return err
	}

	g.store.Dispatch(store.UpdateCamera{ID: id, Patch: store.CameraPatch{
		Name:       req.Name,
		RTSPURL:    req.RTSPURL,
		Resolution: req.Resolution,
		FPS:        req.FPS,
		Status:     cameraStatus(req.Status),
	}})
	g.audit("camera", id, "update", defaultActor)
	return nil
}

func (g *Gateway) CreateAlarm(ctx context.Context, req api.CreateAlarmRequest) (models.Alarm, error) {
	alarm, err := g.client.CreateAlarm(ctx, req)
	if err != nil {
		g.fail(store.ResourceAlarms, err)
		return models.Alarm{}, err
	}

	g.audit("alarm", alarm.ID, "create", defaultActor)
	g.refresher.FetchAlarms(ctx)
	return alarm, nil
}

// AcknowledgeAlarm переводит тревогу active -> acknowledged
func (g *Gateway) AcknowledgeAlarm(ctx context.Context, id, acknowledgedBy string) error {
	if acknowledgedBy == "" {
		acknowledgedBy = defaultActor
	}

	if err := g.client.AcknowledgeAlarm(ctx, id, acknowledgedBy); err != nil {
		g.fail(store.ResourceAlarms, err)
		return err
	}

	now := time.Now().UTC()
	status := models.AlarmAcknowledged
	g.store.Dispatch(store.UpdateAlarm{ID: id, Patch: store.AlarmPatch{
		Status:         &status,
		AcknowledgedBy: &acknowledgedBy,
		AcknowledgedAt: &now,
	}})
	g.audit("alarm", id, "acknowledge", acknowledgedBy)
	return nil
}

// ResolveAlarm переводит тревогу acknowledged -> resolved
func (g *Gateway) ResolveAlarm(ctx context.Context, id, resolvedBy string) error {
	if resolvedBy == "" {
		resolvedBy = defaultActor
	}

	if err := g.client.ResolveAlarm(ctx, id, resolvedBy); err != nil {
		g.fail(store.ResourceAlarms, err)
		return err
	}

	now := time.Now().UTC()
	status := models.AlarmResolved
	g.store.Dispatch(store.UpdateAlarm{ID: id, Patch: store.AlarmPatch{
		Status:     &status,
		ResolvedBy: &resolvedBy,
		ResolvedAt: &now,
	}})
	g.audit("alarm", id, "resolve", resolvedBy)
	return nil
}

func (g *Gateway) fail(key store.ResourceKey, err error) {
	log.Printf("Gateway: %s action failed: %v", key, err)
	g.store.Dispatch(store.SetError{Key: key, Message: consolesync.Reason(err)})
}

// audit — fire-and-forget: ошибка аудита не роняет действие оператора
func (g *Gateway) audit(entityType, entityID, action, actor string) {
	if g.auditor == nil {
		return
	}
	event := models.OperatorEvent{
		EventID:    uuid.NewString(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Actor:      actor,
		TimeStamp:  time.Now().UTC(),
	}
	if err := g.auditor.SendOperatorEvent(event); err != nil {
		log.Printf("Gateway: audit event for %s %s failed: %v", entityType, entityID, err)
	}
}

func towerStatus(s *string) *models.TowerStatus {
	if s == nil {
		return nil
	}
	status := models.TowerStatus(*s)
	return &status
}

func cameraStatus(s *string) *models.CameraStatus {
	if s == nil {
		return nil
	}
	status := models.CameraStatus(*s)
	return &status
}
