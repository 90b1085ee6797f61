package store

import (
	"testing"
	"time"

	"github.com/Capitan-Parrot/surveillance-console/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func towersFixture() []models.Tower {
	return []models.Tower{
		{ID: "t1", Name: "North", Status: models.TowerOnline},
		{ID: "t2", Name: "South", Status: models.TowerOffline},
	}
}

func alarmsFixture() []models.Alarm {
	return []models.Alarm{
		{ID: "a7", CameraID: "c1", Status: models.AlarmActive, Type: "person"},
		{ID: "a8", CameraID: "c2", Status: models.AlarmActive, Type: "vehicle"},
	}
}

func TestSetTowersIdempotent(t *testing.T) {
	towers := towersFixture()

	snap := Apply(NewSnapshot(), SetLoading{Key: ResourceTowers, Value: true})
	once := Apply(snap, SetTowers{Towers: towers})
	twice := Apply(once, SetTowers{Towers: towers})

	assert.Equal(t, once.Towers, twice.Towers)
	assert.False(t, once.Loading[ResourceTowers])
	assert.False(t, twice.Loading[ResourceTowers])
}

func TestAddAlarmCountListCoherence(t *testing.T) {
	snap := Apply(NewSnapshot(), SetAlarms{Alarms: alarmsFixture()})
	snap = Apply(snap, SetOverview{
		Overview:  models.Overview{ActiveAlarmsCount: 2},
		FetchedAt: time.Now(),
	})

	next := Apply(snap, AddAlarm{Alarm: models.Alarm{ID: "a9", Status: models.AlarmActive}})

	assert.Len(t, next.Alarms, len(snap.Alarms)+1)
	assert.Equal(t, "a9", next.Alarms[0].ID)
	assert.Equal(t, snap.Overview.ActiveAlarmsCount+1, next.Overview.ActiveAlarmsCount)
	// Исходный снапшот не изменился
	assert.Len(t, snap.Alarms, 2)
	assert.Equal(t, 2, snap.Overview.ActiveAlarmsCount)
}

func TestAddAlarmWithoutOverview(t *testing.T) {
	next := Apply(NewSnapshot(), AddAlarm{Alarm: models.Alarm{ID: "a1"}})
	assert.Len(t, next.Alarms, 1)
	assert.Nil(t, next.Overview)
}

func TestUpdateAlarmTouchesOnlyTarget(t *testing.T) {
	snap := Apply(NewSnapshot(), SetAlarms{Alarms: alarmsFixture()})

	status := models.AlarmAcknowledged
	by := "operator-1"
	next := Apply(snap, UpdateAlarm{ID: "a7", Patch: AlarmPatch{Status: &status, AcknowledgedBy: &by}})

	require.Len(t, next.Alarms, 2)
	assert.Equal(t, models.AlarmAcknowledged, next.Alarms[0].Status)
	assert.Equal(t, "operator-1", next.Alarms[0].AcknowledgedBy)
	// Вторая тревога не тронута
	assert.Equal(t, snap.Alarms[1], next.Alarms[1])
	// Нетронутые поля цели сохранены
	assert.Equal(t, "person", next.Alarms[0].Type)
}

func TestUpdateMissingEntityIsNoOp(t *testing.T) {
	snap := Apply(NewSnapshot(), SetTowers{Towers: towersFixture()})

	name := "renamed"
	next := Apply(snap, UpdateTower{ID: "absent", Patch: TowerPatch{Name: &name}})

	assert.Equal(t, snap, next)
}

func TestSetErrorForcesLoadingFalse(t *testing.T) {
	for _, key := range []ResourceKey{ResourceOverview, ResourceTowers, ResourceCameras, ResourceAlarms} {
		snap := Apply(NewSnapshot(), SetLoading{Key: key, Value: true})
		next := Apply(snap, SetError{Key: key, Message: "boom"})

		assert.False(t, next.Loading[key], "key %s", key)
		assert.Equal(t, "boom", next.Errors[key], "key %s", key)
	}
}

func TestClearErrorLeavesLoading(t *testing.T) {
	snap := Apply(NewSnapshot(), SetLoading{Key: ResourceAlarms, Value: true})
	snap = Apply(snap, SetError{Key: ResourceTowers, Message: "boom"})
	next := Apply(snap, ClearError{Key: ResourceTowers})

	_, present := next.Errors[ResourceTowers]
	assert.False(t, present)
	assert.True(t, next.Loading[ResourceAlarms])
}

func TestSuccessfulFetchClearsStaleError(t *testing.T) {
	snap := Apply(NewSnapshot(), SetError{Key: ResourceTowers, Message: "db unreachable"})
	next := Apply(snap, SetTowers{Towers: towersFixture()})

	_, present := next.Errors[ResourceTowers]
	assert.False(t, present)
	assert.Len(t, next.Towers, 2)
}

func TestSetOverviewReplacesWholesale(t *testing.T) {
	before := time.Now()
	fetched := before.Add(time.Second)

	snap := Apply(NewSnapshot(), SetLoading{Key: ResourceOverview, Value: true})
	next := Apply(snap, SetOverview{
		Overview: models.Overview{
			TowersCount:       3,
			CamerasCount:      9,
			ActiveAlarmsCount: 1,
			SystemStatus:      models.SystemOperational,
		},
		FetchedAt: fetched,
	})

	require.NotNil(t, next.Overview)
	assert.Equal(t, 3, next.Overview.TowersCount)
	assert.Equal(t, 9, next.Overview.CamerasCount)
	assert.Equal(t, 1, next.Overview.ActiveAlarmsCount)
	assert.False(t, next.Loading[ResourceOverview])
	assert.True(t, next.LastUpdate.After(before))
}

func TestUnknownCommandIsNoOp(t *testing.T) {
	snap := Apply(NewSnapshot(), SetTowers{Towers: towersFixture()})
	next := Apply(snap, unknownCommand{})
	assert.Equal(t, snap, next)
}

type unknownCommand struct{}

func (unknownCommand) isCommand() {}

func TestSetConnectionStatus(t *testing.T) {
	next := Apply(NewSnapshot(), SetConnectionStatus{Status: Connected})
	assert.Equal(t, Connected, next.Connection)

	next = Apply(next, SetConnectionStatus{Status: Disconnected})
	assert.Equal(t, Disconnected, next.Connection)
}

func TestStoreDispatchSerialized(t *testing.T) {
	st := New()

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			st.Dispatch(AddAlarm{Alarm: models.Alarm{ID: "x"}})
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	assert.Len(t, st.State().Alarms, 10)
}
