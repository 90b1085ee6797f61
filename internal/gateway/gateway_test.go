package gateway

import (
	"context"
	"testing"

	"github.com/Capitan-Parrot/surveillance-console/internal/api"
	"github.com/Capitan-Parrot/surveillance-console/internal/models"
	"github.com/Capitan-Parrot/surveillance-console/internal/store"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRefresher struct {
	towers  int
	cameras int
	alarms  int
}

func (r *stubRefresher) FetchTowers(context.Context)  { r.towers++ }
func (r *stubRefresher) FetchCameras(context.Context) { r.cameras++ }
func (r *stubRefresher) FetchAlarms(context.Context)  { r.alarms++ }

type stubAuditor struct {
	events []models.OperatorEvent
}

func (a *stubAuditor) SendOperatorEvent(event models.OperatorEvent) error {
	a.events = append(a.events, event)
	return nil
}

func newFixture(t *testing.T) (*store.Store, *Gateway, *stubRefresher, *stubAuditor) {
	t.Helper()
	client := api.NewClient("http://backend.test/api")
	httpmock.ActivateNonDefault(client.HTTP)
	t.Cleanup(httpmock.DeactivateAndReset)

	st := store.New()
	refresher := &stubRefresher{}
	auditor := &stubAuditor{}
	return st, New(st, client, refresher, auditor), refresher, auditor
}

func TestAcknowledgeAlarmRoundTrip(t *testing.T) {
	st, gw, _, auditor := newFixture(t)

	st.Dispatch(store.SetAlarms{Alarms: []models.Alarm{
		{ID: "a7", Status: models.AlarmActive, Type: "person"},
		{ID: "a8", Status: models.AlarmActive, Type: "vehicle"},
	}})

	httpmock.RegisterResponder("POST", "http://backend.test/api/alarms/a7/acknowledge",
		httpmock.NewStringResponder(200, `{"success": true}`))

	require.NoError(t, gw.AcknowledgeAlarm(context.Background(), "a7", "operator-1"))

	snap := st.State()
	require.Len(t, snap.Alarms, 2)
	assert.Equal(t, models.AlarmAcknowledged, snap.Alarms[0].Status)
	assert.Equal(t, "operator-1", snap.Alarms[0].AcknowledgedBy)
	require.NotNil(t, snap.Alarms[0].AcknowledgedAt)
	// Вторая тревога без изменений
	assert.Equal(t, models.AlarmActive, snap.Alarms[1].Status)
	assert.Empty(t, snap.Alarms[1].AcknowledgedBy)

	require.Len(t, auditor.events, 1)
	assert.Equal(t, "acknowledge", auditor.events[0].Action)
	assert.Equal(t, "a7", auditor.events[0].EntityID)
	assert.NotEmpty(t, auditor.events[0].EventID)
}

func TestAcknowledgeDefaultsToSystemActor(t *testing.T) {
	st, gw, _, _ := newFixture(t)

	st.Dispatch(store.SetAlarms{Alarms: []models.Alarm{{ID: "a1", Status: models.AlarmActive}}})

	httpmock.RegisterResponder("POST", "http://backend.test/api/alarms/a1/acknowledge",
		httpmock.NewStringResponder(200, `{"success": true}`))

	require.NoError(t, gw.AcknowledgeAlarm(context.Background(), "a1", ""))
	assert.Equal(t, "system", st.State().Alarms[0].AcknowledgedBy)
}

func TestResolveAlarm(t *testing.T) {
	st, gw, _, _ := newFixture(t)

	st.Dispatch(store.SetAlarms{Alarms: []models.Alarm{{ID: "a1", Status: models.AlarmAcknowledged}}})

	httpmock.RegisterResponder("POST", "http://backend.test/api/alarms/a1/resolve",
		httpmock.NewStringResponder(200, `{"success": true}`))

	require.NoError(t, gw.ResolveAlarm(context.Background(), "a1", "operator-2"))

	alarm := st.State().Alarms[0]
	assert.Equal(t, models.AlarmResolved, alarm.Status)
	assert.Equal(t, "operator-2", alarm.ResolvedBy)
	require.NotNil(t, alarm.ResolvedAt)
}

func TestCreateTowerTriggersRefetch(t *testing.T) {
	_, gw, refresher, _ := newFixture(t)

	httpmock.RegisterResponder("POST", "http://backend.test/api/towers",
		httpmock.NewStringResponder(200, `{"success": true, "data": {"id": "t9", "name": "East"}}`))

	tower, err := gw.CreateTower(context.Background(), api.CreateTowerRequest{Name: "East", IPAddress: "10.0.0.9"})
	require.NoError(t, err)
	assert.Equal(t, "t9", tower.ID)
	assert.Equal(t, 1, refresher.towers)
}

func TestCreateTowerFailureRecordsError(t *testing.T) {
	st, gw, refresher, auditor := newFixture(t)

	httpmock.RegisterResponder("POST", "http://backend.test/api/towers",
		httpmock.NewStringResponder(400, `{"success": false, "error": "name is required"}`))

	_, err := gw.CreateTower(context.Background(), api.CreateTowerRequest{})
	require.Error(t, err)

	snap := st.State()
	assert.Equal(t, "name is required", snap.Errors[store.ResourceTowers])
	assert.False(t, snap.Loading[store.ResourceTowers])
	assert.Zero(t, refresher.towers)
	assert.Empty(t, auditor.events)
}

func TestUpdateTowerTargetedPatch(t *testing.T) {
	st, gw, refresher, _ := newFixture(t)

	st.Dispatch(store.SetTowers{Towers: []models.Tower{
		{ID: "t1", Name: "North", Location: "ridge", Status: models.TowerOffline},
	}})

	httpmock.RegisterResponder("PUT", "http://backend.test/api/towers/t1",
		httpmock.NewStringResponder(200, `{"success": true}`))

	name := "North-2"
	status := "online"
	require.NoError(t, gw.UpdateTower(context.Background(), "t1", api.UpdateTowerRequest{Name: &name, Status: &status}))

	tower := st.State().Towers[0]
	assert.Equal(t, "North-2", tower.Name)
	assert.Equal(t, models.TowerOnline, tower.Status)
	// Неизменённые поля сохранены, полного refetch не было
	assert.Equal(t, "ridge", tower.Location)
	assert.Zero(t, refresher.towers)
}

func TestUpdateCameraTargetedPatch(t *testing.T) {
	st, gw, _, _ := newFixture(t)

	st.Dispatch(store.SetCameras{Cameras: []models.Camera{
		{ID: "c1", Name: "gate", FPS: 30, Status: models.CameraInactive},
	}})

	httpmock.RegisterResponder("PUT", "http://backend.test/api/cameras/c1",
		httpmock.NewStringResponder(200, `{"success": true}`))

	fps := 15
	status := "active"
	require.NoError(t, gw.UpdateCamera(context.Background(), "c1", api.UpdateCameraRequest{FPS: &fps, Status: &status}))

	camera := st.State().Cameras[0]
	assert.Equal(t, 15, camera.FPS)
	assert.Equal(t, models.CameraActive, camera.Status)
	assert.Equal(t, "gate", camera.Name)
}
