package events

import (
	"testing"
	"time"

	"github.com/Capitan-Parrot/surveillance-console/internal/models"
	"github.com/Capitan-Parrot/surveillance-console/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlarmHandlerDispatchesAddAlarm(t *testing.T) {
	st := store.New()
	st.Dispatch(store.SetOverview{
		Overview:  models.Overview{ActiveAlarmsCount: 1},
		FetchedAt: time.Now(),
	})
	h := &alarmHandler{store: st}

	err := h.handle([]byte(`{
		"tower_id": "t1",
		"alarm": {"id": "a42", "camera_id": "c1", "type": "person", "confidence": 0.87, "status": "active"},
		"emitted_at": "2026-08-29T10:00:00Z"
	}`))
	require.NoError(t, err)

	snap := st.State()
	require.Len(t, snap.Alarms, 1)
	assert.Equal(t, "a42", snap.Alarms[0].ID)
	assert.Equal(t, models.AlarmActive, snap.Alarms[0].Status)
	assert.Equal(t, 2, snap.Overview.ActiveAlarmsCount)
}

func TestAlarmHandlerRejectsMalformedEvent(t *testing.T) {
	st := store.New()
	h := &alarmHandler{store: st}

	assert.Error(t, h.handle([]byte(`not json`)))
	assert.Error(t, h.handle([]byte(`{"tower_id": "t1", "alarm": {}}`)))
	assert.Empty(t, st.State().Alarms)
}
