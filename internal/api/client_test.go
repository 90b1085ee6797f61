package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Capitan-Parrot/surveillance-console/internal/models"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client := NewClient("http://backend.test/api")
	httpmock.ActivateNonDefault(client.HTTP)
	t.Cleanup(httpmock.DeactivateAndReset)
	return client
}

func TestGetOverview(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder("GET", "http://backend.test/api/dashboard/overview",
		httpmock.NewStringResponder(200, `{
			"success": true,
			"data": {
				"towers_count": 3,
				"cameras_count": 9,
				"active_alarms_count": 1,
				"system_status": "operational"
			}
		}`))

	overview, err := client.GetOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, overview.TowersCount)
	assert.Equal(t, 9, overview.CamerasCount)
	assert.Equal(t, 1, overview.ActiveAlarmsCount)
	assert.Equal(t, models.SystemOperational, overview.SystemStatus)
}

func TestListTowersAPIError(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder("GET", "http://backend.test/api/towers",
		httpmock.NewStringResponder(500, `{"success": false, "error": "db unreachable"}`))

	_, err := client.ListTowers(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "db unreachable", apiErr.Message)
	assert.Equal(t, 500, apiErr.Status)
}

func TestTransportErrorIsNotAPIError(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder("GET", "http://backend.test/api/towers",
		httpmock.NewErrorResponder(assert.AnError))

	_, err := client.ListTowers(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	assert.NotErrorAs(t, err, &apiErr)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestAcknowledgeAlarmBody(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder("POST", "http://backend.test/api/alarms/a7/acknowledge",
		func(req *http.Request) (*http.Response, error) {
			var body map[string]string
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				return httpmock.NewStringResponse(400, `{"success": false, "error": "bad body"}`), nil
			}
			if body["acknowledged_by"] != "operator-1" {
				return httpmock.NewStringResponse(400, `{"success": false, "error": "wrong actor"}`), nil
			}
			return httpmock.NewStringResponse(200, `{"success": true}`), nil
		})

	err := client.AcknowledgeAlarm(context.Background(), "a7", "operator-1")
	require.NoError(t, err)
}

func TestListAlarmsFilter(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder("GET", "http://backend.test/api/alarms",
		func(req *http.Request) (*http.Response, error) {
			q := req.URL.Query()
			assert.Equal(t, "10", q.Get("limit"))
			assert.Equal(t, "active", q.Get("status"))
			assert.Equal(t, "c1", q.Get("camera_id"))
			return httpmock.NewStringResponse(200, `{"success": true, "data": [{"id": "a1", "status": "active"}]}`), nil
		})

	alarms, err := client.ListAlarms(context.Background(), AlarmFilter{
		Limit:    10,
		Status:   models.AlarmActive,
		CameraID: "c1",
	})
	require.NoError(t, err)
	require.Len(t, alarms, 1)
	assert.Equal(t, "a1", alarms[0].ID)
}

func TestHealth(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder("GET", "http://backend.test/api/health",
		httpmock.NewStringResponder(200, `{"status": "healthy"}`))

	require.NoError(t, client.Health(context.Background()))

	httpmock.RegisterResponder("GET", "http://backend.test/api/health",
		httpmock.NewStringResponder(500, `{"status": "unhealthy", "error": "appwrite down"}`))

	err := client.Health(context.Background())
	require.Error(t, err)
	assert.Equal(t, "appwrite down", err.Error())
}

func TestCameraSnapshot(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder("GET", "http://backend.test/api/cameras/camera-1/snapshot",
		httpmock.NewStringResponder(200, `{"success": true, "image": "data:image/jpeg;base64,aGVsbG8=", "camera": "camera-1"}`))

	image, err := client.CameraSnapshot(context.Background(), "camera-1")
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,aGVsbG8=", image)
}

func TestGatewayStatusFlatResponse(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder("GET", "http://backend.test/api/gateway/status",
		httpmock.NewStringResponder(200, `{"success": true, "connected": true, "cameras": 2}`))

	status, err := client.GatewayStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 2, status.Cameras)
}
