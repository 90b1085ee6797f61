package control

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/Capitan-Parrot/surveillance-console/internal/api"
	"github.com/Capitan-Parrot/surveillance-console/internal/gateway"
	"github.com/Capitan-Parrot/surveillance-console/internal/store"
	"github.com/Capitan-Parrot/surveillance-console/internal/stream"
	consolesync "github.com/Capitan-Parrot/surveillance-console/internal/sync"
	"github.com/gorilla/mux"
)

// Handlers — локальный HTTP-интерфейс консоли: снапшот состояния,
// ручной refresh, действия оператора и управление стримами
type Handlers struct {
	store     *store.Store
	scheduler *consolesync.Scheduler
	gateway   *gateway.Gateway
	streams   *stream.Manager
	archive   stream.SnapshotSink

	// контекст жизни консоли: стримы должны переживать HTTP-запрос,
	// который их открыл
	baseCtx context.Context
}

func NewHandlers(baseCtx context.Context, st *store.Store, scheduler *consolesync.Scheduler, gw *gateway.Gateway, streams *stream.Manager, archive stream.SnapshotSink) *Handlers {
	return &Handlers{
		store:     st,
		scheduler: scheduler,
		gateway:   gw,
		streams:   streams,
		archive:   archive,
		baseCtx:   baseCtx,
	}
}

// Router регистрирует все обработчики
func (h *Handlers) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/state", h.GetStateHandler).Methods("GET")
	r.HandleFunc("/refresh/{resource}", h.RefreshHandler).Methods("POST")

	r.HandleFunc("/towers", h.CreateTowerHandler).Methods("POST")
	r.HandleFunc("/towers/{tower_id}", h.UpdateTowerHandler).Methods("PUT")
	r.HandleFunc("/cameras", h.CreateCameraHandler).Methods("POST")
	r.HandleFunc("/cameras/{camera_id}", h.UpdateCameraHandler).Methods("PUT")
	r.HandleFunc("/alarms", h.CreateAlarmHandler).Methods("POST")
	r.HandleFunc("/alarms/{alarm_id}/acknowledge", h.AcknowledgeAlarmHandler).Methods("POST")
	r.HandleFunc("/alarms/{alarm_id}/resolve", h.ResolveAlarmHandler).Methods("POST")

	r.HandleFunc("/streams/{camera}", h.StreamStateHandler).Methods("GET")
	r.HandleFunc("/streams/{camera}/connect", h.StreamConnectHandler).Methods("POST")
	r.HandleFunc("/streams/{camera}/disconnect", h.StreamDisconnectHandler).Methods("POST")
	r.HandleFunc("/streams/{camera}/reconnect", h.StreamReconnectHandler).Methods("POST")
	r.HandleFunc("/streams/{camera}/snapshot", h.StreamSnapshotHandler).Methods("POST")

	return r
}

// GetStateHandler отдаёт текущий снапшот стора
func (h *Handlers) GetStateHandler(w http.ResponseWriter, r *http.Request) {
	snap := h.store.State()

	writeJSON(w, map[string]any{
		"overview":    snap.Overview,
		"towers":      snap.Towers,
		"cameras":     snap.Cameras,
		"alarms":      snap.Alarms,
		"loading":     snap.Loading,
		"errors":      snap.Errors,
		"connection":  snap.Connection,
		"last_update": snap.LastUpdate,
	})
}

// RefreshHandler — ручной refetch; сознательно гоняется с таймером
// планировщика по принципу last-settled-wins
func (h *Handlers) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	resource := mux.Vars(r)["resource"]

	switch store.ResourceKey(resource) {
	case store.ResourceOverview:
		h.scheduler.FetchOverview(r.Context())
	case store.ResourceTowers:
		h.scheduler.FetchTowers(r.Context())
	case store.ResourceCameras:
		h.scheduler.FetchCameras(r.Context())
	case store.ResourceAlarms:
		h.scheduler.FetchAlarms(r.Context())
	default:
		http.Error(w, "unknown resource", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) CreateTowerHandler(w http.ResponseWriter, r *http.Request) {
	var req api.CreateTowerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	tower, err := h.gateway.CreateTower(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, tower)
}

func (h *Handlers) UpdateTowerHandler(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateTowerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if err := h.gateway.UpdateTower(r.Context(), mux.Vars(r)["tower_id"], req); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) CreateCameraHandler(w http.ResponseWriter, r *http.Request) {
	var req api.CreateCameraRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	camera, err := h.gateway.CreateCamera(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, camera)
}

func (h *Handlers) UpdateCameraHandler(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateCameraRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if err := h.gateway.UpdateCamera(r.Context(), mux.Vars(r)["camera_id"], req); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) CreateAlarmHandler(w http.ResponseWriter, r *http.Request) {
	var req api.CreateAlarmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	alarm, err := h.gateway.CreateAlarm(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, alarm)
}

func (h *Handlers) AcknowledgeAlarmHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AcknowledgedBy string `json:"acknowledged_by"`
	}
	// Пустое тело допустимо, тогда действует actor по умолчанию
	_ = json.NewDecoder(r.Body).Decode(&body)

	if err := h.gateway.AcknowledgeAlarm(r.Context(), mux.Vars(r)["alarm_id"], body.AcknowledgedBy); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ResolveAlarmHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ResolvedBy string `json:"resolved_by"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	if err := h.gateway.ResolveAlarm(r.Context(), mux.Vars(r)["alarm_id"], body.ResolvedBy); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) StreamStateHandler(w http.ResponseWriter, r *http.Request) {
	session, err := h.streams.Get(mux.Vars(r)["camera"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	state, lastError := session.State()
	writeJSON(w, map[string]any{
		"camera":     session.Camera(),
		"state":      state,
		"error":      lastError,
		"frame":      session.Frame(),
		"detections": session.Detections(),
		"resolution": session.Resolution(),
		"stream_url": session.StreamURL(),
	})
}

// StreamConnectHandler подключает сессию камеры. Стрим живёт дольше
// HTTP-запроса, поэтому привязан к фоновому контексту, не к r.Context().
func (h *Handlers) StreamConnectHandler(w http.ResponseWriter, r *http.Request) {
	camera := mux.Vars(r)["camera"]
	if _, err := h.streams.Open(h.baseCtx, camera); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) StreamDisconnectHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.streams.Close(mux.Vars(r)["camera"]); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) StreamReconnectHandler(w http.ResponseWriter, r *http.Request) {
	session, err := h.streams.Get(mux.Vars(r)["camera"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	if err := session.Reconnect(h.baseCtx); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) StreamSnapshotHandler(w http.ResponseWriter, r *http.Request) {
	session, err := h.streams.Get(mux.Vars(r)["camera"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	if err := session.Snapshot(r.Context(), h.archive); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Control: write response: %v", err)
	}
}
