package stream

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/Capitan-Parrot/surveillance-console/internal/api"
	"github.com/Capitan-Parrot/surveillance-console/internal/models"
	"github.com/google/uuid"
)

type SessionState string

const (
	StateIdle       SessionState = "idle"
	StateConnecting SessionState = "connecting"
	StateLive       SessionState = "live"
	StateError      SessionState = "error"
)

// сообщение при обрыве транспорта; автоматического переподключения нет
const transportErrMessage = "live feed connection lost"

// SnapshotSink получает одиночный кадр камеры. Реализуется архивом.
type SnapshotSink interface {
	SaveSnapshot(ctx context.Context, camera string, image []byte, detections []models.Detection) error
}

// Session — живой поток одной камеры. Состояния:
// Idle -> Connecting -> Live -> Error -> (явный reconnect) Connecting.
// Все изменяемые поля приватны для сессии, между камерами ничего
// не разделяется.
type Session struct {
	id     string
	camera string
	client *api.Client
	creds  api.GatewayCredentials

	mu         sync.Mutex
	state      SessionState
	lastError  string
	frame      string
	detections []models.Detection
	resolution string
	streamURL  string

	// generation растёт при каждом connect/disconnect; события
	// устаревшего поколения отбрасываются
	generation int
	cancel     context.CancelFunc
}

func NewSession(client *api.Client, creds api.GatewayCredentials, camera string) *Session {
	return &Session{
		id:     uuid.NewString(),
		camera: camera,
		client: client,
		creds:  creds,
		state:  StateIdle,
	}
}

func (s *Session) ID() string     { return s.id }
func (s *Session) Camera() string { return s.camera }

// State возвращает состояние и сообщение последней ошибки
func (s *Session) State() (SessionState, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.lastError
}

// Frame — последний хороший кадр (data-url); сохраняется и в Error
func (s *Session) Frame() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

func (s *Session) Detections() []models.Detection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detections
}

func (s *Session) Resolution() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolution
}

func (s *Session) StreamURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streamURL
}

// Connect проходит стадию Connecting и открывает поток. Допустим только
// из Idle и Error (повторный connect живой сессии — ошибка вызова).
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateConnecting || s.state == StateLive {
		s.mu.Unlock()
		return fmt.Errorf("session %s: already connected", s.camera)
	}
	s.state = StateConnecting
	gen := s.generation + 1
	s.generation = gen
	s.mu.Unlock()

	if err := s.bootstrap(ctx); err != nil {
		s.toError(gen, err.Error())
		return err
	}

	resp, err := s.client.OpenLiveFeed(ctx, s.camera)
	if err != nil {
		s.toError(gen, err.Error())
		return err
	}

	streamCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	// Disconnect успел сработать, пока открывали поток
	if s.generation != gen {
		s.mu.Unlock()
		cancel()
		resp.Body.Close()
		return nil
	}
	s.cancel = cancel
	s.mu.Unlock()

	go func() {
		<-streamCtx.Done()
		resp.Body.Close()
	}()
	go s.readLoop(gen, resp.Body)

	return nil
}

// bootstrap: убедиться, что шлюз подключён, и снять метаданные камеры
func (s *Session) bootstrap(ctx context.Context) error {
	status, err := s.client.GatewayStatus(ctx)
	if err != nil {
		return fmt.Errorf("gateway status: %w", err)
	}
	if !status.Connected {
		if err := s.client.GatewayConnect(ctx, s.creds); err != nil {
			return fmt.Errorf("gateway connect: %w", err)
		}
	}

	cameras, err := s.client.GatewayCameras(ctx)
	if err != nil {
		return fmt.Errorf("gateway cameras: %w", err)
	}
	for _, cam := range cameras {
		if cam.Name == s.camera {
			s.mu.Lock()
			s.resolution = cam.Resolution
			s.streamURL = cam.StreamURL
			s.mu.Unlock()
			return nil
		}
	}
	return fmt.Errorf("camera %s not found on gateway", s.camera)
}

func (s *Session) readLoop(gen int, body io.ReadCloser) {
	scanner := newFeedScanner(body)
	for scanner.Next() {
		if !s.handleEvent(gen, scanner.Data()) {
			return
		}
	}

	// Обрыв транспорта. Чистый EOF после Disconnect — штатное завершение.
	s.mu.Lock()
	stale := s.generation != gen
	s.mu.Unlock()
	if stale {
		return
	}
	if err := scanner.Err(); err != nil {
		log.Printf("Session %s: stream error: %v", s.camera, err)
	}
	s.toError(gen, transportErrMessage)
}

// handleEvent применяет одно событие; false — поколение устарело,
// цикл чтения должен завершиться
func (s *Session) handleEvent(gen int, payload []byte) bool {
	var event models.FeedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		// Битое событие логируем и пропускаем, состояние не трогаем
		log.Printf("Session %s: malformed feed event: %v", s.camera, err)
		return true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return false
	}

	if event.Error != "" {
		// Поток остаётся открытым, закрытие — только явное
		s.state = StateError
		s.lastError = event.Error
		return true
	}
	if event.Image == "" {
		return true
	}

	s.frame = event.Image
	s.detections = event.Detections
	s.state = StateLive
	s.lastError = ""
	return true
}

// Disconnect закрывает поток, сбрасывает кадр и детекции, возвращает Idle.
// События, пришедшие после вызова, отбрасываются по поколению.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.frame = ""
	s.detections = nil
	s.state = StateIdle
	s.lastError = ""
}

// Reconnect — явный переход Error -> Connecting
func (s *Session) Reconnect(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateError {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("session %s: reconnect from %s is not allowed", s.camera, state)
	}
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	return s.Connect(ctx)
}

func (s *Session) toError(gen int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return
	}
	s.state = StateError
	s.lastError = message
}

// Snapshot забирает одиночный кадр и передаёт его приёмнику.
// На состояние сессии не влияет.
func (s *Session) Snapshot(ctx context.Context, sink SnapshotSink) error {
	image, err := s.client.CameraSnapshot(ctx, s.camera)
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", s.camera, err)
	}

	raw, err := decodeDataURL(image)
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", s.camera, err)
	}
	return sink.SaveSnapshot(ctx, s.camera, raw, s.Detections())
}

// FetchDetections запрашивает детекции вне потока и заменяет ими
// набор сессии. На состояние сессии не влияет.
func (s *Session) FetchDetections(ctx context.Context) ([]models.Detection, error) {
	detections, err := s.client.CameraDetections(ctx, s.camera)
	if err != nil {
		return nil, fmt.Errorf("detections %s: %w", s.camera, err)
	}

	s.mu.Lock()
	s.detections = detections
	s.mu.Unlock()
	return detections, nil
}

// decodeDataURL достаёт байты из data:image/jpeg;base64,... либо
// принимает уже голый base64
func decodeDataURL(image string) ([]byte, error) {
	payload := image
	if strings.HasPrefix(image, "data:") {
		_, b64, found := strings.Cut(image, ",")
		if !found {
			return nil, fmt.Errorf("malformed data url")
		}
		payload = b64
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return raw, nil
}
