package models

import "time"

type TowerStatus string

const (
	TowerOnline  TowerStatus = "online"
	TowerOffline TowerStatus = "offline"
)

type CameraStatus string

const (
	CameraActive   CameraStatus = "active"
	CameraInactive CameraStatus = "inactive"
	CameraError    CameraStatus = "error"
)

// AlarmStatus — допустимые переходы только active -> acknowledged -> resolved
type AlarmStatus string

const (
	AlarmActive       AlarmStatus = "active"
	AlarmAcknowledged AlarmStatus = "acknowledged"
	AlarmResolved     AlarmStatus = "resolved"
)

type SystemStatus string

const (
	SystemOperational SystemStatus = "operational"
	SystemOffline     SystemStatus = "offline"
)

// Tower представляет вышку наблюдения с камерами
type Tower struct {
	ID            string      `json:"id"`
	AreaID        string      `json:"area_id"`
	Name          string      `json:"name"`
	Code          string      `json:"code,omitempty"`
	Location      string      `json:"location"`
	IPAddress     string      `json:"ip_address"`
	Status        TowerStatus `json:"status"`
	CameraIDs     []string    `json:"camera_ids,omitempty"`
	AssignedUsers []string    `json:"assigned_users,omitempty"`
	CamerasCount  int         `json:"cameras_count"`
	LastHeartbeat *time.Time  `json:"last_heartbeat,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

type Camera struct {
	ID         string       `json:"id"`
	TowerID    string       `json:"tower_id"`
	Name       string       `json:"name"`
	RTSPURL    string       `json:"rtsp_url"`
	Resolution string       `json:"resolution"`
	FPS        int          `json:"fps"`
	Status     CameraStatus `json:"status"`
	LastSeen   *time.Time   `json:"last_seen,omitempty"`
	TowerName  string       `json:"tower_name,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

type Alarm struct {
	ID             string      `json:"id"`
	CameraID       string      `json:"camera_id"`
	Type           string      `json:"type"`
	Confidence     float64     `json:"confidence"`
	Timestamp      time.Time   `json:"timestamp"`
	ImageURL       string      `json:"image_url,omitempty"`
	VideoURL       string      `json:"video_url,omitempty"`
	Status         AlarmStatus `json:"status"`
	AcknowledgedBy string      `json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time  `json:"acknowledged_at,omitempty"`
	ResolvedBy     string      `json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time  `json:"resolved_at,omitempty"`
	CameraName     string      `json:"camera_name,omitempty"`
	TowerName      string      `json:"tower_name,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}

// Overview — сводка по всей системе, заменяется целиком при каждом fetch
type Overview struct {
	TowersCount       int          `json:"towers_count"`
	TowersOnline      int          `json:"towers_online"`
	CamerasCount      int          `json:"cameras_count"`
	CamerasActive     int          `json:"cameras_active"`
	TotalAlarms       int          `json:"total_alarms"`
	ActiveAlarmsCount int          `json:"active_alarms_count"`
	RecentAlarms      []Alarm      `json:"recent_alarms,omitempty"`
	SystemStatus      SystemStatus `json:"system_status"`
	LastUpdated       string       `json:"last_updated,omitempty"`
}

// Detection — один распознанный объект. Координаты рамки дробные,
// относительно размеров кадра: x_min <= x_max <= 1, y_min <= y_max <= 1.
// Выход за границы — нарушение контракта бэкенда, здесь не исправляется.
type Detection struct {
	ClassName  string  `json:"class_name"`
	Confidence float64 `json:"confidence"`
	XMin       float64 `json:"x_min"`
	YMin       float64 `json:"y_min"`
	XMax       float64 `json:"x_max"`
	YMax       float64 `json:"y_max"`
}

// FeedEvent — одно событие live-feed: либо кадр с детекциями, либо ошибка
type FeedEvent struct {
	Image      string      `json:"image,omitempty"`
	Detections []Detection `json:"detections,omitempty"`
	Timestamp  string      `json:"timestamp,omitempty"`
	Camera     string      `json:"camera,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// GatewayStatus — состояние подключения к шлюзу робота
type GatewayStatus struct {
	Success        bool   `json:"success"`
	Connected      bool   `json:"connected"`
	Message        string `json:"message,omitempty"`
	Error          string `json:"error,omitempty"`
	Resources      int    `json:"resources,omitempty"`
	Cameras        int    `json:"cameras,omitempty"`
	VisionServices int    `json:"vision_services,omitempty"`
}

// GatewayCamera — метаданные камеры, которые отдаёт шлюз
type GatewayCamera struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	StreamURL  string `json:"stream_url,omitempty"`
	Type       string `json:"type"`
	Resolution string `json:"resolution,omitempty"`
	FPS        int    `json:"fps,omitempty"`
}

// AlarmEvent — событие тревоги, которое вышки публикуют в Kafka
type AlarmEvent struct {
	TowerID   string    `json:"tower_id"`
	Alarm     Alarm     `json:"alarm"`
	EmittedAt time.Time `json:"emitted_at"`
}

// OperatorEvent — аудит действия оператора (create/acknowledge/resolve)
type OperatorEvent struct {
	EventID    string    `json:"event_id"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Action     string    `json:"action"`
	Actor      string    `json:"actor"`
	TimeStamp  time.Time `json:"timestamp"`
}
