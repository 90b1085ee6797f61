package stream

import (
	"context"
	"fmt"
	"sync"

	"github.com/Capitan-Parrot/surveillance-console/internal/api"
)

// Manager владеет сессиями по имени камеры. Сессии независимы друг от
// друга: падение одной не затрагивает остальные.
type Manager struct {
	client *api.Client
	creds  api.GatewayCredentials

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(client *api.Client, creds api.GatewayCredentials) *Manager {
	return &Manager{
		client:   client,
		creds:    creds,
		sessions: make(map[string]*Session),
	}
}

// Open создаёт (или переиспользует) сессию камеры и подключает её
func (m *Manager) Open(ctx context.Context, camera string) (*Session, error) {
	m.mu.Lock()
	session, ok := m.sessions[camera]
	if !ok {
		session = NewSession(m.client, m.creds, camera)
		m.sessions[camera] = session
	}
	m.mu.Unlock()

	if err := session.Connect(ctx); err != nil {
		return session, err
	}
	return session, nil
}

// Get возвращает сессию камеры, если она была открыта
func (m *Manager) Get(camera string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[camera]
	if !ok {
		return nil, fmt.Errorf("no session for camera %s", camera)
	}
	return session, nil
}

// Close отключает сессию камеры, сама сессия остаётся для reconnect
func (m *Manager) Close(camera string) error {
	session, err := m.Get(camera)
	if err != nil {
		return err
	}
	session.Disconnect()
	return nil
}

// CloseAll отключает все сессии; вызывается при остановке консоли,
// чтобы освободить транспорт
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, session := range m.sessions {
		session.Disconnect()
	}
}
