package cmsdk

import (
	"context"
	"sync"
	"time"
)

// StorageKey is the fixed key session tokens are persisted under. Logout
// clears the entry.
const StorageKey = "cms_auth_data"

// AuthData is the persisted shape of a session's tokens.
type AuthData struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// TokenStorage persists session tokens between processes. Load returns
// (nil, nil) when nothing is stored.
type TokenStorage interface {
	Load(ctx context.Context) (*AuthData, error)
	Save(ctx context.Context, data *AuthData) error
	Clear(ctx context.Context) error
}

// MemoryStorage is an in-process TokenStorage, primarily for tests.
type MemoryStorage struct {
	mu   sync.Mutex
	data *AuthData
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load(ctx context.Context) (*AuthData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return nil, nil
	}
	copied := *m.data
	return &copied, nil
}

func (m *MemoryStorage) Save(ctx context.Context, data *AuthData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *data
	m.data = &copied
	return nil
}

func (m *MemoryStorage) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = nil
	return nil
}
