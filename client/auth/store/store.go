package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/amjido-01/webTray-sub001/schema"
	"golang.org/x/oauth2"
)

// Version is the current snapshot format version
const Version = 1

var (
	// ErrCorrupt is returned when a persisted record cannot be decoded
	ErrCorrupt = errors.New("session record corrupt")
	// ErrUnsupportedVersion is returned for records written by a newer client
	ErrUnsupportedVersion = errors.New("session record version unsupported")
)

// Snapshot is the durable form of a session.
// The active store is kept by id so a restored snapshot can only point at one of Stores.
type Snapshot struct {
	Version       int             `json:"version"`
	Token         *oauth2.Token   `json:"token,omitempty"`
	User          *schema.User    `json:"user,omitempty"`
	Stores        []*schema.Store `json:"stores,omitempty"`
	ActiveStoreID string          `json:"activeStoreId,omitempty"`
	HasBusiness   bool            `json:"hasBusiness,omitempty"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ActiveStore resolves ActiveStoreID against Stores
func (s *Snapshot) ActiveStore() *schema.Store {
	return schema.FindStore(s.Stores, s.ActiveStoreID)
}

// Store is a pluggable persistence layer for the session snapshot.
type Store interface {
	// Load returns the persisted snapshot, or nil when nothing was persisted yet.
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snapshot *Snapshot) error
	Clear(ctx context.Context) error
}

func encode(snapshot *Snapshot) ([]byte, error) {
	if snapshot.Version == 0 {
		snapshot.Version = Version
	}
	return json.MarshalIndent(snapshot, "", "  ")
}

func decode(data []byte) (*Snapshot, error) {
	if len(data) == 0 {
		return nil, nil
	}
	ret := &Snapshot{}
	if err := json.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if ret.Version > Version {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedVersion, ret.Version)
	}
	return ret, nil
}

type memoryStore struct {
	mu   sync.RWMutex
	data []byte
}

func (m *memoryStore) Load(_ context.Context) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return decode(m.data)
}

func (m *memoryStore) Save(_ context.Context, snapshot *Snapshot) error {
	data, err := encode(snapshot)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	return nil
}

func (m *memoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}

// NewMemoryStore creates a process-local store. Snapshots are kept encoded so
// callers never share pointers with the stored copy.
func NewMemoryStore() Store {
	return &memoryStore{}
}
