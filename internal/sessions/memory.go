package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/pipeline"
)

type entry struct {
	cp      pipeline.Checkpoint
	expires time.Time
}

// Memory is an in-process Store. Expired entries are dropped on access.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[uuid.UUID]entry
}

// NewMemory creates a Memory store whose entries live for ttl.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[uuid.UUID]entry),
	}
}

func (m *Memory) Save(_ context.Context, cp pipeline.Checkpoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[cp.ID] = entry{cp: cp, expires: m.now().Add(m.ttl)}
	return nil
}

func (m *Memory) Load(_ context.Context, id uuid.UUID) (pipeline.Checkpoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(id)
}

func (m *Memory) Take(_ context.Context, id uuid.UUID) (pipeline.Checkpoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp, err := m.get(id)
	if err == nil {
		delete(m.entries, id)
	}
	return cp, err
}

func (m *Memory) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

func (m *Memory) get(id uuid.UUID) (pipeline.Checkpoint, error) {
	e, ok := m.entries[id]
	if !ok {
		return pipeline.Checkpoint{}, ErrNotFound
	}
	if !m.now().Before(e.expires) {
		delete(m.entries, id)
		return pipeline.Checkpoint{}, ErrNotFound
	}
	return e.cp, nil
}
