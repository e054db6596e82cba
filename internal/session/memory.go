package session

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	values  map[string][]byte
	expires time.Time
}

// Memory is a process-local Store. Every write slides the expiry.
type Memory struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	data map[string]*entry
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now, data: map[string]*entry{}}
}

// live returns the entry for sid, evicting it if expired. Caller holds mu.
func (m *Memory) live(sid string) *entry {
	e, ok := m.data[sid]
	if !ok {
		return nil
	}
	if m.ttl > 0 && m.now().After(e.expires) {
		delete(m.data, sid)
		return nil
	}
	return e
}

func (m *Memory) touch(e *entry) { e.expires = m.now().Add(m.ttl) }

func (m *Memory) Create(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := &entry{values: map[string][]byte{}}
	m.touch(e)
	m.data[sid] = e
	return nil
}

func (m *Memory) Exists(_ context.Context, sid string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live(sid) != nil, nil
}

func (m *Memory) Get(_ context.Context, sid, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.live(sid)
	if e == nil {
		return nil, false, ErrNoSession
	}
	v, ok := e.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Memory) Put(_ context.Context, sid, key string, val []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.live(sid)
	if e == nil {
		return ErrNoSession
	}
	e.values[key] = append([]byte(nil), val...)
	m.touch(e)
	return nil
}

func (m *Memory) Delete(_ context.Context, sid, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e := m.live(sid); e != nil {
		delete(e.values, key)
	}
	return nil
}

func (m *Memory) Clear(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sid)
	return nil
}
