package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/kylejryan/claims-admin/internal/logger"
	"github.com/kylejryan/claims-admin/internal/metrics"
)

// ErrSessionNotFound is returned for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// ErrForbidden is returned when a session belongs to another operator.
var ErrForbidden = errors.New("session belongs to another user")

// Checkpoint is what a Checkpointer persists for one session.
type Checkpoint struct {
	Owner    string `json:"owner"`
	ClientID int64  `json:"clientId"`
	Draft    Draft  `json:"draft"`
}

// Checkpointer persists session drafts outside the process.
type Checkpointer interface {
	Save(ctx context.Context, id string, cp Checkpoint, ttl time.Duration) error
	Load(ctx context.Context, id string) (Checkpoint, bool, error)
	Delete(ctx context.Context, id string) error
}

// Handle is an open session as seen by callers.
type Handle struct {
	ID       string
	Owner    string
	ClientID int64
	Store    *Store
}

// EditMode reports whether the session edits an existing client.
func (h *Handle) EditMode() bool { return h.ClientID != 0 }

type entry struct {
	id       string
	owner    string
	store    *Store
	clientID atomic.Int64
	touched  atomic.Int64
	dirty    atomic.Bool
	cancel   func()
}

func (e *entry) handle() *Handle {
	return &Handle{ID: e.id, Owner: e.owner, ClientID: e.clientID.Load(), Store: e.store}
}

// Manager owns every open session of the process.
type Manager struct {
	log     *logger.Logger
	metrics *metrics.Metrics
	cp      Checkpointer
	ttl     time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

// ManagerConfig configures a Manager. Checkpointer and Metrics are optional.
type ManagerConfig struct {
	Logger       *logger.Logger
	Metrics      *metrics.Metrics
	Checkpointer Checkpointer
	TTL          time.Duration
	Now          func() time.Time
}

// NewManager builds a Manager.
func NewManager(cfg ManagerConfig) *Manager {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		log:      log.With("component", "session_manager"),
		metrics:  cfg.Metrics,
		cp:       cfg.Checkpointer,
		ttl:      ttl,
		now:      now,
		sessions: map[string]*entry{},
	}
}

// Open starts a fresh session for owner. clientID is 0 for a new client.
func (m *Manager) Open(ctx context.Context, owner string, clientID int64) *Handle {
	id := ulid.Make().String()
	e := m.track(id, owner, clientID, NewStore())
	m.log.Info("session opened", "session_id", id, "owner", owner, "client_id", clientID)
	return e.handle()
}

// track registers a session unless one with the same id is already held, in
// which case the held one wins.
func (m *Manager) track(id, owner string, clientID int64, st *Store) *entry {
	e := &entry{id: id, owner: owner, store: st}
	e.clientID.Store(clientID)
	e.touched.Store(m.now().UnixNano())
	e.cancel = st.Subscribe(func(c Change) {
		e.touched.Store(m.now().UnixNano())
		e.dirty.Store(true)
		m.metrics.Mutation(c.Op)
	})

	m.mu.Lock()
	if cur, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		e.cancel()
		return cur
	}
	m.sessions[id] = e
	m.mu.Unlock()
	m.metrics.SessionOpened()
	return e
}

// Get returns the session id owned by owner, reviving it from the
// checkpointer when it is not held in memory.
func (m *Manager) Get(ctx context.Context, id, owner string) (*Handle, error) {
	m.mu.Lock()
	e, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		var err error
		if e, err = m.revive(ctx, id); err != nil {
			return nil, err
		}
	}
	if e.owner != owner {
		return nil, ErrForbidden
	}
	e.touched.Store(m.now().UnixNano())
	return e.handle(), nil
}

func (m *Manager) revive(ctx context.Context, id string) (*entry, error) {
	if m.cp == nil {
		return nil, ErrSessionNotFound
	}
	cp, ok, err := m.cp.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load checkpoint %s: %w", id, err)
	}
	if !ok {
		return nil, ErrSessionNotFound
	}
	st := NewStore()
	st.Import(cp.Draft)
	m.log.Info("session revived from checkpoint", "session_id", id)
	return m.track(id, cp.Owner, cp.ClientID, st), nil
}

// Rebind points the session at a client id, used after the first save of a
// new client.
func (m *Manager) Rebind(id string, clientID int64) {
	m.mu.Lock()
	e, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		e.clientID.Store(clientID)
		e.dirty.Store(true)
	}
}

// Close discards the session and its checkpoint.
func (m *Manager) Close(ctx context.Context, id, owner string) error {
	h, err := m.Get(ctx, id, owner)
	if err != nil {
		return err
	}
	m.drop(h.ID)
	if m.cp != nil {
		if err := m.cp.Delete(ctx, id); err != nil {
			m.log.Warn("checkpoint delete failed", "session_id", id, "error", err)
		}
	}
	m.log.Info("session closed", "session_id", id)
	return nil
}

func (m *Manager) drop(id string) {
	m.mu.Lock()
	e, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		e.cancel()
		m.metrics.SessionClosed()
	}
}

// Flush checkpoints every session changed since its last checkpoint.
func (m *Manager) Flush(ctx context.Context) {
	if m.cp == nil {
		return
	}
	for _, e := range m.snapshotEntries() {
		if !e.dirty.Swap(false) {
			continue
		}
		cp := Checkpoint{Owner: e.owner, ClientID: e.clientID.Load(), Draft: e.store.Export()}
		if err := m.cp.Save(ctx, e.id, cp, m.ttl); err != nil {
			e.dirty.Store(true)
			m.log.Warn("checkpoint save failed", "session_id", e.id, "error", err)
		}
	}
}

// Sweep drops sessions idle for longer than the TTL along with their
// checkpoints and returns how many. An expired session cannot be revived.
func (m *Manager) Sweep(ctx context.Context) int {
	cutoff := m.now().Add(-m.ttl).UnixNano()
	n := 0
	for _, e := range m.snapshotEntries() {
		if e.touched.Load() >= cutoff {
			continue
		}
		m.drop(e.id)
		n++
		if m.cp == nil {
			continue
		}
		if err := m.cp.Delete(ctx, e.id); err != nil {
			m.log.Warn("checkpoint delete failed", "session_id", e.id, "error", err)
		}
	}
	if n > 0 {
		m.log.Info("expired idle sessions", "count", n)
	}
	return n
}

// Len returns the number of sessions held in memory.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) snapshotEntries() []*entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entry, 0, len(m.sessions))
	for _, e := range m.sessions {
		out = append(out, e)
	}
	return out
}

// Run flushes checkpoints and sweeps idle sessions every interval until ctx ends.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			m.Flush(context.Background())
			return
		case <-t.C:
			m.Flush(ctx)
			m.Sweep(ctx)
		}
	}
}
