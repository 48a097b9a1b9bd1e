package menu

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	defaultIdleTTL      = 30 * time.Minute
	defaultMaxInstances = 10000
)

// Eviction reasons reported to RegistryConfig.OnEvict.
const (
	EvictIdle     = "idle"
	EvictCapacity = "capacity"
)

// RegistryConfig tunes page instance retention.
type RegistryConfig struct {
	IdleTTL      time.Duration
	MaxInstances int
	Now          func() time.Time
	// Observer is attached to every controller the registry creates.
	Observer Observer
	// OnEvict is called once per removed instance.
	OnEvict func(reason string)
	// OnChange receives the number of live instances after every change.
	OnChange func(live int)
}

// Registry keeps one Controller per rendered page instance.
type Registry struct {
	cfg RegistryConfig

	mu        sync.Mutex
	instances map[string]*instance
}

type instance struct {
	ctrl     *Controller
	lastSeen time.Time
}

// NewRegistry builds a registry, filling zero config values with defaults.
func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = defaultIdleTTL
	}
	if cfg.MaxInstances <= 0 {
		cfg.MaxInstances = defaultMaxInstances
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Registry{
		cfg:       cfg,
		instances: map[string]*instance{},
	}
}

// Open creates a page instance with a fresh, closed controller.
func (r *Registry) Open() (string, *Controller) {
	id := uuid.NewString()
	ctrl := NewController(r.cfg.Observer)
	now := r.cfg.Now()

	r.mu.Lock()
	if len(r.instances) >= r.cfg.MaxInstances {
		r.sweepLocked(now)
	}
	for len(r.instances) >= r.cfg.MaxInstances {
		r.evictOldestLocked()
	}
	r.instances[id] = &instance{ctrl: ctrl, lastSeen: now}
	r.changedLocked()
	r.mu.Unlock()

	return id, ctrl
}

// Get returns the controller of a live instance and marks it as used.
func (r *Registry) Get(id string) (*Controller, bool) {
	now := r.cfg.Now()

	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[id]
	if !ok {
		return nil, false
	}
	if now.Sub(inst.lastSeen) > r.cfg.IdleTTL {
		r.removeLocked(id, EvictIdle)
		return nil, false
	}
	inst.lastSeen = now
	return inst.ctrl, true
}

// Close drops an instance.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	if _, ok := r.instances[id]; ok {
		delete(r.instances, id)
		r.changedLocked()
	}
	r.mu.Unlock()
}

// Len returns the number of live instances.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.instances)
}

// Sweep removes instances idle for longer than the TTL and returns how many
// were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(r.cfg.Now())
}

// Run sweeps on every interval tick until ctx is cancelled.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Sweep()
		}
	}
}

func (r *Registry) sweepLocked(now time.Time) int {
	removed := 0
	for id, inst := range r.instances {
		if now.Sub(inst.lastSeen) > r.cfg.IdleTTL {
			r.removeLocked(id, EvictIdle)
			removed++
		}
	}
	return removed
}

func (r *Registry) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, inst := range r.instances {
		if oldestID == "" || inst.lastSeen.Before(oldest) {
			oldestID, oldest = id, inst.lastSeen
		}
	}
	if oldestID != "" {
		r.removeLocked(oldestID, EvictCapacity)
	}
}

func (r *Registry) removeLocked(id, reason string) {
	delete(r.instances, id)
	if r.cfg.OnEvict != nil {
		r.cfg.OnEvict(reason)
	}
	r.changedLocked()
}

func (r *Registry) changedLocked() {
	if r.cfg.OnChange != nil {
		r.cfg.OnChange(len(r.instances))
	}
}
