package driver

import (
	"context"
	"sort"
	"sync"

	"github.com/seriesdb/seriesdb/pkg/dbcapabilities"
	"github.com/seriesdb/seriesdb/pkg/logger"
)

// Registry maps backend identifiers to pre-registered drivers. The
// supported set is statically enumerable; resolving an identifier never
// loads code at call time.
type Registry struct {
	drivers map[dbcapabilities.DatabaseID]Driver
	mu      sync.RWMutex

	log *logger.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		drivers: make(map[dbcapabilities.DatabaseID]Driver),
	}
}

// Register registers a driver, replacing any driver already registered for
// the same backend.
func (r *Registry) Register(d Driver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drivers[d.ID()] = d
}

// SetLogger attaches a logger for connect/create/drop events.
func (r *Registry) SetLogger(log *logger.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = log
}

// Get retrieves the driver for a canonical backend id. An unregistered id
// fails with KindProgramming.
func (r *Registry) Get(id dbcapabilities.DatabaseID) (Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.drivers[id]
	if !ok {
		return nil, Errorf(id, "resolve", KindProgramming, "no driver registered for %q", id)
	}
	return d, nil
}

// GetByName retrieves a driver by canonical id, alias, or product name.
func (r *Registry) GetByName(name string) (Driver, error) {
	id, ok := dbcapabilities.ParseID(name)
	if !ok {
		return nil, Errorf(dbcapabilities.DatabaseID(name), "resolve", KindProgramming,
			"unknown backend identifier %q", name)
	}
	return r.Get(id)
}

// IsRegistered reports whether a driver is registered for the backend.
func (r *Registry) IsRegistered(id dbcapabilities.DatabaseID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.drivers[id]
	return ok
}

// ListRegistered returns the registered backend ids in sorted order.
func (r *Registry) ListRegistered() []dbcapabilities.DatabaseID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]dbcapabilities.DatabaseID, 0, len(r.drivers))
	for id := range r.drivers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *Registry) resolve(cfg Config) (Driver, error) {
	return r.GetByName(cfg.Driver)
}

func (r *Registry) logger() *logger.Logger {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.log
}

// Connect resolves the configured backend and opens a connection through its
// driver.
func (r *Registry) Connect(ctx context.Context, cfg Config) (Connection, error) {
	d, err := r.resolve(cfg)
	if err != nil {
		return nil, err
	}
	conn, err := d.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if log := r.logger(); log != nil {
		log.WithFields(map[string]string{
			"driver":   string(d.ID()),
			"database": cfg.DatabaseName,
			"conn_id":  conn.ID(),
		}).Info("opened database connection")
	}
	return conn, nil
}

// Create resolves the configured backend and creates the named database.
func (r *Registry) Create(ctx context.Context, cfg Config) error {
	d, err := r.resolve(cfg)
	if err != nil {
		return err
	}
	if err := d.CreateDatabase(ctx, cfg); err != nil {
		return err
	}
	if log := r.logger(); log != nil {
		log.Infof("created database %q on %s", cfg.DatabaseName, d.ID())
	}
	return nil
}

// Drop resolves the configured backend and deletes the named database.
func (r *Registry) Drop(ctx context.Context, cfg Config) error {
	d, err := r.resolve(cfg)
	if err != nil {
		return err
	}
	if err := d.DropDatabase(ctx, cfg); err != nil {
		return err
	}
	if log := r.logger(); log != nil {
		log.Infof("dropped database %q on %s", cfg.DatabaseName, d.ID())
	}
	return nil
}

// globalRegistry holds the built-in adapters plus any registered externally.
var globalRegistry = NewRegistry()

// Register registers a driver in the global registry.
func Register(d Driver) {
	globalRegistry.Register(d)
}

// Get retrieves a driver from the global registry.
func Get(id dbcapabilities.DatabaseID) (Driver, error) {
	return globalRegistry.Get(id)
}

// GetByName retrieves a driver from the global registry by name or alias.
func GetByName(name string) (Driver, error) {
	return globalRegistry.GetByName(name)
}

// IsRegistered checks the global registry.
func IsRegistered(id dbcapabilities.DatabaseID) bool {
	return globalRegistry.IsRegistered(id)
}

// ListRegistered lists the global registry's backend ids.
func ListRegistered() []dbcapabilities.DatabaseID {
	return globalRegistry.ListRegistered()
}

// SetLogger attaches a logger to the global registry.
func SetLogger(log *logger.Logger) {
	globalRegistry.SetLogger(log)
}

// GlobalRegistry returns the global registry.
func GlobalRegistry() *Registry {
	return globalRegistry
}

// Connect dispatches through the global registry.
func Connect(ctx context.Context, cfg Config) (Connection, error) {
	return globalRegistry.Connect(ctx, cfg)
}

// Create dispatches through the global registry.
func Create(ctx context.Context, cfg Config) error {
	return globalRegistry.Create(ctx, cfg)
}

// Drop dispatches through the global registry.
func Drop(ctx context.Context, cfg Config) error {
	return globalRegistry.Drop(ctx, cfg)
}
