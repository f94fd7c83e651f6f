package prefs

import (
	"encoding/json"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/quasilyte/gdata"
)

// AppName namespaces everything this tool persists.
const AppName = "partify"

// IntroDismissedKey records that the user closed the intro notice.
const IntroDismissedKey = "intro_dismissed"

// Store is a small key/value blob store. *gdata.Manager satisfies it.
type Store interface {
	LoadItem(key string) ([]byte, error)
	SaveItem(key string, data []byte) error
}

// Open returns the per-user data store for this tool.
func Open() (Store, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: AppName,
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func makeKey(key string) string {
	return AppName + "." + key
}

// Flag is a persisted boolean. Reads happen once at construction; any
// storage failure falls back to the in-memory value.
type Flag struct {
	mu     sync.Mutex
	store  Store
	key    string
	value  bool
	logger *log.Logger
}

// NewFlag loads key from store, falling back to def when the store is
// missing, empty, unreadable, or holds something that is not a bool.
func NewFlag(store Store, key string, def bool, logger *log.Logger) *Flag {
	if logger == nil {
		logger = log.Default()
	}
	f := &Flag{store: store, key: makeKey(key), value: def, logger: logger}
	if store == nil {
		return f
	}

	data, err := store.LoadItem(f.key)
	if err != nil {
		logger.Warn("could not load preference", "key", f.key, "err", err)
		return f
	}
	if data == nil {
		return f
	}
	var v bool
	if err := json.Unmarshal(data, &v); err != nil {
		logger.Warn("could not parse preference", "key", f.key, "err", err)
		return f
	}
	f.value = v
	return f
}

// Get returns the current value.
func (f *Flag) Get() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// Set updates the value and persists it. Write failures are logged and
// otherwise ignored.
func (f *Flag) Set(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = v
	if f.store == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		f.logger.Warn("could not serialize preference", "key", f.key, "err", err)
		return
	}
	if err := f.store.SaveItem(f.key, data); err != nil {
		f.logger.Warn("could not save preference", "key", f.key, "err", err)
	}
}

// MemoryStore keeps items in memory. Useful when no per-user storage is
// available.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]byte)}
}

func (m *MemoryStore) LoadItem(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.items[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryStore) SaveItem(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = append([]byte(nil), data...)
	return nil
}
