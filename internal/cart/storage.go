package cart

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/gorilla/sessions"
)

// FileStorage keeps the cart in a single file.
type FileStorage struct {
	Path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{Path: path}
}

func (f *FileStorage) Load() ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

// Save writes through a temporary file so a crash never leaves half a cart.
func (f *FileStorage) Save(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return err
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.Path)
}

// MemoryStorage keeps the cart in memory. SaveErr, when set, fails every
// Save.
type MemoryStorage struct {
	mu      sync.Mutex
	data    []byte
	SaveErr error
}

func NewMemoryStorage(initial []byte) *MemoryStorage {
	return &MemoryStorage{data: initial}
}

func (m *MemoryStorage) Load() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

func (m *MemoryStorage) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.data = append([]byte(nil), data...)
	return nil
}

// Bytes returns what was last saved.
func (m *MemoryStorage) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}

// SessionName is the cookie session holding the server-side cart.
const SessionName = "storefront_cart"

// SessionStorage keeps the cart in a gorilla/sessions session for the
// duration of one HTTP request.
type SessionStorage struct {
	store sessions.Store
	r     *http.Request
	w     http.ResponseWriter
}

func NewSessionStorage(store sessions.Store, r *http.Request, w http.ResponseWriter) *SessionStorage {
	return &SessionStorage{store: store, r: r, w: w}
}

// Load returns the stored cart. A session cookie that fails to decode is
// treated as empty.
func (s *SessionStorage) Load() ([]byte, error) {
	session, err := s.store.Get(s.r, SessionName)
	if err != nil && session == nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	raw, _ := session.Values[StorageKey].(string)
	if raw == "" {
		return nil, nil
	}
	return []byte(raw), nil
}

func (s *SessionStorage) Save(data []byte) error {
	session, err := s.store.Get(s.r, SessionName)
	if err != nil && session == nil {
		return fmt.Errorf("open session: %w", err)
	}
	session.Values[StorageKey] = string(data)
	return session.Save(s.r, s.w)
}
