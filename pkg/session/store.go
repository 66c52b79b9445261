package session

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/TFMV/querylab/pkg/models"
)

// Store persists a session across invocations.
type Store interface {
	Load() (*Session, error)
	Save(s *Session) error
	Clear() error
}

// fileFormat is the on-disk layout of a session file.
type fileFormat struct {
	Token string      `yaml:"token"`
	User  models.User `yaml:"user"`
}

// FileStore keeps the session in a YAML file readable only by its owner.
type FileStore struct {
	path string
}

// NewFileStore creates a store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath is <user config dir>/querylab/session.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "querylab", "session.yaml"), nil
}

// Path returns the file location.
func (f *FileStore) Path() string {
	return f.path
}

// Load reads the session. A missing file yields a logged-out session.
func (f *FileStore) Load() (*Session, error) {
	data, err := os.ReadFile(f.path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var ff fileFormat
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", f.path, err)
	}
	return New(ff.Token, ff.User), nil
}

// Save writes the session with mode 0600.
func (f *FileStore) Save(s *Session) error {
	data, err := yaml.Marshal(fileFormat{Token: s.Token(), User: s.User()})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear removes the file. Clearing an absent session is not an error.
func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// MemoryStore keeps the session in memory. Used by tests and one-shot runs.
type MemoryStore struct {
	token string
	user  models.User
}

// Load returns a copy of the stored session.
func (m *MemoryStore) Load() (*Session, error) {
	return New(m.token, m.user), nil
}

// Save stores s.
func (m *MemoryStore) Save(s *Session) error {
	m.token, m.user = s.Token(), s.User()
	return nil
}

// Clear forgets the session.
func (m *MemoryStore) Clear() error {
	m.token, m.user = "", models.User{}
	return nil
}
