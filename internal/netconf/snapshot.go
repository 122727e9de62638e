package netconf

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Snapshot records an interface's DNS servers before the first
// mutation. It is written to disk before any change is made, so the
// original settings survive a crash or a kill.
type Snapshot struct {
	Interface string    `json:"interface"`
	Servers   []string  `json:"servers,omitempty"`
	Source    Source    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

type snapshotFile struct {
	Interfaces map[string]*Snapshot `json:"interfaces"`
}

// SnapshotStore persists per-interface snapshots in a single JSON
// file.
type SnapshotStore struct {
	path string
}

// NewSnapshotStore returns a store backed by the given file.
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

// DefaultSnapshotPath returns the platform data location for the
// snapshot file.
func DefaultSnapshotPath() string {
	var dir string
	switch runtime.GOOS {
	case "darwin":
		dir = "/Library/Application Support/dnsset"
	case "windows":
		dir = filepath.Join(os.Getenv("PROGRAMDATA"), "dnsset")
	default:
		dir = "/var/lib/dnsset"
	}
	return filepath.Join(dir, "dns-snapshot.json")
}

func (s *SnapshotStore) read() (*snapshotFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &snapshotFile{Interfaces: map[string]*Snapshot{}}, nil
		}
		return nil, err
	}

	var file snapshotFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if file.Interfaces == nil {
		file.Interfaces = map[string]*Snapshot{}
	}
	return &file, nil
}

func (s *SnapshotStore) write(file *snapshotFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// Has reports whether a snapshot exists for the interface.
func (s *SnapshotStore) Has(iface string) bool {
	file, err := s.read()
	if err != nil {
		return false
	}
	return file.Interfaces[iface] != nil
}

// Save persists the interface's current servers. An existing snapshot
// is kept, so repeated applies still restore the original settings.
func (s *SnapshotStore) Save(iface string, servers []string, source Source) error {
	file, err := s.read()
	if err != nil {
		return err
	}
	if file.Interfaces[iface] != nil {
		return nil
	}

	file.Interfaces[iface] = &Snapshot{
		Interface: iface,
		Servers:   servers,
		Source:    source,
		CreatedAt: time.Now(),
	}
	return s.write(file)
}

// Load returns the snapshot for the interface, or nil when none
// exists.
func (s *SnapshotStore) Load(iface string) (*Snapshot, error) {
	file, err := s.read()
	if err != nil {
		return nil, err
	}
	return file.Interfaces[iface], nil
}

// Clear removes the interface's snapshot after a successful restore.
func (s *SnapshotStore) Clear(iface string) error {
	file, err := s.read()
	if err != nil {
		return err
	}
	if file.Interfaces[iface] == nil {
		return nil
	}
	delete(file.Interfaces, iface)

	if len(file.Interfaces) == 0 {
		err := os.Remove(s.path)
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return s.write(file)
}
