package profiles

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"llmrouter/internal/errs"
)

// Storage is the persistence contract for the profile set. The file
// backend is the production implementation; MemoryStorage backs tests.
type Storage interface {
	Load() (map[string]Profile, error)
	Save(profiles map[string]Profile) error
	// Backup copies the current persisted state aside before a write and
	// returns the backup location.
	Backup() (string, error)
}

// FileStorage persists profiles as a YAML mapping engine name ->
// {priority, capabilities}. Saves write to a temp file in the same
// directory and rename over the live file, so a crash mid-write cannot
// corrupt the configuration.
type FileStorage struct {
	path      string
	backupDir string
}

func NewFileStorage(path, backupDir string) *FileStorage {
	return &FileStorage{path: path, backupDir: backupDir}
}

func (fs *FileStorage) Load() (map[string]Profile, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		return nil, &errs.PersistenceError{Op: "load profiles", Err: err}
	}

	raw := make(map[string]Profile)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &errs.PersistenceError{Op: "parse profiles", Err: err}
	}

	profiles := make(map[string]Profile, len(raw))
	for name, p := range raw {
		p.Name = name
		p.Priority = ClampPriority(p.Priority)
		profiles[name] = p
	}
	return profiles, nil
}

func (fs *FileStorage) Save(profiles map[string]Profile) error {
	data, err := yaml.Marshal(profiles)
	if err != nil {
		return &errs.PersistenceError{Op: "marshal profiles", Err: err}
	}

	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &errs.PersistenceError{Op: "create profiles dir", Err: err}
	}

	// atomic replace: temp file in the same directory, then rename
	tmp, err := os.CreateTemp(dir, ".profiles-*.yaml")
	if err != nil {
		return &errs.PersistenceError{Op: "create temp profiles file", Err: err}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &errs.PersistenceError{Op: "write temp profiles file", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &errs.PersistenceError{Op: "close temp profiles file", Err: err}
	}
	if err := os.Rename(tmpPath, fs.path); err != nil {
		os.Remove(tmpPath)
		return &errs.PersistenceError{Op: "replace profiles file", Err: err}
	}
	return nil
}

func (fs *FileStorage) Backup() (string, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		return "", &errs.PersistenceError{Op: "read profiles for backup", Err: err}
	}

	if err := os.MkdirAll(fs.backupDir, 0o755); err != nil {
		return "", &errs.PersistenceError{Op: "create backup dir", Err: err}
	}

	timestamp := time.Now().Format("20060102_150405")
	backupPath := filepath.Join(fs.backupDir, fmt.Sprintf("engine_profiles_%s.yaml", timestamp))
	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return "", &errs.PersistenceError{Op: "write backup file", Err: err}
	}
	return backupPath, nil
}

// MemoryStorage is an in-memory Storage for tests.
type MemoryStorage struct {
	mu       sync.Mutex
	profiles map[string]Profile
	// SaveErr, when set, is returned by Save to exercise failure paths.
	SaveErr error
	Saves   int
	Backups int
}

func NewMemoryStorage(profiles map[string]Profile) *MemoryStorage {
	copied := make(map[string]Profile, len(profiles))
	for name, p := range profiles {
		p.Name = name
		copied[name] = p
	}
	return &MemoryStorage{profiles: copied}
}

func (ms *MemoryStorage) Load() (map[string]Profile, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	copied := make(map[string]Profile, len(ms.profiles))
	for name, p := range ms.profiles {
		copied[name] = p
	}
	return copied, nil
}

func (ms *MemoryStorage) Save(profiles map[string]Profile) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.SaveErr != nil {
		return ms.SaveErr
	}
	copied := make(map[string]Profile, len(profiles))
	for name, p := range profiles {
		copied[name] = p
	}
	ms.profiles = copied
	ms.Saves++
	return nil
}

func (ms *MemoryStorage) Backup() (string, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.Backups++
	return fmt.Sprintf("memory-backup-%d", ms.Backups), nil
}
