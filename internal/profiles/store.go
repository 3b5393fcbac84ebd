package profiles

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Store owns the in-process view of the engine profiles. Dispatcher
// invocations read concurrently; the optimizer takes the single writer
// path (ApplyPriorities), which backs up, mutates and persists under one
// lock so readers see either the old or the new set, never a torn one.
type Store struct {
	mu       sync.RWMutex
	storage  Storage
	profiles map[string]Profile
	logger   *zap.Logger
}

func NewStore(storage Storage, logger *zap.Logger) (*Store, error) {
	loaded, err := storage.Load()
	if err != nil {
		return nil, err
	}
	return &Store{
		storage:  storage,
		profiles: loaded,
		logger:   logger,
	}, nil
}

// Reload re-reads the persisted profile set, picking up administrative
// edits made directly to the backing file.
func (s *Store) Reload() error {
	loaded, err := s.storage.Load()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.profiles = loaded
	s.mu.Unlock()

	s.logger.Info("engine profiles reloaded", zap.Int("count", len(loaded)))
	return nil
}

// All returns a copy of every profile, sorted by name for stable
// iteration. The engine set may change between calls; callers must
// tolerate names appearing or disappearing.
func (s *Store) All() []Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

// Get returns a single profile by engine name.
func (s *Store) Get(name string) (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[name]
	return p, ok
}

// Len reports the number of registered engines.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

// Priorities returns the current priority per engine name.
func (s *Store) Priorities() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int, len(s.profiles))
	for name, p := range s.profiles {
		out[name] = p.Priority
	}
	return out
}

// ApplyPriorities is the optimizer's read-modify-write path: it backs up
// the persisted set, applies the clamped priorities and saves atomically,
// all under the write lock. On save failure the in-memory set is rolled
// back so memory and disk stay consistent. Returns the backup location.
func (s *Store) ApplyPriorities(priorities map[string]int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	backupPath, err := s.storage.Backup()
	if err != nil {
		return "", err
	}

	previous := make(map[string]Profile, len(s.profiles))
	for name, p := range s.profiles {
		previous[name] = p
	}

	for name, priority := range priorities {
		p, ok := s.profiles[name]
		if !ok {
			s.logger.Warn("priority update for unknown engine", zap.String("engine", name))
			continue
		}
		p.Priority = ClampPriority(priority)
		s.profiles[name] = p
	}

	if err := s.storage.Save(s.profiles); err != nil {
		s.profiles = previous
		return "", err
	}

	s.logger.Info("engine priorities persisted",
		zap.Int("updated", len(priorities)),
		zap.String("backup", backupPath))
	return backupPath, nil
}
