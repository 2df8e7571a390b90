package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	snapshotFile = "menu_cache.json"
	dateLayout   = "2006-01-02"

	// DefaultRetention is how long cached menus are kept on disk
	DefaultRetention = 7 * 24 * time.Hour
)

// Entry is the menu text fetched for one date
type Entry struct {
	Text      string    `json:"text"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Snapshot is the on-disk representation of the cache, keyed by YYYY-MM-DD
type Snapshot struct {
	Entries   map[string]*Entry `json:"entries"`
	UpdatedAt string            `json:"updated_at"`
}

// NewSnapshot returns an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{Entries: make(map[string]*Entry)}
}

// Storage handles persistence of menu snapshots
type Storage struct {
	dataDir   string
	retention time.Duration
	now       func() time.Time
	mu        sync.Mutex
}

// New creates a new Storage instance rooted at dataDir
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir:   dataDir,
		retention: DefaultRetention,
		now:       time.Now,
	}, nil
}

// Path returns the snapshot file path
func (s *Storage) Path() string {
	return filepath.Join(s.dataDir, snapshotFile)
}

// LoadSnapshot reads the snapshot from disk. A missing file yields an empty snapshot.
func (s *Storage) LoadSnapshot() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Storage) load() (*Snapshot, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return NewSnapshot(), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	if snapshot.Entries == nil {
		snapshot.Entries = make(map[string]*Entry)
	}

	return &snapshot, nil
}

// SaveSnapshot prunes expired entries and writes the snapshot to disk
func (s *Storage) SaveSnapshot(snapshot *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(snapshot)
}

func (s *Storage) save(snapshot *Snapshot) error {
	s.prune(snapshot)
	snapshot.UpdatedAt = s.now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	// Write through a temp file and rename into place
	tmp := s.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.Path()); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}

	return nil
}

// prune drops entries whose date is older than the retention window.
// Keys that do not parse as dates are dropped too.
func (s *Storage) prune(snapshot *Snapshot) {
	cutoff := s.now().Add(-s.retention)
	for key := range snapshot.Entries {
		day, err := time.Parse(dateLayout, key)
		if err != nil || day.AddDate(0, 0, 1).Before(cutoff) {
			delete(snapshot.Entries, key)
		}
	}
}

// Load returns the cached text per date
func (s *Storage) Load() (map[string]string, error) {
	snapshot, err := s.LoadSnapshot()
	if err != nil {
		return nil, err
	}

	texts := make(map[string]string, len(snapshot.Entries))
	for key, entry := range snapshot.Entries {
		if entry != nil {
			texts[key] = entry.Text
		}
	}
	return texts, nil
}

// Put records the text fetched for date (YYYY-MM-DD). An existing entry for
// the same date is left untouched.
func (s *Storage) Put(date, text string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fmt.Errorf("invalid date key %q: %w", date, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.load()
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}

	if _, exists := snapshot.Entries[date]; exists {
		return nil
	}
	snapshot.Entries[date] = &Entry{Text: text, FetchedAt: s.now().UTC()}

	return s.save(snapshot)
}
