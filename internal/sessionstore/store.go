package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

const lockTimeout = 5 * time.Second

// Store persists Session documents under a directory, one JSON file per
// session keyed by uuid, per spec.md §6.5.
type Store struct {
	dir string
}

// New returns a Store rooted at dir. dir is created lazily on first Save.
func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *Store) lockPath(id string) string {
	return filepath.Join(s.dir, id+".json.lock")
}

// Save writes sess to disk, assigning a fresh id and CreatedAt if this is
// the first save. Refuses with ErrNoSessionName if sess.Name is empty.
// Takes an exclusive lock on the session's own lock file and writes via a
// temp-file-then-rename so a crash mid-write never corrupts the prior copy.
func (s *Store) Save(sess *Session) error {
	if sess.Name == "" {
		return ErrNoSessionName
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("sessionstore: create dir: %w", err)
	}
	if sess.ID == "" {
		sess.ID = uuid.NewString()
		sess.CreatedAt = time.Now()
	}
	sess.UpdatedAt = time.Now()

	fl := flock.New(s.lockPath(sess.ID))
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()
	ok, err := fl.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return fmt.Errorf("sessionstore: acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("sessionstore: acquire lock: timed out after %s", lockTimeout)
	}
	defer fl.Unlock()

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("sessionstore: marshal session: %w", err)
	}

	final := s.path(sess.ID)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("sessionstore: write session: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("sessionstore: rename session: %w", err)
	}
	return nil
}

// Load resolves idOrName to a Session: first as an exact session id, then
// as the string "latest", matched case-insensitively (the most recently
// updated session of any name), then as a case-sensitive name match (most
// recently updated wins on ambiguity). Returns ErrSessionNotFound or
// ErrSessionCorrupt.
func (s *Store) Load(idOrName string) (*Session, error) {
	if idOrName == "" {
		return nil, ErrSessionNotFound
	}

	if data, err := os.ReadFile(s.path(idOrName)); err == nil {
		return decodeSession(data)
	}

	all, err := s.loadAll()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, ErrSessionNotFound
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UpdatedAt.After(all[j].UpdatedAt) })

	if strings.EqualFold(idOrName, "latest") {
		return all[0], nil
	}
	for _, sess := range all {
		if sess.Name == idOrName {
			return sess, nil
		}
	}
	return nil, ErrSessionNotFound
}

// List returns every valid saved session as a Summary, sorted by UpdatedAt
// descending. Files that fail to parse are skipped, per spec.md §6.5.
func (s *Store) List() ([]Summary, error) {
	all, err := s.loadAll()
	if err != nil {
		return nil, err
	}
	summaries := make([]Summary, 0, len(all))
	for _, sess := range all {
		summaries = append(summaries, Summary{
			ID:         sess.ID,
			Name:       sess.Name,
			UpdatedAt:  sess.UpdatedAt,
			AgentCount: len(sess.Agents),
			Short:      shortSummary(sess),
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt) })
	return summaries, nil
}

func (s *Store) loadAll() ([]*Session, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("sessionstore: read dir: %w", err)
	}

	var out []*Session
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		sess, err := decodeSession(data)
		if err != nil {
			continue
		}
		out = append(out, sess)
	}
	return out, nil
}

func decodeSession(data []byte) (*Session, error) {
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionCorrupt, err)
	}
	return &sess, nil
}

func shortSummary(sess *Session) string {
	names := make([]string, 0, len(sess.Agents))
	for _, a := range sess.Agents {
		names = append(names, a.Type)
	}
	sort.Strings(names)
	if len(names) == 0 {
		return "empty"
	}
	return strings.Join(names, ", ")
}
