package agent

import (
	"os"
	"path/filepath"
	"time"
)

// SessionResolver resolves the id of the most recently modified session
// belonging to a given child-agent type, per spec.md §6.7. Implementations
// are swappable per agent type without SessionStore needing to know how
// each child CLI lays out its own session logs.
type SessionResolver interface {
	// ResolveLatestSessionID returns the id of the most recently modified
	// session for agentType created or modified at or after spawnedAt and
	// not present in excluded, or ("", false) if none is found.
	ResolveLatestSessionID(agentType, cwd string, spawnedAt time.Time, excluded map[string]bool) (string, bool)
}

// DefaultResolver is a best-effort, file-mtime-based SessionResolver. It
// scans $BRAID_AGENT_LOGS/<agentType>/ for regular files whose name (minus
// extension) it treats as the session id, picking the newest one modified
// at or after spawnedAt that isn't excluded. Real per-CLI resolvers (which
// know each child's actual log format) can replace this without touching
// SessionStore.
type DefaultResolver struct {
	LogsRoot func() string
}

// NewDefaultResolver builds a DefaultResolver rooted at $BRAID_AGENT_LOGS
// (falling back to "" — meaning resolution always misses — when unset).
func NewDefaultResolver() *DefaultResolver {
	return &DefaultResolver{LogsRoot: func() string { return os.Getenv("BRAID_AGENT_LOGS") }}
}

func (r *DefaultResolver) ResolveLatestSessionID(agentType, cwd string, spawnedAt time.Time, excluded map[string]bool) (string, bool) {
	root := r.LogsRoot()
	if root == "" {
		return "", false
	}
	dir := filepath.Join(root, agentType)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	var bestID string
	var bestMod time.Time
	found := false
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(spawnedAt) {
			continue
		}
		id := sessionIDFromFilename(e.Name())
		if excluded[id] {
			continue
		}
		if !found || info.ModTime().After(bestMod) {
			bestID = id
			bestMod = info.ModTime()
			found = true
		}
	}
	return bestID, found
}

func sessionIDFromFilename(name string) string {
	ext := filepath.Ext(name)
	return name[:len(name)-len(ext)]
}
