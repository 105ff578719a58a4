package sessionstore

import (
	"time"

	"github.com/pashenkov/braid/internal/agent"
)

// CaptureResumeIDs fills in ResumedSessionID for every agent in sess by
// consulting resolver, per spec.md §6.7: called only at save time, once per
// agent, excluding every other agent's already-resolved id so two agents of
// the same type spawned close together don't both latch onto the same log.
func CaptureResumeIDs(sess *Session, resolver agent.SessionResolver, cwd string) {
	if resolver == nil {
		return
	}
	excluded := make(map[string]bool, len(sess.Agents))
	for id, desc := range sess.Agents {
		if desc.ResumedSessionID != "" {
			excluded[desc.ResumedSessionID] = true
		}
		_ = id
	}
	for id, desc := range sess.Agents {
		spawnedAt := time.Time{}
		if desc.SpawnedAt != nil {
			spawnedAt = *desc.SpawnedAt
		}
		if resolved, ok := resolver.ResolveLatestSessionID(desc.Type, cwd, spawnedAt, excluded); ok {
			desc.ResumedSessionID = resolved
			excluded[resolved] = true
			sess.Agents[id] = desc
		}
	}
}

// ResumeArgv builds the full argv for respawning desc's agent on restore:
// the agent type's resume flag (if a resumed session id was captured)
// followed by the agent's own saved extra argv.
func ResumeArgv(desc AgentDescriptor, at agent.AgentType) []string {
	argv := at.PrependArgs(desc.ResumedSessionID)
	return append(argv, desc.Argv...)
}
