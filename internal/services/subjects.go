package services

import (
	"context"
	"fmt"
)

// ErrSubjectGone marks a subject that no longer exists. The feed reader skips
// activities whose loader returns it instead of failing the whole feed.
var ErrSubjectGone = fmt.Errorf("subject no longer exists")

// ResolvedSubject is a loaded activity subject plus the fields the feed path
// needs to re-check visibility without knowing the concrete type.
type ResolvedSubject struct {
	Payload   any
	Protected Protected // nil when the subject has no privacy of its own
}

// SubjectLoader resolves one subject kind by its opaque ID. Loaders for
// dependent kinds (comments) resolve the parent that owns the visibility
// decision and return it as Protected.
type SubjectLoader func(ctx context.Context, id string) (*ResolvedSubject, error)

// SubjectRegistry maps subject type tags to loaders. Registration happens once
// at wiring time; lookups are read-only afterwards.
type SubjectRegistry struct {
	loaders map[string]SubjectLoader
}

// NewSubjectRegistry creates an empty SubjectRegistry
func NewSubjectRegistry() *SubjectRegistry {
	return &SubjectRegistry{loaders: make(map[string]SubjectLoader)}
}

// Register binds a loader to a subject type tag
func (r *SubjectRegistry) Register(subjectType string, loader SubjectLoader) {
	r.loaders[subjectType] = loader
}

// Resolve loads a subject by tag and ID. An unregistered tag behaves like a
// deleted subject: the row is unrenderable, not an error.
func (r *SubjectRegistry) Resolve(ctx context.Context, subjectType, subjectID string) (*ResolvedSubject, error) {
	loader, ok := r.loaders[subjectType]
	if !ok {
		return nil, ErrSubjectGone
	}
	return loader(ctx, subjectID)
}
