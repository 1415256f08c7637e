// Package store keeps live registration workflows, keyed by registration ID.
package store

import (
	"context"
	"sync"
	"time"

	"ddinvest/internal/registration/workflow"
	id "ddinvest/pkg/domain"
	"ddinvest/pkg/platform/sentinel"
	"ddinvest/pkg/requestcontext"
)

type entry struct {
	wf       *workflow.Workflow
	lastSeen time.Time
}

// InMemoryRegistry holds workflows in process memory. Every lookup counts as
// activity for idle sweeping.
type InMemoryRegistry struct {
	mu      sync.Mutex
	entries map[id.RegistrationID]*entry
}

func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{entries: make(map[id.RegistrationID]*entry)}
}

func (r *InMemoryRegistry) Save(ctx context.Context, wf *workflow.Workflow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[wf.ID()] = &entry{wf: wf, lastSeen: requestcontext.Now(ctx)}
	return nil
}

func (r *InMemoryRegistry) Get(ctx context.Context, regID id.RegistrationID) (*workflow.Workflow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[regID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	e.lastSeen = requestcontext.Now(ctx)
	return e.wf, nil
}

func (r *InMemoryRegistry) Delete(_ context.Context, regID id.RegistrationID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[regID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(r.entries, regID)
	return nil
}

// Sweep removes workflows unseen for longer than idle and returns their IDs.
// A workflow with a call in flight is kept until the call settles.
func (r *InMemoryRegistry) Sweep(now time.Time, idle time.Duration) []id.RegistrationID {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed []id.RegistrationID
	for regID, e := range r.entries {
		if now.Sub(e.lastSeen) <= idle || e.wf.Busy() {
			continue
		}
		delete(r.entries, regID)
		removed = append(removed, regID)
	}
	return removed
}

// Len reports how many workflows are live.
func (r *InMemoryRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
