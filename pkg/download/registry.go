// Package download tracks the lifecycle of background model downloads.
//
// The registry is the single source of truth queried by the status
// endpoint. It records state reported to it and does nothing else: it
// spawns no goroutines, enforces no transition legality, and keeps no
// history. Entries are never deleted and are lost on process restart.
package download

import "sync"

// Status is the lifecycle state of a tracked download.
type Status string

const (
	// StatusUnknown is returned for names that were never submitted.
	StatusUnknown Status = "unknown"
	// StatusPending means the download was accepted but has not started.
	StatusPending Status = "pending"
	// StatusDownloading means the pull is in progress.
	StatusDownloading Status = "downloading"
	// StatusCompleted means the pull finished successfully.
	StatusCompleted Status = "completed"
	// StatusFailed means the pull finished with an error.
	StatusFailed Status = "failed"
)

// Terminal reports whether no further transition is expected for s
// short of a resubmission.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Registry maps model names to download states. All methods are safe
// for concurrent use and none of them blocks.
type Registry struct {
	mu       sync.RWMutex
	statuses map[string]Status
}

func NewRegistry() *Registry {
	return &Registry{
		statuses: make(map[string]Status),
	}
}

// Submit records a newly accepted download for name, setting its state
// to pending. Any previous state for name is overwritten, including a
// download still in flight; resubmitting a name resets its visible
// state and discards the old task's progress.
func (r *Registry) Submit(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses[name] = StatusPending
}

// Transition sets the state for name. It is called only by the
// background worker performing the pull; callers are trusted to follow
// pending -> downloading -> completed|failed.
func (r *Registry) Transition(name string, status Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses[name] = status
}

// Get returns the current state for name, or StatusUnknown if name was
// never submitted. An unknown name is not an error.
func (r *Registry) Get(name string) Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status, exists := r.statuses[name]
	if !exists {
		return StatusUnknown
	}
	return status
}
