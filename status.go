package main

import "sync"

// previewLimit caps the in-flight text preview exposed to pollers.
const previewLimit = 80

// ProgressSnapshot is the unit-loop position of a run at one observation.
type ProgressSnapshot struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Text    string `json:"text"`
}

// StatusSnapshot is an atomic read of a run's progress, consumable by any
// poller without coupling to the pipeline's internals.
type StatusSnapshot struct {
	Active   bool             `json:"active"`
	Progress ProgressSnapshot `json:"progress"`
	Error    string           `json:"error"`
}

// RunStatus is the shared progress record for one translation run.
//
// The run goroutine is the only writer; any number of pollers may read
// concurrently through Snapshot. The record is reset at the start of each
// run and never partially reused across runs. Invariants: total is fixed
// once set, 0 <= current <= total, and current grows by exactly one per
// completed unit.
type RunStatus struct {
	mu      sync.Mutex
	active  bool
	current int
	total   int
	preview string
	errMsg  string
}

// NewRunStatus returns an idle status record.
func NewRunStatus() *RunStatus {
	return &RunStatus{}
}

// Begin resets the record for a new run and marks it active.
func (s *RunStatus) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = true
	s.current = 0
	s.total = 0
	s.preview = ""
	s.errMsg = ""
}

// SetTotal fixes the unit count for the run. Called once, before the loop.
func (s *RunStatus) SetTotal(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total = n
}

// SetPreview records the text about to be sent, truncated to previewLimit
// characters with an ellipsis marker when longer.
func (s *RunStatus) SetPreview(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preview = previewText(text)
}

// Advance increments the completed-unit counter by exactly one.
func (s *RunStatus) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current < s.total {
		s.current++
	}
}

// Finish marks the run complete.
func (s *RunStatus) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
}

// Fail marks the run failed with a human-readable message.
func (s *RunStatus) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	if err != nil {
		s.errMsg = err.Error()
	}
}

// Snapshot returns a consistent copy of the current state. Safe to call at
// any point, including mid-run.
func (s *RunStatus) Snapshot() StatusSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatusSnapshot{
		Active: s.active,
		Progress: ProgressSnapshot{
			Current: s.current,
			Total:   s.total,
			Text:    s.preview,
		},
		Error: s.errMsg,
	}
}

// previewText truncates text to previewLimit runes, appending an ellipsis
// marker when anything was cut.
func previewText(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLimit {
		return text
	}
	return string(runes[:previewLimit]) + "..."
}
