// Package state holds the single shared snapshot produced by the
// ingestion loop and read by the HTTP layer. The snapshot is replaced
// wholesale once per successful cycle so that readers always see data
// from exactly one cycle, never a mix.
package state

import (
	"sync"

	"github.com/cwarden/dmarc-report-viewer/internal/dmarc"
	"github.com/cwarden/dmarc-report-viewer/internal/summary"
)

// MailInfo is the listing entry kept per fetched mail. Bodies are
// dropped once the cycle that fetched them is folded into a snapshot.
type MailInfo struct {
	UID     uint32 `json:"uid"`
	Subject string `json:"subject"`
	Size    uint32 `json:"size"`
}

// Snapshot is the complete application state of one cycle. All fields
// belong to the same cycle and are never mutated after publishing.
type Snapshot struct {
	Mails      []MailInfo       `json:"mails"`
	Reports    []dmarc.Report   `json:"reports"`
	XMLErrors  []dmarc.XMLError `json:"xml_errors"`
	Summary    summary.Summary  `json:"summary"`
	LastUpdate int64            `json:"last_update"`
}

// Store guards the snapshot with a single mutex. There are
// deliberately no per-field setters.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot
}

func NewStore() *Store {
	return &Store{}
}

// Replace publishes the snapshot of a finished cycle. The critical
// section contains nothing but the assignment.
func (s *Store) Replace(snap Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

// Snapshot returns the most recently published state. Callers must
// treat the contained slices as read-only.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
