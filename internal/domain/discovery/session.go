package discovery

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DiscoverySession is an entity scoping one invocation of a scan. It owns the
// lifetime of per-scan resources and must be closed on every exit path,
// whether the scan completed, stopped early, or failed.
type DiscoverySession struct {
	id        uuid.UUID
	scanID    string
	startedAt time.Time

	closeOnce sync.Once
	onClose   func()
}

// NewSession creates a session for the scan identified by scanID. The onClose
// hook releases any per-scan resources and may be nil.
func NewSession(scanID string, onClose func()) *DiscoverySession {
	return &DiscoverySession{
		id:        uuid.New(),
		scanID:    scanID,
		startedAt: time.Now(),
		onClose:   onClose,
	}
}

// ID returns the session's unique identifier.
func (s *DiscoverySession) ID() uuid.UUID { return s.id }

// ScanID returns the identity of the scan this session belongs to.
func (s *DiscoverySession) ScanID() string { return s.scanID }

// StartedAt returns when the session was opened.
func (s *DiscoverySession) StartedAt() time.Time { return s.startedAt }

// Close releases the session's resources. It is idempotent and safe to defer
// alongside explicit calls.
func (s *DiscoverySession) Close() {
	s.closeOnce.Do(func() {
		if s.onClose != nil {
			s.onClose()
		}
	})
}
