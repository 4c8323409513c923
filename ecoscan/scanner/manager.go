package scanner

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/greenloop/ecoscan/ecoscan/ledger"
)

var (
	// ErrActiveSession means the user already has a live camera
	// session; it must settle or be cancelled before a new one starts.
	ErrActiveSession = errors.New("user already has an active scan session")

	// ErrSessionNotFound means the session id is unknown or expired.
	ErrSessionNotFound = errors.New("scan session not found")
)

const defaultSessionTTL = 5 * time.Minute

type sessionRecord struct {
	session *Session
	remote  *RemoteDetector
}

// Manager owns the live camera sessions: one per user at a time,
// expired ones swept by a cleanup routine so an abandoned browser tab
// cannot hold the device acquisition forever.
type Manager struct {
	cfg     Config
	ttl     time.Duration
	catalog Catalog
	credits Crediter

	sessions sync.Map // session id -> *sessionRecord
	active   sync.Map // user id -> session id
}

func NewManager(catalog Catalog, credits Crediter, cfg Config, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &Manager{
		cfg:     cfg,
		ttl:     ttl,
		catalog: catalog,
		credits: credits,
	}
}

// StartCamera creates and starts a camera session for the user.
// cameraAvailable=false models a client without a camera or
// permission; the session then runs the demo fallback immediately.
func (m *Manager) StartCamera(userID string, cameraAvailable bool) (*Session, error) {
	remote := NewRemoteDetector(cameraAvailable)
	session := NewSession(userID, remote, m.catalog, m.credits, m.cfg)

	if prev, loaded := m.active.LoadOrStore(userID, session.ID); loaded {
		if rec, ok := m.load(prev.(string)); ok && !rec.session.Snapshot().State.Terminal() {
			return nil, ErrActiveSession
		}
		// Stale entry from a finished session; take its slot.
		m.active.Store(userID, session.ID)
	}

	m.sessions.Store(session.ID, &sessionRecord{session: session, remote: remote})

	if err := session.StartCamera(); err != nil {
		m.remove(session)
		return nil, err
	}

	slog.Debug("Camera session started",
		slog.String("type", "scan"),
		slog.String("session_id", session.ID),
		slog.String("user_id", userID),
		slog.Bool("camera_available", cameraAvailable))
	return session, nil
}

// ManualScan runs the synchronous manual-entry path. Manual scans do
// not acquire the detector, so they are not registered or limited.
func (m *Manager) ManualScan(userID string, barcode string) (*ledger.Result, error) {
	session := NewSession(userID, NewRemoteDetector(false), m.catalog, m.credits, m.cfg)
	return session.SubmitManual(barcode)
}

// Get returns a live session by id.
func (m *Manager) Get(sessionID string) (*Session, error) {
	rec, ok := m.load(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return rec.session, nil
}

// Deliver feeds a client-decoded barcode into the session's detector.
// It reports whether the detection was accepted (false once a trigger
// has already won or the device was released).
func (m *Manager) Deliver(sessionID string, barcode string) (bool, error) {
	rec, ok := m.load(sessionID)
	if !ok {
		return false, ErrSessionNotFound
	}
	return rec.remote.Deliver(barcode), nil
}

// Cancel cancels a session. Idempotent; unknown ids are an error.
func (m *Manager) Cancel(sessionID string) error {
	rec, ok := m.load(sessionID)
	if !ok {
		return ErrSessionNotFound
	}
	rec.session.Cancel()
	return nil
}

func (m *Manager) load(sessionID string) (*sessionRecord, bool) {
	v, ok := m.sessions.Load(sessionID)
	if !ok {
		return nil, false
	}
	return v.(*sessionRecord), true
}

func (m *Manager) remove(session *Session) {
	m.sessions.Delete(session.ID)
	if cur, ok := m.active.Load(session.UserID); ok && cur.(string) == session.ID {
		m.active.Delete(session.UserID)
	}
}

// StartCleanupRoutine sweeps expired sessions until ctx is done.
func (m *Manager) StartCleanupRoutine(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.sweep()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// sweep cancels and drops sessions past their TTL. Cancel on a
// terminal session is a no-op, so finished sessions just get dropped.
func (m *Manager) sweep() {
	cutoff := time.Now().Add(-m.ttl)
	m.sessions.Range(func(_, v interface{}) bool {
		rec := v.(*sessionRecord)
		if rec.session.CreatedAt.Before(cutoff) {
			rec.session.Cancel()
			m.remove(rec.session)
		}
		return true
	})
}
