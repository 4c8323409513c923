package scanner

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/greenloop/ecoscan/ecoscan/database/models"
	"github.com/greenloop/ecoscan/ecoscan/ledger"
	"github.com/greenloop/ecoscan/ecoscan/services"
)

// State is the scan session's position in the pipeline.
type State int

const (
	StateIdle State = iota
	StateActivating
	StateDetecting
	StateDetected
	StateResolving
	StateCrediting
	StateSettled
	StateCancelled
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:       "idle",
	StateActivating: "activating",
	StateDetecting:  "detecting",
	StateDetected:   "detected",
	StateResolving:  "resolving",
	StateCrediting:  "crediting",
	StateSettled:    "settled",
	StateCancelled:  "cancelled",
	StateFailed:     "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether the session is finished.
func (s State) Terminal() bool {
	return s == StateSettled || s == StateCancelled || s == StateFailed
}

// Source records how the barcode entered the session.
type Source int

const (
	SourceNone Source = iota
	SourceCamera
	SourceManual
	SourceFallback
)

var (
	// ErrSessionStarted means StartCamera or SubmitManual was called
	// on a session that already left Idle.
	ErrSessionStarted = errors.New("scan session already started")
)

// Catalog is the slice of the product catalog a session needs.
type Catalog interface {
	FindByBarcode(ctx context.Context, barcode string) (*models.Product, error)
}

// Crediter applies one resolved scan to the reward ledger.
type Crediter interface {
	Credit(ctx context.Context, userID string, product *models.Product, synthetic bool) (*ledger.Result, error)
}

// Config carries the session's three timer durations. Tests shrink
// them to keep runs fast.
type Config struct {
	FallbackTimeout time.Duration
	SettleDelay     time.Duration
	NavigateDelay   time.Duration
}

func DefaultConfig() Config {
	return Config{
		FallbackTimeout: 3 * time.Second,
		SettleDelay:     2 * time.Second,
		NavigateDelay:   1500 * time.Millisecond,
	}
}

// Snapshot is a point-in-time view of a session for polling clients.
type Snapshot struct {
	ID       string
	UserID   string
	State    State
	Barcode  string
	Result   *ledger.Result
	Err      error
	Navigate bool
}

// Session coordinates manual-entry and camera-detection paths into a
// single resolved-product credit. Exactly one trigger (a real
// detection or the fallback timer) wins the race to Detected; the
// loser is a no-op. The detector is released on every exit path.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time

	cfg      Config
	catalog  Catalog
	credits  Crediter
	detector Detector

	ctx    context.Context
	cancel context.CancelFunc

	// won is the one-shot guard shared by the detection callback and
	// the fallback timer.
	won atomic.Bool

	mu       sync.Mutex
	state    State
	source   Source
	barcode  string
	product  *models.Product
	handle   Handle
	acquired bool
	timers   []*time.Timer
	result   *ledger.Result
	err      error
	navigate bool
	done     chan struct{}
}

func NewSession(userID string, detector Detector, catalog Catalog, credits Crediter, cfg Config) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now(),
		cfg:       cfg,
		catalog:   catalog,
		credits:   credits,
		detector:  detector,
		ctx:       ctx,
		cancel:    cancel,
		state:     StateIdle,
		done:      make(chan struct{}),
	}
}

// Done is closed when the session reaches a terminal state.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:       s.ID,
		UserID:   s.UserID,
		State:    s.state,
		Barcode:  s.barcode,
		Result:   s.result,
		Err:      s.err,
		Navigate: s.navigate,
	}
}

// StartCamera acquires the detector and begins waiting for a
// detection. When the detector is unavailable the session goes
// straight to the demo fallback rather than failing.
func (s *Session) StartCamera() error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrSessionStarted
	}
	s.state = StateActivating
	s.mu.Unlock()

	handle, err := s.detector.Activate(s.ctx)
	if err != nil {
		if errors.Is(err, ErrDetectorUnavailable) {
			slog.Debug("Detector unavailable, using demo fallback",
				slog.String("type", "scan"),
				slog.String("session_id", s.ID))
			s.onFallback()
			return nil
		}
		s.fail(err)
		return err
	}

	s.mu.Lock()
	if s.state != StateActivating {
		// Cancelled while activating; the handle must not leak.
		s.mu.Unlock()
		s.detector.Deactivate(handle)
		return nil
	}
	s.handle = handle
	s.acquired = true
	s.state = StateDetecting
	s.detector.OnDetected(s.onDetected)
	s.armTimerLocked(s.cfg.FallbackTimeout, s.onFallback)
	s.mu.Unlock()
	return nil
}

// SubmitManual runs the manual-entry path: the session enters at
// Detected and resolves synchronously. A barcode with no catalog match
// fails with services.ErrProductNotFound; manual entry never falls
// back to a synthetic product.
func (s *Session) SubmitManual(barcode string) (*ledger.Result, error) {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return nil, ErrSessionStarted
	}
	s.won.Store(true)
	s.source = SourceManual
	s.barcode = barcode
	s.state = StateDetected
	s.mu.Unlock()

	s.resolveAndCredit()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

// onDetected handles a successful camera detection. Loses silently if
// the fallback timer already won.
func (s *Session) onDetected(barcode string) {
	if !s.won.CompareAndSwap(false, true) {
		return
	}

	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return
	}
	s.source = SourceCamera
	s.barcode = barcode
	s.state = StateDetected
	s.releaseDetectorLocked()
	s.armTimerLocked(s.cfg.SettleDelay, s.resolveAndCredit)
	s.mu.Unlock()
}

// onFallback fires when the fallback window elapses with no detection,
// or immediately when no detector exists. Loses silently if a real
// detection already won.
func (s *Session) onFallback() {
	if !s.won.CompareAndSwap(false, true) {
		return
	}

	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return
	}
	s.source = SourceFallback
	s.product = NewSyntheticProduct(time.Now())
	s.barcode = s.product.Barcode
	s.state = StateDetected
	s.releaseDetectorLocked()
	s.armTimerLocked(s.cfg.SettleDelay, s.resolveAndCredit)
	s.mu.Unlock()
}

// resolveAndCredit drives Detected → Resolving → Crediting → Settled.
func (s *Session) resolveAndCredit() {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return
	}
	s.state = StateResolving
	source := s.source
	barcode := s.barcode
	product := s.product
	s.mu.Unlock()

	synthetic := source == SourceFallback
	if !synthetic {
		found, err := s.catalog.FindByBarcode(s.ctx, barcode)
		switch {
		case err == nil:
			product = found
		case errors.Is(err, services.ErrProductNotFound) && source == SourceCamera:
			// Unknown barcode from the camera still pays out a demo
			// reward; manual entry does not get that grace.
			product = NewSyntheticProduct(time.Now())
			synthetic = true
		default:
			s.fail(err)
			return
		}
	}

	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return
	}
	s.state = StateCrediting
	s.mu.Unlock()

	result, err := s.credits.Credit(s.ctx, s.UserID, product, synthetic)

	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.failLocked(err)
		s.mu.Unlock()
		return
	}
	s.state = StateSettled
	s.result = result
	s.armTimerLocked(s.cfg.NavigateDelay, s.markNavigate)
	close(s.done)
	s.mu.Unlock()

	slog.Info("Scan session settled",
		slog.String("type", "scan"),
		slog.String("session_id", s.ID),
		slog.String("user_id", s.UserID),
		slog.Bool("synthetic", synthetic),
		slog.Int("points", result.PointsEarned))
}

func (s *Session) markNavigate() {
	s.mu.Lock()
	if s.state == StateSettled {
		s.navigate = true
	}
	s.mu.Unlock()
}

// Cancel terminates the session, releasing the detector and stopping
// all pending timers. Cancelling a finished session is a no-op.
func (s *Session) Cancel() {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return
	}
	s.state = StateCancelled
	s.releaseDetectorLocked()
	s.stopTimersLocked()
	close(s.done)
	s.mu.Unlock()

	s.cancel()
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return
	}
	s.failLocked(err)
	s.mu.Unlock()
}

// failLocked requires s.mu held and a non-terminal state.
func (s *Session) failLocked(err error) {
	s.state = StateFailed
	s.err = err
	s.releaseDetectorLocked()
	s.stopTimersLocked()
	close(s.done)

	slog.Warn("Scan session failed",
		slog.String("type", "scan"),
		slog.String("session_id", s.ID),
		slog.String("user_id", s.UserID),
		slog.Any("error", err))
}

func (s *Session) releaseDetectorLocked() {
	if s.acquired {
		s.detector.Deactivate(s.handle)
		s.acquired = false
	}
}

func (s *Session) armTimerLocked(d time.Duration, fn func()) {
	s.timers = append(s.timers, time.AfterFunc(d, fn))
}

func (s *Session) stopTimersLocked() {
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}
