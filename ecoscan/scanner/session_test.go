package scanner

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/greenloop/ecoscan/ecoscan/database/models"
	"github.com/greenloop/ecoscan/ecoscan/ledger"
	"github.com/greenloop/ecoscan/ecoscan/services"
)

type fakeCatalog struct {
	products map[string]*models.Product
}

func (f *fakeCatalog) FindByBarcode(_ context.Context, barcode string) (*models.Product, error) {
	if p, ok := f.products[barcode]; ok {
		return p, nil
	}
	return nil, services.ErrProductNotFound
}

type creditCall struct {
	userID    string
	product   *models.Product
	synthetic bool
}

type fakeCrediter struct {
	mu    sync.Mutex
	calls []creditCall
	err   error
}

func (f *fakeCrediter) Credit(_ context.Context, userID string, product *models.Product, synthetic bool) (*ledger.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, creditCall{userID: userID, product: product, synthetic: synthetic})
	points := product.OverallScore / 2
	return &ledger.Result{
		PointsEarned: points,
		EcoScore:     int64(points),
		TotalScans:   int64(len(f.calls)),
		Level:        "Eco Rookie",
	}, nil
}

func (f *fakeCrediter) snapshot() []creditCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]creditCall(nil), f.calls...)
}

func testConfig() Config {
	return Config{
		FallbackTimeout: 200 * time.Millisecond,
		SettleDelay:     10 * time.Millisecond,
		NavigateDelay:   10 * time.Millisecond,
	}
}

func waitDone(t *testing.T, s *Session) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("session did not finish, state=%s", s.Snapshot().State)
	}
}

func TestSessionCameraDetectionSettles(t *testing.T) {
	product := &models.Product{ID: "p1", Barcode: "7290000000001", OverallScore: 80}
	catalog := &fakeCatalog{products: map[string]*models.Product{product.Barcode: product}}
	credits := &fakeCrediter{}
	remote := NewRemoteDetector(true)

	s := NewSession("user-1", remote, catalog, credits, testConfig())
	require.NoError(t, s.StartCamera())
	require.Equal(t, StateDetecting, s.Snapshot().State)

	require.True(t, remote.Deliver(product.Barcode))
	waitDone(t, s)

	snap := s.Snapshot()
	require.Equal(t, StateSettled, snap.State)
	require.Equal(t, product.Barcode, snap.Barcode)
	require.NotNil(t, snap.Result)
	require.Equal(t, 40, snap.Result.PointsEarned)

	calls := credits.snapshot()
	require.Len(t, calls, 1)
	require.Equal(t, "user-1", calls[0].userID)
	require.False(t, calls[0].synthetic)

	// The device is released on detection, not on navigation.
	require.False(t, remote.Active())

	require.Eventually(t, func() bool {
		return s.Snapshot().Navigate
	}, time.Second, 5*time.Millisecond, "navigate flag never set")
}

func TestSessionSecondDeliveryIgnored(t *testing.T) {
	product := &models.Product{ID: "p1", Barcode: "7290000000001", OverallScore: 80}
	catalog := &fakeCatalog{products: map[string]*models.Product{product.Barcode: product}}
	credits := &fakeCrediter{}
	remote := NewRemoteDetector(true)

	s := NewSession("user-1", remote, catalog, credits, testConfig())
	require.NoError(t, s.StartCamera())

	require.True(t, remote.Deliver(product.Barcode))
	require.False(t, remote.Deliver("different-barcode"))
	waitDone(t, s)

	require.Len(t, credits.snapshot(), 1)
	require.Equal(t, product.Barcode, s.Snapshot().Barcode)
}

func TestSessionFallbackTimeout(t *testing.T) {
	catalog := &fakeCatalog{}
	credits := &fakeCrediter{}
	remote := NewRemoteDetector(true)

	cfg := testConfig()
	cfg.FallbackTimeout = 20 * time.Millisecond

	s := NewSession("user-1", remote, catalog, credits, cfg)
	require.NoError(t, s.StartCamera())
	waitDone(t, s)

	snap := s.Snapshot()
	require.Equal(t, StateSettled, snap.State)
	require.Contains(t, snap.Barcode, "DEMO")

	calls := credits.snapshot()
	require.Len(t, calls, 1)
	require.True(t, calls[0].synthetic)
	require.True(t, calls[0].product.Synthetic())

	// A detection arriving after the fallback won must not credit again.
	require.False(t, remote.Deliver("7290000000001"))
	require.Len(t, credits.snapshot(), 1)
	require.False(t, remote.Active())
}

func TestSessionDetectorUnavailable(t *testing.T) {
	catalog := &fakeCatalog{}
	credits := &fakeCrediter{}

	s := NewSession("user-1", NewRemoteDetector(false), catalog, credits, testConfig())
	require.NoError(t, s.StartCamera())
	waitDone(t, s)

	require.Equal(t, StateSettled, s.Snapshot().State)
	calls := credits.snapshot()
	require.Len(t, calls, 1)
	require.True(t, calls[0].synthetic)
}

func TestSessionCameraUnknownBarcodeFallsBack(t *testing.T) {
	catalog := &fakeCatalog{} // empty catalog, every lookup misses
	credits := &fakeCrediter{}
	remote := NewRemoteDetector(true)

	s := NewSession("user-1", remote, catalog, credits, testConfig())
	require.NoError(t, s.StartCamera())
	require.True(t, remote.Deliver("0000000000000"))
	waitDone(t, s)

	snap := s.Snapshot()
	require.Equal(t, StateSettled, snap.State)

	calls := credits.snapshot()
	require.Len(t, calls, 1)
	require.True(t, calls[0].synthetic)
	require.True(t, calls[0].product.Synthetic())
}

func TestSessionManualKnownBarcode(t *testing.T) {
	product := &models.Product{ID: "p1", Barcode: "7290000000001", OverallScore: 90}
	catalog := &fakeCatalog{products: map[string]*models.Product{product.Barcode: product}}
	credits := &fakeCrediter{}

	s := NewSession("user-1", NewRemoteDetector(false), catalog, credits, testConfig())
	result, err := s.SubmitManual(product.Barcode)
	require.NoError(t, err)
	require.Equal(t, 45, result.PointsEarned)

	require.Equal(t, StateSettled, s.Snapshot().State)
	calls := credits.snapshot()
	require.Len(t, calls, 1)
	require.False(t, calls[0].synthetic)
}

func TestSessionManualUnknownBarcodeFails(t *testing.T) {
	catalog := &fakeCatalog{}
	credits := &fakeCrediter{}

	s := NewSession("user-1", NewRemoteDetector(false), catalog, credits, testConfig())
	_, err := s.SubmitManual("0000000000000")
	require.ErrorIs(t, err, services.ErrProductNotFound)

	require.Equal(t, StateFailed, s.Snapshot().State)
	require.Empty(t, credits.snapshot())
}

func TestSessionCancel(t *testing.T) {
	catalog := &fakeCatalog{}
	credits := &fakeCrediter{}
	remote := NewRemoteDetector(true)

	s := NewSession("user-1", remote, catalog, credits, testConfig())
	require.NoError(t, s.StartCamera())
	require.True(t, remote.Active())

	s.Cancel()
	require.Equal(t, StateCancelled, s.Snapshot().State)
	require.False(t, remote.Active())

	select {
	case <-s.Done():
	default:
		t.Fatal("done channel not closed after cancel")
	}

	// Cancelling again must not panic or change state.
	s.Cancel()
	require.Equal(t, StateCancelled, s.Snapshot().State)

	// The stopped fallback timer must not credit later.
	time.Sleep(cfgFallbackSlack(testConfig()))
	require.Empty(t, credits.snapshot())
}

func cfgFallbackSlack(cfg Config) time.Duration {
	return cfg.FallbackTimeout + 50*time.Millisecond
}

func TestSessionCancelAfterSettleIsNoOp(t *testing.T) {
	product := &models.Product{ID: "p1", Barcode: "7290000000001", OverallScore: 80}
	catalog := &fakeCatalog{products: map[string]*models.Product{product.Barcode: product}}
	credits := &fakeCrediter{}
	remote := NewRemoteDetector(true)

	s := NewSession("user-1", remote, catalog, credits, testConfig())
	require.NoError(t, s.StartCamera())
	require.True(t, remote.Deliver(product.Barcode))
	waitDone(t, s)

	s.Cancel()
	require.Equal(t, StateSettled, s.Snapshot().State)
	require.NotNil(t, s.Snapshot().Result)
}

func TestSessionStartTwice(t *testing.T) {
	catalog := &fakeCatalog{}
	credits := &fakeCrediter{}
	remote := NewRemoteDetector(true)

	s := NewSession("user-1", remote, catalog, credits, testConfig())
	require.NoError(t, s.StartCamera())
	require.ErrorIs(t, s.StartCamera(), ErrSessionStarted)

	_, err := s.SubmitManual("7290000000001")
	require.ErrorIs(t, err, ErrSessionStarted)

	s.Cancel()
}
