package scanner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/greenloop/ecoscan/ecoscan/database/models"
)

func testManager(catalog Catalog, credits Crediter) *Manager {
	return NewManager(catalog, credits, testConfig(), time.Minute)
}

func TestManagerOneActiveSessionPerUser(t *testing.T) {
	catalog := &fakeCatalog{}
	credits := &fakeCrediter{}
	m := testManager(catalog, credits)

	first, err := m.StartCamera("user-1", true)
	require.NoError(t, err)

	_, err = m.StartCamera("user-1", true)
	require.ErrorIs(t, err, ErrActiveSession)

	// A different user is not blocked.
	other, err := m.StartCamera("user-2", true)
	require.NoError(t, err)
	require.NoError(t, m.Cancel(other.ID))

	// Once the first session finishes, the slot frees up.
	require.NoError(t, m.Cancel(first.ID))
	second, err := m.StartCamera("user-1", true)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
	require.NoError(t, m.Cancel(second.ID))
}

func TestManagerDeliverRoutesToSession(t *testing.T) {
	product := &models.Product{ID: "p1", Barcode: "7290000000001", OverallScore: 80}
	catalog := &fakeCatalog{products: map[string]*models.Product{product.Barcode: product}}
	credits := &fakeCrediter{}
	m := testManager(catalog, credits)

	session, err := m.StartCamera("user-1", true)
	require.NoError(t, err)

	accepted, err := m.Deliver(session.ID, product.Barcode)
	require.NoError(t, err)
	require.True(t, accepted)

	waitDone(t, session)
	require.Equal(t, StateSettled, session.Snapshot().State)

	accepted, err = m.Deliver(session.ID, product.Barcode)
	require.NoError(t, err)
	require.False(t, accepted)
}

func TestManagerUnknownSession(t *testing.T) {
	m := testManager(&fakeCatalog{}, &fakeCrediter{})

	_, err := m.Get("nope")
	require.ErrorIs(t, err, ErrSessionNotFound)

	_, err = m.Deliver("nope", "7290000000001")
	require.ErrorIs(t, err, ErrSessionNotFound)

	require.ErrorIs(t, m.Cancel("nope"), ErrSessionNotFound)
}

func TestManagerManualScanUnregistered(t *testing.T) {
	product := &models.Product{ID: "p1", Barcode: "7290000000001", OverallScore: 70}
	catalog := &fakeCatalog{products: map[string]*models.Product{product.Barcode: product}}
	credits := &fakeCrediter{}
	m := testManager(catalog, credits)

	result, err := m.ManualScan("user-1", product.Barcode)
	require.NoError(t, err)
	require.Equal(t, 35, result.PointsEarned)

	// Manual scans never occupy the camera slot.
	session, err := m.StartCamera("user-1", true)
	require.NoError(t, err)
	require.NoError(t, m.Cancel(session.ID))
}

func TestManagerSweepExpiresSessions(t *testing.T) {
	catalog := &fakeCatalog{}
	credits := &fakeCrediter{}
	m := NewManager(catalog, credits, testConfig(), time.Minute)

	session, err := m.StartCamera("user-1", true)
	require.NoError(t, err)

	session.CreatedAt = time.Now().Add(-2 * time.Minute)
	m.sweep()

	_, err = m.Get(session.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)
	require.Equal(t, StateCancelled, session.Snapshot().State)

	// The expired session no longer blocks a new one.
	fresh, err := m.StartCamera("user-1", true)
	require.NoError(t, err)
	require.NoError(t, m.Cancel(fresh.ID))
}
