package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DRSN-tech/qr-menu-backend/internal/domain"
	"github.com/DRSN-tech/qr-menu-backend/pkg/e"
	"github.com/DRSN-tech/qr-menu-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceDeps struct {
	store     *memStore
	provider  *fakeProvider
	cooldowns *memCooldowns
	snapshots *memSnapshots
	outbox    *memOutbox
	archiver  *chanArchiver
	service   *ImportService
}

func newTestService(t *testing.T, provider *fakeProvider) *serviceDeps {
	t.Helper()

	d := &serviceDeps{
		store:     newMemStore(),
		provider:  provider,
		cooldowns: newMemCooldowns(),
		snapshots: newMemSnapshots(),
		outbox:    &memOutbox{},
		archiver:  &chanArchiver{reports: make(chan *ArchiveReportReq, 4)},
	}
	d.service = NewImportService(
		newTestImporter(d.store, provider),
		d.cooldowns,
		d.snapshots,
		d.outbox,
		noTx{},
		stateEncoder{},
		d.archiver,
		logger.NewNopLogger(),
		time.Hour,
	)
	t.Cleanup(func() {
		_ = d.service.Shutdown(context.Background())
	})

	return d
}

func (d *serviceDeps) waitReport(t *testing.T) *ArchiveReportReq {
	t.Helper()

	select {
	case r := <-d.archiver.reports:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("import did not finish")
		return nil
	}
}

func TestImportService_RunsImportInBackground(t *testing.T) {
	d := newTestService(t, &fakeProvider{catalog: threeCategoryCatalog()})
	businessID := uuid.New()

	info, err := d.service.StartImport(context.Background(), businessID)
	require.NoError(t, err)
	assert.Equal(t, domain.ImportRunning, info.State)
	assert.Equal(t, businessID, info.BusinessID)

	report := d.waitReport(t)
	assert.Equal(t, info.ID, report.SessionID)
	assert.Equal(t, businessID, report.BusinessID)

	var body map[string]any
	require.NoError(t, json.Unmarshal(report.Report, &body))
	assert.Equal(t, "completed", body["state"])
	assert.EqualValues(t, 4, body["stats"].(map[string]any)["imported_products"])

	got, err := d.service.GetSession(context.Background(), info.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ImportCompleted, got.State)

	events := d.outbox.all()
	require.Len(t, events, 1)
	assert.Equal(t, ImportFinishedEvent, events[0].EventType)
	assert.Equal(t, businessID.String(), events[0].AggregateID)
	assert.Equal(t, []byte("completed"), events[0].Payload)
	assert.Equal(t, Pending, events[0].Status)

	snapshot, ok := d.snapshots.get(info.ID)
	require.True(t, ok)
	assert.Equal(t, domain.ImportCompleted, snapshot.State)
}

func TestImportService_ReusesSessionAfterCompletion(t *testing.T) {
	d := newTestService(t, &fakeProvider{catalog: threeCategoryCatalog()})
	businessID := uuid.New()

	first, err := d.service.StartImport(context.Background(), businessID)
	require.NoError(t, err)
	d.waitReport(t)

	second, err := d.service.StartImport(context.Background(), businessID)
	require.NoError(t, err)
	d.waitReport(t)

	assert.Equal(t, first.ID, second.ID)
	menus, categories, _, _, _ := d.store.counts()
	assert.Equal(t, 1, menus)
	assert.Equal(t, 3, categories)
}

func TestImportService_RejectsConcurrentImport(t *testing.T) {
	provider := &fakeProvider{catalog: threeCategoryCatalog(), block: make(chan struct{})}
	d := newTestService(t, provider)
	businessID := uuid.New()

	_, err := d.service.StartImport(context.Background(), businessID)
	require.NoError(t, err)

	_, err = d.service.StartImport(context.Background(), businessID)
	assert.ErrorIs(t, err, e.ErrImportInProgress)

	// другое заведение импортирует независимо
	_, err = d.service.StartImport(context.Background(), uuid.New())
	require.NoError(t, err)

	close(provider.block)
	d.waitReport(t)
	d.waitReport(t)
}

func TestImportService_RateLimitArmsCooldown(t *testing.T) {
	d := newTestService(t, &fakeProvider{err: e.NewRateLimitError(180 * time.Second)})
	businessID := uuid.New()

	info, err := d.service.StartImport(context.Background(), businessID)
	require.NoError(t, err)
	d.waitReport(t)

	got, err := d.service.GetSession(context.Background(), info.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ImportFailed, got.State)
	assert.Equal(t, 180*time.Second, got.RetryAfter)

	remaining, err := d.service.Cooldown(context.Background(), businessID)
	require.NoError(t, err)
	assert.Equal(t, 180*time.Second, remaining)

	_, err = d.service.StartImport(context.Background(), businessID)
	require.ErrorIs(t, err, e.ErrImportCooldown)

	var ce *e.CooldownError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 180*time.Second, ce.Remaining)
}

func TestImportService_CancelAndRollback(t *testing.T) {
	provider := &fakeProvider{catalog: threeCategoryCatalog(), block: make(chan struct{})}
	d := newTestService(t, provider)
	businessID := uuid.New()

	info, err := d.service.StartImport(context.Background(), businessID)
	require.NoError(t, err)

	// отмена до загрузки каталога: ни одна категория не будет обработана
	cancelled, err := d.service.CancelImport(context.Background(), info.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ImportCancelling, cancelled.State)

	close(provider.block)
	d.waitReport(t)

	got, err := d.service.GetSession(context.Background(), info.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ImportCancelled, got.State)
	assert.Empty(t, d.store.categoryNames())

	res, err := d.service.RollbackImport(context.Background(), info.ID)
	require.NoError(t, err)
	assert.Zero(t, res.DeletedCategories)
	assert.Equal(t, domain.ImportRolledBack, res.Session.State)

	// после отката создаётся новая сессия
	next, err := d.service.StartImport(context.Background(), businessID)
	require.NoError(t, err)
	assert.NotEqual(t, info.ID, next.ID)
	d.waitReport(t)
}

func TestImportService_PauseAndResume(t *testing.T) {
	provider := &fakeProvider{catalog: threeCategoryCatalog(), block: make(chan struct{})}
	d := newTestService(t, provider)

	info, err := d.service.StartImport(context.Background(), uuid.New())
	require.NoError(t, err)

	paused, err := d.service.PauseImport(context.Background(), info.ID)
	require.NoError(t, err)
	assert.True(t, paused.Paused)

	close(provider.block)
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, d.store.categoryNames())

	resumed, err := d.service.ResumeImport(context.Background(), info.ID)
	require.NoError(t, err)
	assert.False(t, resumed.Paused)

	d.waitReport(t)
	assert.Len(t, d.store.categoryNames(), 3)
}

func TestImportService_UnknownSession(t *testing.T) {
	d := newTestService(t, &fakeProvider{})
	id := uuid.New()

	_, err := d.service.GetSession(context.Background(), id)
	assert.ErrorIs(t, err, e.ErrSessionNotFound)

	_, err = d.service.CancelImport(context.Background(), id)
	assert.ErrorIs(t, err, e.ErrSessionNotFound)

	_, err = d.service.RollbackImport(context.Background(), id)
	assert.ErrorIs(t, err, e.ErrSessionNotFound)

	// сессия, пережившая перезапуск, читается из снимка
	require.NoError(t, d.snapshots.SaveSnapshot(context.Background(), &ImportSessionInfo{ID: id, State: domain.ImportCompleted}))
	got, err := d.service.GetSession(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.ImportCompleted, got.State)
}

func TestImportService_ShutdownInterruptsStuckImport(t *testing.T) {
	d := newTestService(t, &fakeProvider{block: make(chan struct{})})

	_, err := d.service.StartImport(context.Background(), uuid.New())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = d.service.Shutdown(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = d.service.StartImport(context.Background(), uuid.New())
	assert.ErrorIs(t, err, context.Canceled)
}
