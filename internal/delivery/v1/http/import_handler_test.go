package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DRSN-tech/qr-menu-backend/internal/domain"
	"github.com/DRSN-tech/qr-menu-backend/internal/usecase"
	"github.com/DRSN-tech/qr-menu-backend/pkg/e"
	"github.com/DRSN-tech/qr-menu-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImportUC struct {
	info     *usecase.ImportSessionInfo
	err      error
	cooldown time.Duration
	deleted  int64

	lastBusiness uuid.UUID
	lastSession  uuid.UUID
	lastAction   string
}

func (f *fakeImportUC) StartImport(_ context.Context, businessID uuid.UUID) (*usecase.ImportSessionInfo, error) {
	f.lastBusiness, f.lastAction = businessID, "start"
	return f.info, f.err
}

func (f *fakeImportUC) GetSession(_ context.Context, id uuid.UUID) (*usecase.ImportSessionInfo, error) {
	f.lastSession, f.lastAction = id, "get"
	return f.info, f.err
}

func (f *fakeImportUC) CancelImport(_ context.Context, id uuid.UUID) (*usecase.ImportSessionInfo, error) {
	f.lastSession, f.lastAction = id, "cancel"
	return f.info, f.err
}

func (f *fakeImportUC) PauseImport(_ context.Context, id uuid.UUID) (*usecase.ImportSessionInfo, error) {
	f.lastSession, f.lastAction = id, "pause"
	return f.info, f.err
}

func (f *fakeImportUC) ResumeImport(_ context.Context, id uuid.UUID) (*usecase.ImportSessionInfo, error) {
	f.lastSession, f.lastAction = id, "resume"
	return f.info, f.err
}

func (f *fakeImportUC) RollbackImport(_ context.Context, id uuid.UUID) (*usecase.RollbackRes, error) {
	f.lastSession, f.lastAction = id, "rollback"
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.RollbackRes{Session: f.info, DeletedCategories: f.deleted}, nil
}

func (f *fakeImportUC) Cooldown(_ context.Context, businessID uuid.UUID) (time.Duration, error) {
	f.lastBusiness = businessID
	return f.cooldown, f.err
}

func newTestRouter(uc usecase.ImportUC) *chi.Mux {
	r := chi.NewRouter()
	NewRouter(r, logger.NewNopLogger()).Init(uc)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestImportHandler_StartImport(t *testing.T) {
	businessID := uuid.New()
	uc := &fakeImportUC{info: &usecase.ImportSessionInfo{
		ID:         uuid.New(),
		BusinessID: businessID,
		State:      domain.ImportRunning,
	}}

	rec := doRequest(t, newTestRouter(uc), http.MethodPost, "/api/v1/businesses/"+businessID.String()+"/imports")
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, businessID, uc.lastBusiness)

	var body ImportSessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, uc.info.ID, body.ID)
	assert.Equal(t, domain.ImportRunning, body.State)
}

func TestImportHandler_StartImportErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		retryAfter string
	}{
		{name: "in progress", err: e.Wrap("op", e.ErrImportInProgress), wantStatus: http.StatusConflict},
		{name: "cooldown", err: e.Wrap("op", e.NewCooldownError(179500*time.Millisecond)), wantStatus: http.StatusTooManyRequests, retryAfter: "180"},
		{name: "shutting down", err: context.Canceled, wantStatus: http.StatusServiceUnavailable},
		{name: "unexpected", err: assert.AnError, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeImportUC{err: tt.err}

			rec := doRequest(t, newTestRouter(uc), http.MethodPost, "/api/v1/businesses/"+uuid.NewString()+"/imports")
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.retryAfter, rec.Header().Get("Retry-After"))

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantStatus, body.Code)
		})
	}
}

func TestImportHandler_InvalidUUID(t *testing.T) {
	uc := &fakeImportUC{}
	router := newTestRouter(uc)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/businesses/not-a-uuid/imports")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/imports/42")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, uc.lastAction)
}

func TestImportHandler_SessionActions(t *testing.T) {
	sessionID := uuid.New()
	uc := &fakeImportUC{info: &usecase.ImportSessionInfo{ID: sessionID, State: domain.ImportCancelling}}
	router := newTestRouter(uc)

	for _, tc := range []struct{ method, suffix, action string }{
		{http.MethodGet, "", "get"},
		{http.MethodPost, "/cancel", "cancel"},
		{http.MethodPost, "/pause", "pause"},
		{http.MethodPost, "/resume", "resume"},
	} {
		rec := doRequest(t, router, tc.method, "/api/v1/imports/"+sessionID.String()+tc.suffix)
		assert.Equal(t, http.StatusOK, rec.Code, tc.action)
		assert.Equal(t, tc.action, uc.lastAction)
		assert.Equal(t, sessionID, uc.lastSession)
	}
}

func TestImportHandler_SessionErrors(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{err: e.Wrap("op", e.ErrSessionNotFound), wantStatus: http.StatusNotFound},
		{err: e.Wrap("op", e.ErrInvalidStateTransition), wantStatus: http.StatusConflict},
		{err: e.Wrap("op", e.ErrNothingToRollback), wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		uc := &fakeImportUC{err: tt.err}
		rec := doRequest(t, newTestRouter(uc), http.MethodPost, "/api/v1/imports/"+uuid.NewString()+"/rollback")
		assert.Equal(t, tt.wantStatus, rec.Code, tt.err.Error())
	}
}

func TestImportHandler_Rollback(t *testing.T) {
	sessionID := uuid.New()
	uc := &fakeImportUC{
		info:    &usecase.ImportSessionInfo{ID: sessionID, State: domain.ImportRolledBack},
		deleted: 2,
	}

	rec := doRequest(t, newTestRouter(uc), http.MethodPost, "/api/v1/imports/"+sessionID.String()+"/rollback")
	require.Equal(t, http.StatusOK, rec.Code)

	var body RollbackResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.EqualValues(t, 2, body.DeletedCategories)
	assert.Equal(t, domain.ImportRolledBack, body.Session.State)
}

func TestImportHandler_Cooldown(t *testing.T) {
	businessID := uuid.New()
	uc := &fakeImportUC{cooldown: 90 * time.Second}

	rec := doRequest(t, newTestRouter(uc), http.MethodGet, "/api/v1/businesses/"+businessID.String()+"/imports/cooldown")
	require.Equal(t, http.StatusOK, rec.Code)

	var body CooldownResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.Active)
	assert.EqualValues(t, 90, body.RetryAfterSeconds)
	assert.Equal(t, businessID, body.BusinessID)
}
