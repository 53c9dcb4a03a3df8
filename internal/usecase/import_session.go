package usecase

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/DRSN-tech/qr-menu-backend/internal/domain"
	"github.com/DRSN-tech/qr-menu-backend/pkg/e"
	"github.com/google/uuid"
)

// ImportContext — состояние прогона, которое читает и обновляет реконсилятор.
type ImportContext interface {
	MenuID() int64
	SetMenuID(id int64)
	// TrackCategory запоминает категорию, затронутую прогоном; created — создана этим прогоном.
	TrackCategory(id int64, created bool)
	// Checkpoint вызывается на границах циклов; false — прогон нужно остановить.
	Checkpoint(ctx context.Context) bool
}

// CleanupContext — данные, необходимые для отката импорта.
type CleanupContext interface {
	MenuID() int64
	CreatedCategoryIDs() []int64
}

// CatalogImportRunner — реконсилятор каталога, которым управляет сессия.
type CatalogImportRunner interface {
	ImportCatalog(ctx context.Context, ic ImportContext, businessID uuid.UUID, onProgress ProgressFunc) (*ImportCatalogRes, error)
	Cleanup(ctx context.Context, cc CleanupContext) (int64, error)
}

// CancelToken — кооперативная отмена и пауза. Проверяется только на границах циклов,
// уже начатая запись в БД не прерывается.
type CancelToken struct {
	mu        sync.Mutex
	cancelled bool
	paused    bool
	wake      chan struct{}
}

func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

func (t *CancelToken) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelled = true
	if t.paused {
		t.paused = false
		close(t.wake)
	}
}

func (t *CancelToken) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

// Pause ставит прогон на паузу. false — если он уже на паузе или отменён.
func (t *CancelToken) Pause() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancelled || t.paused {
		return false
	}
	t.paused = true
	t.wake = make(chan struct{})
	return true
}

// Resume снимает паузу. false — если паузы не было.
func (t *CancelToken) Resume() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.paused {
		return false
	}
	t.paused = false
	close(t.wake)
	return true
}

func (t *CancelToken) Paused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.paused
}

// Checkpoint блокируется, пока токен на паузе. Возвращает false при отмене или завершении ctx.
func (t *CancelToken) Checkpoint(ctx context.Context) bool {
	for {
		t.mu.Lock()
		if t.cancelled {
			t.mu.Unlock()
			return false
		}
		if !t.paused {
			t.mu.Unlock()
			return ctx.Err() == nil
		}
		wake := t.wake
		t.mu.Unlock()

		select {
		case <-wake:
		case <-ctx.Done():
			return false
		}
	}
}

// ImportSession — конечный автомат одной сессии импорта:
//
//	Idle → Running → Completed | Failed | Cancelling → Cancelled
//	Cancelled | Failed → RolledBack
//
// Повторный Start допускается из Completed, Cancelled и Failed: меню и созданные категории
// незавершённого прогона сохраняются, чтобы последующий откат удалил и их.
type ImportSession struct {
	id         uuid.UUID
	businessID uuid.UUID
	runner     CatalogImportRunner
	now        func() time.Time

	// runMu удерживается на время Start и Rollback.
	runMu sync.Mutex

	mu                 sync.Mutex
	state              domain.ImportState
	token              *CancelToken
	menuID             int64
	touchedCategoryIDs []int64
	createdCategoryIDs []int64
	progress           *domain.ImportProgress
	stats              *domain.ImportStats
	err                error
	retryAfter         time.Duration
	startedAt          *time.Time
	finishedAt         *time.Time
}

func NewImportSession(id uuid.UUID, businessID uuid.UUID, runner CatalogImportRunner) *ImportSession {
	return &ImportSession{
		id:         id,
		businessID: businessID,
		runner:     runner,
		now:        time.Now,
		state:      domain.ImportIdle,
		token:      NewCancelToken(),
	}
}

func (s *ImportSession) ID() uuid.UUID {
	return s.id
}

func (s *ImportSession) BusinessID() uuid.UUID {
	return s.businessID
}

func (s *ImportSession) State() domain.ImportState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start синхронно выполняет прогон импорта.
func (s *ImportSession) Start(ctx context.Context, onProgress ProgressFunc) (*ImportCatalogRes, error) {
	const op = "ImportSession.Start"

	if !s.runMu.TryLock() {
		return nil, e.Wrap(op, e.ErrImportInProgress)
	}
	defer s.runMu.Unlock()

	token, err := s.begin()
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	res, err := s.run(ctx, token, onProgress)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return res, nil
}

// Launch синхронно переводит сессию в Running и выполняет прогон в отдельной горутине.
// onDone получает снимок сессии на момент завершения прогона.
func (s *ImportSession) Launch(ctx context.Context, onProgress ProgressFunc, onDone func(*ImportSessionInfo, error)) error {
	const op = "ImportSession.Launch"

	if !s.runMu.TryLock() {
		return e.Wrap(op, e.ErrImportInProgress)
	}

	token, err := s.begin()
	if err != nil {
		s.runMu.Unlock()
		return e.Wrap(op, err)
	}

	go func() {
		_, err := s.run(ctx, token, onProgress)
		info := s.Snapshot()
		s.runMu.Unlock()

		if onDone != nil {
			onDone(info, err)
		}
	}()

	return nil
}

func (s *ImportSession) run(ctx context.Context, token *CancelToken, onProgress ProgressFunc) (*ImportCatalogRes, error) {
	res, err := s.runner.ImportCatalog(ctx, s, s.businessID, func(p domain.ImportProgress) {
		s.mu.Lock()
		s.progress = &p
		s.mu.Unlock()

		if onProgress != nil {
			onProgress(p)
		}
	})

	s.finish(token, res, err)

	return res, err
}

func (s *ImportSession) begin() (*CancelToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case domain.ImportIdle, domain.ImportCancelled, domain.ImportFailed:
	case domain.ImportCompleted:
		// работа завершённого прогона подтверждена, откатывать её больше нельзя
		s.createdCategoryIDs = nil
	case domain.ImportRunning, domain.ImportCancelling:
		return nil, e.ErrImportInProgress
	default:
		return nil, e.ErrInvalidStateTransition
	}

	now := s.now()
	s.state = domain.ImportRunning
	s.token = NewCancelToken()
	s.touchedCategoryIDs = nil
	s.progress = nil
	s.stats = nil
	s.err = nil
	s.retryAfter = 0
	s.startedAt = &now
	s.finishedAt = nil

	return s.token, nil
}

func (s *ImportSession) finish(token *CancelToken, res *ImportCatalogRes, runErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.finishedAt = &now

	switch {
	case runErr != nil:
		s.state = domain.ImportFailed
		s.err = runErr
		if d, ok := e.ParseRateLimit(runErr); ok {
			s.retryAfter = d
		}
	case token.Cancelled():
		s.state = domain.ImportCancelled
	default:
		s.state = domain.ImportCompleted
	}

	if res != nil {
		stats := res.Stats
		s.stats = &stats
	}
}

// RequestCancel запрашивает кооперативную отмену; прогон остановится на ближайшей границе цикла.
func (s *ImportSession) RequestCancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case domain.ImportRunning:
		s.state = domain.ImportCancelling
		s.token.Cancel()
		return nil
	case domain.ImportCancelling:
		return nil
	case domain.ImportIdle:
		s.state = domain.ImportCancelled
		return nil
	default:
		return e.ErrInvalidStateTransition
	}
}

// Pause приостанавливает прогон на ближайшей границе цикла.
func (s *ImportSession) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.ImportRunning || !s.token.Pause() {
		return e.ErrInvalidStateTransition
	}

	return nil
}

func (s *ImportSession) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.ImportRunning || !s.token.Resume() {
		return e.ErrInvalidStateTransition
	}

	return nil
}

// Rollback удаляет категории, созданные сессией (вместе с их продуктами и ценами).
// Допускается только из Cancelled или Failed.
func (s *ImportSession) Rollback(ctx context.Context) (int64, error) {
	const op = "ImportSession.Rollback"

	if !s.runMu.TryLock() {
		return 0, e.Wrap(op, e.ErrImportInProgress)
	}
	defer s.runMu.Unlock()

	s.mu.Lock()
	state, menuID := s.state, s.menuID
	s.mu.Unlock()

	if state != domain.ImportCancelled && state != domain.ImportFailed {
		return 0, e.Wrap(op, e.ErrInvalidStateTransition)
	}
	if menuID == 0 {
		return 0, e.Wrap(op, e.ErrNothingToRollback)
	}

	deleted, err := s.runner.Cleanup(ctx, s)
	if err != nil && !errors.Is(err, e.ErrNothingToRollback) {
		return 0, e.Wrap(op, err)
	}

	s.mu.Lock()
	s.state = domain.ImportRolledBack
	s.createdCategoryIDs = nil
	s.mu.Unlock()

	return deleted, nil
}

// Snapshot возвращает копию состояния сессии.
func (s *ImportSession) Snapshot() *ImportSessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := &ImportSessionInfo{
		ID:                 s.id,
		BusinessID:         s.businessID,
		State:              s.state,
		Paused:             s.token.Paused(),
		MenuID:             s.menuID,
		RetryAfter:         s.retryAfter,
		CreatedCategoryIDs: slices.Clone(s.createdCategoryIDs),
		StartedAt:          s.startedAt,
		FinishedAt:         s.finishedAt,
	}
	if s.progress != nil {
		p := *s.progress
		p.Stats = s.progress.Stats.Clone()
		info.Progress = &p
	}
	if s.stats != nil {
		stats := s.stats.Clone()
		info.Stats = &stats
	}
	if s.err != nil {
		info.Error = s.err.Error()
	}

	return info
}

// ImportContext

func (s *ImportSession) MenuID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.menuID
}

func (s *ImportSession) SetMenuID(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menuID = id
}

func (s *ImportSession) TrackCategory(id int64, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touchedCategoryIDs = append(s.touchedCategoryIDs, id)
	if created {
		s.createdCategoryIDs = append(s.createdCategoryIDs, id)
	}
}

func (s *ImportSession) Checkpoint(ctx context.Context) bool {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	return token.Checkpoint(ctx)
}

// CleanupContext

func (s *ImportSession) CreatedCategoryIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.createdCategoryIDs)
}

// TouchedCategoryIDs — все категории последнего прогона, включая переиспользованные.
func (s *ImportSession) TouchedCategoryIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.touchedCategoryIDs)
}
