package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/DRSN-tech/qr-menu-backend/internal/domain"
	"github.com/DRSN-tech/qr-menu-backend/pkg/e"
	"github.com/DRSN-tech/qr-menu-backend/pkg/logger"
	"github.com/google/uuid"
)

const (
	// snapshotTimeout — время на сохранение снимка прогресса в Redis
	snapshotTimeout = 500 * time.Millisecond
	// finishTimeout — время на запись outbox-события после завершения прогона
	finishTimeout = 5 * time.Second
)

// ImportService — единственный владелец сессий импорта. Не допускает двух одновременных прогонов
// для одного заведения, соблюдает паузу после ограничения частоты запросов провайдером
// и публикует итоги через outbox.
type ImportService struct {
	runner       CatalogImportRunner
	cooldownRepo CooldownRepository
	snapshotRepo SessionSnapshotRepository
	outboxRepo   OutboxRepository
	txManager    TxManager
	encoder      EventEncoder
	archiver     ReportArchiver
	logger       logger.Logger
	sessionTTL   time.Duration

	mu       sync.Mutex
	sessions map[uuid.UUID]*ImportSession
	latest   map[uuid.UUID]uuid.UUID // business id → последняя сессия

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewImportService создаёт сервис. archiver может быть nil, тогда отчёты не архивируются.
func NewImportService(
	runner CatalogImportRunner,
	cooldownRepo CooldownRepository,
	snapshotRepo SessionSnapshotRepository,
	outboxRepo OutboxRepository,
	txManager TxManager,
	encoder EventEncoder,
	archiver ReportArchiver,
	logger logger.Logger,
	sessionTTL time.Duration,
) *ImportService {
	ctx, cancel := context.WithCancel(context.Background())

	return &ImportService{
		runner:       runner,
		cooldownRepo: cooldownRepo,
		snapshotRepo: snapshotRepo,
		outboxRepo:   outboxRepo,
		txManager:    txManager,
		encoder:      encoder,
		archiver:     archiver,
		logger:       logger,
		sessionTTL:   sessionTTL,
		sessions:     make(map[uuid.UUID]*ImportSession),
		latest:       make(map[uuid.UUID]uuid.UUID),
		baseCtx:      ctx,
		cancel:       cancel,
	}
}

// StartImport запускает импорт каталога для заведения в фоне и возвращает снимок сессии.
// Сессия, завершившаяся без отката, переиспользуется: повторный прогон продолжает то же меню.
func (s *ImportService) StartImport(ctx context.Context, businessID uuid.UUID) (*ImportSessionInfo, error) {
	const op = "ImportService.StartImport"

	remaining, err := s.cooldownRepo.GetCooldown(ctx, businessID)
	if err != nil {
		s.logger.Warnf("Failed to read import cooldown, business_id: %s: %v", businessID, e.Wrap(op, err))
	}
	if remaining > 0 {
		return nil, e.Wrap(op, e.NewCooldownError(remaining))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.baseCtx.Err() != nil {
		return nil, e.Wrap(op, context.Canceled)
	}
	s.evictExpired()

	session := s.latestSession(businessID)
	if session == nil || session.State() == domain.ImportRolledBack {
		session = NewImportSession(uuid.New(), businessID, s.runner)
		s.sessions[session.ID()] = session
		s.latest[businessID] = session.ID()
	}

	s.wg.Add(1)
	err = session.Launch(s.baseCtx, s.progressSaver(session), func(info *ImportSessionInfo, err error) {
		defer s.wg.Done()
		s.onFinished(info, err)
	})
	if err != nil {
		s.wg.Done()
		return nil, e.Wrap(op, err)
	}

	s.logger.Infof("Catalog import started. business_id: %s, session_id: %s", businessID, session.ID())

	return session.Snapshot(), nil
}

// GetSession возвращает состояние сессии из памяти, а если её там нет — последний снимок из Redis.
func (s *ImportService) GetSession(ctx context.Context, id uuid.UUID) (*ImportSessionInfo, error) {
	const op = "ImportService.GetSession"

	if session, ok := s.session(id); ok {
		return session.Snapshot(), nil
	}

	info, err := s.snapshotRepo.GetSnapshot(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, e.Wrap(op, e.ErrSessionNotFound)
		}
		return nil, e.Wrap(op, err)
	}

	return info, nil
}

// CancelImport запрашивает кооперативную отмену прогона.
func (s *ImportService) CancelImport(ctx context.Context, id uuid.UUID) (*ImportSessionInfo, error) {
	const op = "ImportService.CancelImport"

	session, ok := s.session(id)
	if !ok {
		return nil, e.Wrap(op, e.ErrSessionNotFound)
	}

	if err := session.RequestCancel(); err != nil {
		return nil, e.Wrap(op, err)
	}

	info := session.Snapshot()
	s.saveSnapshot(ctx, info)

	return info, nil
}

func (s *ImportService) PauseImport(ctx context.Context, id uuid.UUID) (*ImportSessionInfo, error) {
	const op = "ImportService.PauseImport"

	session, ok := s.session(id)
	if !ok {
		return nil, e.Wrap(op, e.ErrSessionNotFound)
	}

	if err := session.Pause(); err != nil {
		return nil, e.Wrap(op, err)
	}

	info := session.Snapshot()
	s.saveSnapshot(ctx, info)

	return info, nil
}

func (s *ImportService) ResumeImport(ctx context.Context, id uuid.UUID) (*ImportSessionInfo, error) {
	const op = "ImportService.ResumeImport"

	session, ok := s.session(id)
	if !ok {
		return nil, e.Wrap(op, e.ErrSessionNotFound)
	}

	if err := session.Resume(); err != nil {
		return nil, e.Wrap(op, err)
	}

	info := session.Snapshot()
	s.saveSnapshot(ctx, info)

	return info, nil
}

// RollbackImport удаляет категории, созданные отменённым или упавшим прогоном.
func (s *ImportService) RollbackImport(ctx context.Context, id uuid.UUID) (*RollbackRes, error) {
	const op = "ImportService.RollbackImport"

	session, ok := s.session(id)
	if !ok {
		return nil, e.Wrap(op, e.ErrSessionNotFound)
	}

	deleted, err := session.Rollback(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	info := session.Snapshot()
	s.saveSnapshot(ctx, info)

	s.logger.Infof("Catalog import rolled back. session_id: %s, deleted categories: %d", id, deleted)

	return &RollbackRes{Session: info, DeletedCategories: deleted}, nil
}

// Cooldown возвращает, сколько ещё ждать до следующего импорта заведения.
func (s *ImportService) Cooldown(ctx context.Context, businessID uuid.UUID) (time.Duration, error) {
	const op = "ImportService.Cooldown"

	remaining, err := s.cooldownRepo.GetCooldown(ctx, businessID)
	if err != nil {
		return 0, e.Wrap(op, err)
	}

	return remaining, nil
}

// Shutdown запрашивает отмену всех прогонов и ждёт их завершения.
// Если ctx истекает раньше, контекст прогонов отменяется принудительно.
func (s *ImportService) Shutdown(ctx context.Context) error {
	const op = "ImportService.Shutdown"

	s.mu.Lock()
	for _, session := range s.sessions {
		if st := session.State(); st == domain.ImportRunning {
			_ = session.RequestCancel()
		}
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		return nil
	case <-ctx.Done():
		s.cancel()
		<-done
		return e.Wrap(op, ctx.Err())
	}
}

func (s *ImportService) onFinished(info *ImportSessionInfo, runErr error) {
	const op = "ImportService.onFinished"

	if runErr != nil {
		s.logger.Errorf(runErr, "Catalog import failed. business_id: %s, session_id: %s", info.BusinessID, info.ID)
	} else {
		s.logger.Infof("Catalog import finished. business_id: %s, session_id: %s, state: %s", info.BusinessID, info.ID, info.State)
	}

	ctx, cancel := context.WithTimeout(context.Background(), finishTimeout)
	defer cancel()

	if d, ok := e.ParseRateLimit(runErr); ok {
		if err := s.cooldownRepo.SetCooldown(ctx, info.BusinessID, d); err != nil {
			s.logger.Warnf("Failed to store import cooldown: %v", e.Wrap(op, err))
		}
	}

	s.saveSnapshot(ctx, info)

	if err := s.publishFinished(ctx, info); err != nil {
		s.logger.Errorf(err, "Failed to enqueue import finished event. session_id: %s", info.ID)
	}

	if s.archiver != nil {
		report, err := json.Marshal(newImportReport(info))
		if err != nil {
			s.logger.Warnf("Failed to encode import report: %v", e.Wrap(op, err))
			return
		}
		s.archiver.ArchiveReport(NewArchiveReportReq(info.BusinessID, info.ID, report))
	}
}

// publishFinished кладёт событие о завершении импорта в outbox.
func (s *ImportService) publishFinished(ctx context.Context, info *ImportSessionInfo) error {
	const op = "ImportService.publishFinished"

	payload, err := s.encoder.EncodeImportFinished(info)
	if err != nil {
		return e.Wrap(op, err)
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		_, err := s.outboxRepo.Create(ctx, NewOutboxEvent(ImportFinishedEvent, info.BusinessID.String(), payload))
		return err
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// progressSaver сохраняет снимок сессии при переходе к новой категории.
func (s *ImportService) progressSaver(session *ImportSession) ProgressFunc {
	return func(p domain.ImportProgress) {
		if p.CurrentProduct != "" {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
		defer cancel()

		s.saveSnapshot(ctx, session.Snapshot())
	}
}

func (s *ImportService) saveSnapshot(ctx context.Context, info *ImportSessionInfo) {
	const op = "ImportService.saveSnapshot"

	if err := s.snapshotRepo.SaveSnapshot(ctx, info); err != nil {
		s.logger.Warnf("Failed to save import snapshot. session_id: %s: %v", info.ID, e.Wrap(op, err))
	}
}

func (s *ImportService) session(id uuid.UUID) (*ImportSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	return session, ok
}

// latestSession вызывается под s.mu.
func (s *ImportService) latestSession(businessID uuid.UUID) *ImportSession {
	id, ok := s.latest[businessID]
	if !ok {
		return nil
	}

	return s.sessions[id]
}

// evictExpired удаляет из памяти сессии, завершившиеся раньше sessionTTL. Вызывается под s.mu.
func (s *ImportService) evictExpired() {
	if s.sessionTTL <= 0 {
		return
	}

	deadline := time.Now().Add(-s.sessionTTL)
	for id, session := range s.sessions {
		info := session.Snapshot()
		if !info.State.Terminal() || info.FinishedAt == nil || info.FinishedAt.After(deadline) {
			continue
		}

		delete(s.sessions, id)
		if s.latest[info.BusinessID] == id {
			delete(s.latest, info.BusinessID)
		}
	}
}

// importReport — JSON-отчёт об импорте для архива.
type importReport struct {
	SessionID  uuid.UUID           `json:"session_id"`
	BusinessID uuid.UUID           `json:"business_id"`
	State      domain.ImportState  `json:"state"`
	MenuID     int64               `json:"menu_id"`
	Error      string              `json:"error,omitempty"`
	Stats      *domain.ImportStats `json:"stats,omitempty"`
	StartedAt  *time.Time          `json:"started_at,omitempty"`
	FinishedAt *time.Time          `json:"finished_at,omitempty"`
}

func newImportReport(info *ImportSessionInfo) *importReport {
	stats := info.Stats
	if stats == nil && info.Progress != nil {
		stats = &info.Progress.Stats
	}

	return &importReport{
		SessionID:  info.ID,
		BusinessID: info.BusinessID,
		State:      info.State,
		MenuID:     info.MenuID,
		Error:      info.Error,
		Stats:      stats,
		StartedAt:  info.StartedAt,
		FinishedAt: info.FinishedAt,
	}
}
