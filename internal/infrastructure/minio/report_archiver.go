package minio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DRSN-tech/qr-menu-backend/internal/usecase"
	"github.com/DRSN-tech/qr-menu-backend/pkg/jitter"
	"github.com/DRSN-tech/qr-menu-backend/pkg/logger"
)

const (
	archiveTimeout = 30 * time.Second
	archiveBackoff = time.Second
	archiveMaxWait = 10 * time.Second
)

// ReportArchiver загружает отчёты об импорте в MinIO в фоне, с повторами.
type ReportArchiver struct {
	reportRepo  usecase.ReportRepository
	logger      logger.Logger
	shutdownCtx context.Context
	wg          sync.WaitGroup
	maxRetries  int
	backoff     time.Duration
}

func NewReportArchiver(reportRepo usecase.ReportRepository, logger logger.Logger, shutdownCtx context.Context, maxRetries int) *ReportArchiver {
	if maxRetries <= 0 {
		maxRetries = 1
	}

	return &ReportArchiver{
		reportRepo:  reportRepo,
		logger:      logger,
		shutdownCtx: shutdownCtx,
		maxRetries:  maxRetries,
		backoff:     archiveBackoff,
	}
}

// ArchiveReport запускает фоновую загрузку отчёта.
func (a *ReportArchiver) ArchiveReport(req *usecase.ArchiveReportReq) {
	a.wg.Add(1)
	go a.upload(usecase.NewReportObject(req))
}

// upload загружает объект с экспоненциальной задержкой и jitter между попытками.
func (a *ReportArchiver) upload(obj *usecase.ReportObject) {
	defer a.wg.Done()
	const op = "ReportArchiver.upload"

	ctx, cancel := context.WithTimeout(a.shutdownCtx, archiveTimeout)
	defer cancel()

	var err error
	for attempt := 0; attempt < a.maxRetries; attempt++ {
		if _, err = a.reportRepo.Upload(ctx, obj); err == nil {
			a.logger.Debugf("%s: report archived, key=%s", op, obj.Key)
			return
		}

		if attempt == a.maxRetries-1 {
			break
		}

		if jitter.Sleep(ctx, jitter.ExponentialBackoff(a.backoff, archiveMaxWait, attempt, jitter.DefaultJitter)) != nil {
			a.logger.Warnf("%s: archive interrupted by shutdown, key=%s", op, obj.Key)
			return
		}
	}

	a.logger.Errorf(err, "%s: failed to archive report after %d attempts, key=%s", op, a.maxRetries, obj.Key)
}

// WaitForArchive ожидает завершения фоновых загрузок с учётом таймаута завершения приложения.
func (a *ReportArchiver) WaitForArchive(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("report archive timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}
