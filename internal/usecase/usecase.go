package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ImportUC — управление сессиями импорта каталога, используется слоем доставки.
type ImportUC interface {
	StartImport(ctx context.Context, businessID uuid.UUID) (*ImportSessionInfo, error)
	GetSession(ctx context.Context, id uuid.UUID) (*ImportSessionInfo, error)
	CancelImport(ctx context.Context, id uuid.UUID) (*ImportSessionInfo, error)
	PauseImport(ctx context.Context, id uuid.UUID) (*ImportSessionInfo, error)
	ResumeImport(ctx context.Context, id uuid.UUID) (*ImportSessionInfo, error)
	RollbackImport(ctx context.Context, id uuid.UUID) (*RollbackRes, error)
	Cooldown(ctx context.Context, businessID uuid.UUID) (time.Duration, error)
}

var _ ImportUC = (*ImportService)(nil)
