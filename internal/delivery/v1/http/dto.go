package http

import (
	"time"

	"github.com/DRSN-tech/qr-menu-backend/internal/domain"
	"github.com/DRSN-tech/qr-menu-backend/internal/usecase"
	"github.com/google/uuid"
)

// ImportSessionResponse — состояние сессии импорта.
type ImportSessionResponse struct {
	ID                 uuid.UUID              `json:"id"`
	BusinessID         uuid.UUID              `json:"business_id"`
	State              domain.ImportState     `json:"state"`
	Paused             bool                   `json:"paused"`
	MenuID             int64                  `json:"menu_id,omitempty"`
	Progress           *domain.ImportProgress `json:"progress,omitempty"`
	Stats              *domain.ImportStats    `json:"stats,omitempty"`
	Error              string                 `json:"error,omitempty"`
	RetryAfterSeconds  int64                  `json:"retry_after_seconds,omitempty"`
	CreatedCategoryIDs []int64                `json:"created_category_ids,omitempty"`
	StartedAt          *time.Time             `json:"started_at,omitempty"`
	FinishedAt         *time.Time             `json:"finished_at,omitempty"`
}

type RollbackResponse struct {
	Session           *ImportSessionResponse `json:"session"`
	DeletedCategories int64                  `json:"deleted_categories"`
}

type CooldownResponse struct {
	BusinessID        uuid.UUID `json:"business_id"`
	Active            bool      `json:"active"`
	RetryAfterSeconds int64     `json:"retry_after_seconds"`
}

func toImportSessionResponse(info *usecase.ImportSessionInfo) *ImportSessionResponse {
	return &ImportSessionResponse{
		ID:                 info.ID,
		BusinessID:         info.BusinessID,
		State:              info.State,
		Paused:             info.Paused,
		MenuID:             info.MenuID,
		Progress:           info.Progress,
		Stats:              info.Stats,
		Error:              info.Error,
		RetryAfterSeconds:  retryAfterSeconds(info.RetryAfter.Seconds()),
		CreatedCategoryIDs: info.CreatedCategoryIDs,
		StartedAt:          info.StartedAt,
		FinishedAt:         info.FinishedAt,
	}
}

func toRollbackResponse(res *usecase.RollbackRes) *RollbackResponse {
	return &RollbackResponse{
		Session:           toImportSessionResponse(res.Session),
		DeletedCategories: res.DeletedCategories,
	}
}

func toCooldownResponse(businessID uuid.UUID, remaining time.Duration) *CooldownResponse {
	return &CooldownResponse{
		BusinessID:        businessID,
		Active:            remaining > 0,
		RetryAfterSeconds: retryAfterSeconds(remaining.Seconds()),
	}
}
