package converter

import (
	"time"

	"github.com/DRSN-tech/qr-menu-backend/internal/domain"
)

// SessionSnapshotRedisModel — снимок сессии импорта в Redis.
// RetryAfter хранится в секундах, чтобы значение читалось и вне Go.
type SessionSnapshotRedisModel struct {
	ID                 string                 `json:"id"`
	BusinessID         string                 `json:"business_id"`
	State              string                 `json:"state"`
	Paused             bool                   `json:"paused"`
	MenuID             int64                  `json:"menu_id"`
	Progress           *domain.ImportProgress `json:"progress,omitempty"`
	Stats              *domain.ImportStats    `json:"stats,omitempty"`
	Error              string                 `json:"error,omitempty"`
	RetryAfterSeconds  int64                  `json:"retry_after_seconds,omitempty"`
	CreatedCategoryIDs []int64                `json:"created_category_ids,omitempty"`
	StartedAt          *time.Time             `json:"started_at,omitempty"`
	FinishedAt         *time.Time             `json:"finished_at,omitempty"`
}
