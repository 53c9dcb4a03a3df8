package converter

import (
	"time"

	"github.com/DRSN-tech/qr-menu-backend/internal/domain"
	"github.com/DRSN-tech/qr-menu-backend/internal/usecase"
	"github.com/google/uuid"
)

type SessionSnapshotConverter struct{}

func NewSessionSnapshotConverter() *SessionSnapshotConverter {
	return &SessionSnapshotConverter{}
}

func (SessionSnapshotConverter) ToRedisModel(info *usecase.ImportSessionInfo) *SessionSnapshotRedisModel {
	return &SessionSnapshotRedisModel{
		ID:                 info.ID.String(),
		BusinessID:         info.BusinessID.String(),
		State:              string(info.State),
		Paused:             info.Paused,
		MenuID:             info.MenuID,
		Progress:           info.Progress,
		Stats:              info.Stats,
		Error:              info.Error,
		RetryAfterSeconds:  int64(info.RetryAfter / time.Second),
		CreatedCategoryIDs: info.CreatedCategoryIDs,
		StartedAt:          info.StartedAt,
		FinishedAt:         info.FinishedAt,
	}
}

func (SessionSnapshotConverter) ToUseCase(model *SessionSnapshotRedisModel) (*usecase.ImportSessionInfo, error) {
	id, err := uuid.Parse(model.ID)
	if err != nil {
		return nil, err
	}

	businessID, err := uuid.Parse(model.BusinessID)
	if err != nil {
		return nil, err
	}

	return &usecase.ImportSessionInfo{
		ID:                 id,
		BusinessID:         businessID,
		State:              domain.ImportState(model.State),
		Paused:             model.Paused,
		MenuID:             model.MenuID,
		Progress:           model.Progress,
		Stats:              model.Stats,
		Error:              model.Error,
		RetryAfter:         time.Duration(model.RetryAfterSeconds) * time.Second,
		CreatedCategoryIDs: model.CreatedCategoryIDs,
		StartedAt:          model.StartedAt,
		FinishedAt:         model.FinishedAt,
	}, nil
}
