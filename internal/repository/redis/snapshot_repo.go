package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/DRSN-tech/qr-menu-backend/internal/cfg"
	"github.com/DRSN-tech/qr-menu-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/qr-menu-backend/internal/usecase"
	"github.com/DRSN-tech/qr-menu-backend/pkg/clients"
	"github.com/DRSN-tech/qr-menu-backend/pkg/e"
	"github.com/DRSN-tech/qr-menu-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// SnapshotRepo хранит последние снимки сессий импорта, чтобы статус был доступен после перезапуска.
type SnapshotRepo struct {
	client *clients.RedisClient
	conv   *converter.SessionSnapshotConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewSnapshotRepo(client *clients.RedisClient, conv *converter.SessionSnapshotConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *SnapshotRepo {
	return &SnapshotRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// SaveSnapshot перезаписывает снимок сессии и продлевает его TTL.
func (s *SnapshotRepo) SaveSnapshot(ctx context.Context, info *usecase.ImportSessionInfo) error {
	data, err := json.Marshal(s.conv.ToRedisModel(info))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := s.client.Client.Set(ctx, snapshotKey(info.ID), data, s.cfg.SessionTTL).Err(); err != nil {
		s.logger.Warnf("Redis SET failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (s *SnapshotRepo) GetSnapshot(ctx context.Context, id uuid.UUID) (*usecase.ImportSessionInfo, error) {
	data, err := s.client.Client.Get(ctx, snapshotKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.SessionSnapshotRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		// битый снимок удаляем, иначе он будет мешать до истечения TTL
		s.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
		if err := s.client.Client.Del(context.Background(), snapshotKey(id)).Err(); err != nil {
			s.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrNotFound)
	}

	info, err := s.conv.ToUseCase(&model)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return info, nil
}

func snapshotKey(id uuid.UUID) string {
	return "import:session:" + id.String()
}
