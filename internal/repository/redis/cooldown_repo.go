package redis

import (
	"context"
	"time"

	"github.com/DRSN-tech/qr-menu-backend/pkg/clients"
	"github.com/DRSN-tech/qr-menu-backend/pkg/e"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
)

// CooldownRepo хранит паузу после ответа 601 от Adisyo. Ключ живёт ровно столько, сколько длится пауза,
// поэтому ограничение переживает перезапуск сервиса.
type CooldownRepo struct {
	client *clients.RedisClient
}

func NewCooldownRepo(client *clients.RedisClient) *CooldownRepo {
	return &CooldownRepo{client: client}
}

func (r *CooldownRepo) SetCooldown(ctx context.Context, businessID uuid.UUID, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	if err := r.client.Client.Set(ctx, cooldownKey(businessID), time.Now().Add(d).Unix(), d).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// GetCooldown возвращает оставшийся TTL ключа или 0.
func (r *CooldownRepo) GetCooldown(ctx context.Context, businessID uuid.UUID) (time.Duration, error) {
	ttl, err := r.client.Client.PTTL(ctx, cooldownKey(businessID)).Result()
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	// -2: ключа нет, -1: ключ без TTL (не должен появляться)
	if ttl < 0 {
		return 0, nil
	}

	return ttl, nil
}

func cooldownKey(businessID uuid.UUID) string {
	return "import:cooldown:" + businessID.String()
}
