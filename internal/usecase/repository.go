package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/qr-menu-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MenuRepository interface {
	// ListByBusiness возвращает меню заведения в порядке создания.
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]domain.Menu, error)
	Create(ctx context.Context, menu *domain.Menu) (*domain.Menu, error)
}

type CategoryRepository interface {
	// FindByName ищет категорию по точному совпадению (menu_id, name); e.ErrNotFound если нет.
	FindByName(ctx context.Context, menuID int64, name string) (*domain.Category, error)
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
}

type ProductRepository interface {
	// FindByName ищет продукт по точному совпадению (category_id, name); e.ErrNotFound если нет.
	FindByName(ctx context.Context, categoryID int64, name string) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id int64, changes domain.ProductChanges) error
}

type UnitRepository interface {
	// GetOrCreate находит единицу по normalized_name или создаёт её.
	GetOrCreate(ctx context.Context, unit *domain.Unit) (*domain.Unit, error)
}

type ProductPriceRepository interface {
	ListByProduct(ctx context.Context, productID int64) ([]domain.ProductPrice, error)
	Create(ctx context.Context, price *domain.ProductPrice) (*domain.ProductPrice, error)
	UpdatePrice(ctx context.Context, id int64, price decimal.Decimal) error
}

type CleanupRepository interface {
	// DeleteImportedCategories удаляет категории меню (каскадно с продуктами и ценами), возвращает число удалённых.
	DeleteImportedCategories(ctx context.Context, menuID int64, categoryIDs []int64) (int64, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	MarkAsPending(ctx context.Context, id int64) error
}

type CooldownRepository interface {
	SetCooldown(ctx context.Context, businessID uuid.UUID, d time.Duration) error
	// GetCooldown возвращает оставшееся время ожидания, 0 если ограничения нет.
	GetCooldown(ctx context.Context, businessID uuid.UUID) (time.Duration, error)
}

type SessionSnapshotRepository interface {
	SaveSnapshot(ctx context.Context, info *ImportSessionInfo) error
	// GetSnapshot возвращает последний снимок сессии; e.ErrNotFound если его нет.
	GetSnapshot(ctx context.Context, id uuid.UUID) (*ImportSessionInfo, error)
}

// ReportRepository сохраняет объекты отчётов в объектное хранилище.
type ReportRepository interface {
	Upload(ctx context.Context, obj *ReportObject) (string, error)
}
