package converter

import (
	"time"

	"github.com/google/uuid"
)

// MenuModel представляет запись таблицы menus в PostgreSQL.
type MenuModel struct {
	ID         int64      `db:"id"`
	BusinessID uuid.UUID  `db:"business_id"`
	Name       string     `db:"name"`
	Color      string     `db:"color"`
	IsActive   bool       `db:"is_active"`
	SortOrder  int32      `db:"sort_order"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  *time.Time `db:"updated_at"`
}

// CategoryModel представляет запись таблицы categories в PostgreSQL.
type CategoryModel struct {
	ID        int64      `db:"id"`
	MenuID    int64      `db:"menu_id"`
	Name      string     `db:"name"`
	Color     string     `db:"color"`
	IsActive  bool       `db:"is_active"`
	SortOrder int32      `db:"sort_order"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

// ProductModel представляет запись таблицы products в PostgreSQL.
// Числовые поля читаются как текст (::text), чтобы не терять точность numeric.
type ProductModel struct {
	ID         int64      `db:"id"`
	CategoryID int64      `db:"category_id"`
	Name       string     `db:"name"`
	KdvRate    string     `db:"kdv_rate"`
	IsActive   bool       `db:"is_active"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  *time.Time `db:"updated_at"`
}

// UnitModel представляет запись таблицы units в PostgreSQL.
type UnitModel struct {
	ID             int64     `db:"id"`
	Name           string    `db:"name"`
	NormalizedName string    `db:"normalized_name"`
	CreatedAt      time.Time `db:"created_at"`
}

// ProductPriceModel представляет запись таблицы product_prices в PostgreSQL.
type ProductPriceModel struct {
	ID        int64      `db:"id"`
	ProductID int64      `db:"product_id"`
	UnitID    int64      `db:"unit_id"`
	Price     string     `db:"price"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	AggregateID string     `db:"aggregate_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
