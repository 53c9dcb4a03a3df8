package pgdb

import (
	"context"

	"github.com/DRSN-tech/qr-menu-backend/internal/domain"
	"github.com/DRSN-tech/qr-menu-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/qr-menu-backend/pkg/e"
	"github.com/DRSN-tech/qr-menu-backend/pkg/tr"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

// ProductPriceRepo реализует репозиторий цен продуктов поверх PostgreSQL.
type ProductPriceRepo struct {
	db   tr.DBTX
	conv *converter.Converter
}

func NewProductPriceRepo(db tr.DBTX, conv *converter.Converter) *ProductPriceRepo {
	return &ProductPriceRepo{db: db, conv: conv}
}

func (r *ProductPriceRepo) ListByProduct(ctx context.Context, productID int64) ([]domain.ProductPrice, error) {
	query := `
		SELECT id, product_id, unit_id, price::text, created_at, updated_at
		FROM product_prices
		WHERE product_id = $1
		ORDER BY id;
	`

	rows, err := tr.Executor(ctx, r.db).Query(ctx, query, productID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.ProductPrice, 0)
	for rows.Next() {
		var model converter.ProductPriceModel
		if err := rows.Scan(
			&model.ID, &model.ProductID, &model.UnitID, &model.Price, &model.CreatedAt, &model.UpdatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		price, err := r.conv.ToProductPriceEntity(&model)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *price)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

func (r *ProductPriceRepo) Create(ctx context.Context, price *domain.ProductPrice) (*domain.ProductPrice, error) {
	query := `
		INSERT INTO product_prices (product_id, unit_id, price)
		VALUES ($1, $2, $3)
		RETURNING id, product_id, unit_id, price::text, created_at, updated_at;
	`

	var model converter.ProductPriceModel
	if err := tr.Executor(ctx, r.db).QueryRow(ctx, query, price.ProductID, price.UnitID, price.Price.String()).
		Scan(&model.ID, &model.ProductID, &model.UnitID, &model.Price, &model.CreatedAt, &model.UpdatedAt); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToProductPriceEntity(&model)
}

// UpdatePrice обновляет цену на месте, id строки не меняется.
func (r *ProductPriceRepo) UpdatePrice(ctx context.Context, id int64, price decimal.Decimal) error {
	query := `
		UPDATE product_prices
		SET price = $1, updated_at = NOW()
		WHERE id = $2;
	`

	tag, err := tr.Executor(ctx, r.db).Exec(ctx, query, price.String(), id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrNotFound)
	}

	return nil
}
