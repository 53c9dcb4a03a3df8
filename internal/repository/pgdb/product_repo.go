package pgdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/DRSN-tech/qr-menu-backend/internal/domain"
	"github.com/DRSN-tech/qr-menu-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/qr-menu-backend/pkg/e"
	"github.com/DRSN-tech/qr-menu-backend/pkg/tr"
	"github.com/jimlawless/whereami"
)

// ProductRepo реализует репозиторий продуктов поверх PostgreSQL.
type ProductRepo struct {
	db   tr.DBTX
	conv *converter.Converter
}

func NewProductRepo(db tr.DBTX, conv *converter.Converter) *ProductRepo {
	return &ProductRepo{
		db:   db,
		conv: conv,
	}
}

// FindByName ищет продукт по точному имени внутри категории. При дубликатах побеждает самая ранняя запись.
func (p *ProductRepo) FindByName(ctx context.Context, categoryID int64, name string) (*domain.Product, error) {
	query := `
		SELECT id, category_id, name, kdv_rate::text, is_active, created_at, updated_at
		FROM products
		WHERE category_id = $1 AND name = $2
		ORDER BY id
		LIMIT 1;
	`

	var model converter.ProductModel
	if err := tr.Executor(ctx, p.db).QueryRow(ctx, query, categoryID, name).
		Scan(
			&model.ID, &model.CategoryID, &model.Name, &model.KdvRate,
			&model.IsActive, &model.CreatedAt, &model.UpdatedAt,
		); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), notFound(err))
	}

	return p.conv.ToProductEntity(&model)
}

func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO products (category_id, name, kdv_rate, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, category_id, name, kdv_rate::text, is_active, created_at, updated_at;
	`

	var model converter.ProductModel
	if err := tr.Executor(ctx, p.db).QueryRow(ctx, query,
		product.CategoryID, product.Name, product.KdvRate.String(), product.IsActive,
	).Scan(
		&model.ID, &model.CategoryID, &model.Name, &model.KdvRate,
		&model.IsActive, &model.CreatedAt, &model.UpdatedAt,
	); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToProductEntity(&model)
}

// Update записывает только изменённые поля. Пустой набор изменений не выполняет запрос.
func (p *ProductRepo) Update(ctx context.Context, id int64, changes domain.ProductChanges) error {
	if changes.Empty() {
		return nil
	}

	var (
		sets []string
		args []any
	)
	if changes.Name != nil {
		args = append(args, *changes.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if changes.KdvRate != nil {
		args = append(args, changes.KdvRate.String())
		sets = append(sets, fmt.Sprintf("kdv_rate = $%d", len(args)))
	}
	args = append(args, id)

	query := fmt.Sprintf(
		"UPDATE products SET %s, updated_at = NOW() WHERE id = $%d;",
		strings.Join(sets, ", "), len(args),
	)

	tag, err := tr.Executor(ctx, p.db).Exec(ctx, query, args...)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrNotFound)
	}

	return nil
}
