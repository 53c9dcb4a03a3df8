package pgdb

import (
	"context"

	"github.com/DRSN-tech/qr-menu-backend/internal/domain"
	"github.com/DRSN-tech/qr-menu-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/qr-menu-backend/pkg/e"
	"github.com/DRSN-tech/qr-menu-backend/pkg/tr"
	"github.com/jimlawless/whereami"
)

// CategoryRepo реализует репозиторий категорий поверх PostgreSQL.
type CategoryRepo struct {
	db   tr.DBTX
	conv *converter.Converter
}

func NewCategoryRepo(db tr.DBTX, conv *converter.Converter) *CategoryRepo {
	return &CategoryRepo{db: db, conv: conv}
}

// FindByName ищет категорию по точному имени. При дубликатах побеждает самая ранняя запись.
func (c *CategoryRepo) FindByName(ctx context.Context, menuID int64, name string) (*domain.Category, error) {
	query := `
		SELECT id, menu_id, name, color, is_active, sort_order, created_at, updated_at
		FROM categories
		WHERE menu_id = $1 AND name = $2
		ORDER BY id
		LIMIT 1;
	`

	var model converter.CategoryModel
	if err := tr.Executor(ctx, c.db).QueryRow(ctx, query, menuID, name).
		Scan(
			&model.ID, &model.MenuID, &model.Name, &model.Color,
			&model.IsActive, &model.SortOrder, &model.CreatedAt, &model.UpdatedAt,
		); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), notFound(err))
	}

	return c.conv.ToCategoryEntity(&model), nil
}

// Create добавляет категорию в конец меню, сохраняя порядок каталога.
func (c *CategoryRepo) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	query := `
		INSERT INTO categories (menu_id, name, color, is_active, sort_order)
		VALUES ($1, $2, $3, $4, (SELECT COALESCE(MAX(sort_order) + 1, 0) FROM categories WHERE menu_id = $1))
		RETURNING id, menu_id, name, color, is_active, sort_order, created_at, updated_at;
	`

	var model converter.CategoryModel
	if err := tr.Executor(ctx, c.db).QueryRow(ctx, query, category.MenuID, category.Name, category.Color, category.IsActive).
		Scan(
			&model.ID, &model.MenuID, &model.Name, &model.Color,
			&model.IsActive, &model.SortOrder, &model.CreatedAt, &model.UpdatedAt,
		); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToCategoryEntity(&model), nil
}
