package pgdb

import (
	"context"

	"github.com/DRSN-tech/qr-menu-backend/internal/domain"
	"github.com/DRSN-tech/qr-menu-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/qr-menu-backend/pkg/e"
	"github.com/DRSN-tech/qr-menu-backend/pkg/tr"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
)

// MenuRepo реализует репозиторий меню поверх PostgreSQL.
type MenuRepo struct {
	db   tr.DBTX
	conv *converter.Converter
}

func NewMenuRepo(db tr.DBTX, conv *converter.Converter) *MenuRepo {
	return &MenuRepo{db: db, conv: conv}
}

// ListByBusiness возвращает меню заведения в порядке создания.
func (m *MenuRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]domain.Menu, error) {
	query := `
		SELECT id, business_id, name, color, is_active, sort_order, created_at, updated_at
		FROM menus
		WHERE business_id = $1
		ORDER BY id;
	`

	rows, err := tr.Executor(ctx, m.db).Query(ctx, query, businessID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Menu, 0)
	for rows.Next() {
		var model converter.MenuModel
		if err := rows.Scan(
			&model.ID, &model.BusinessID, &model.Name, &model.Color,
			&model.IsActive, &model.SortOrder, &model.CreatedAt, &model.UpdatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, *m.conv.ToMenuEntity(&model))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

// Create создаёт меню последним в списке меню заведения.
func (m *MenuRepo) Create(ctx context.Context, menu *domain.Menu) (*domain.Menu, error) {
	query := `
		INSERT INTO menus (business_id, name, color, is_active, sort_order)
		VALUES ($1, $2, $3, $4, (SELECT COALESCE(MAX(sort_order) + 1, 0) FROM menus WHERE business_id = $1))
		RETURNING id, business_id, name, color, is_active, sort_order, created_at, updated_at;
	`

	var model converter.MenuModel
	if err := tr.Executor(ctx, m.db).QueryRow(ctx, query, menu.BusinessID, menu.Name, menu.Color, menu.IsActive).
		Scan(
			&model.ID, &model.BusinessID, &model.Name, &model.Color,
			&model.IsActive, &model.SortOrder, &model.CreatedAt, &model.UpdatedAt,
		); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return m.conv.ToMenuEntity(&model), nil
}
