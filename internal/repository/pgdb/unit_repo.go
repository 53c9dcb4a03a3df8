package pgdb

import (
	"context"

	"github.com/DRSN-tech/qr-menu-backend/internal/domain"
	"github.com/DRSN-tech/qr-menu-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/qr-menu-backend/pkg/e"
	"github.com/DRSN-tech/qr-menu-backend/pkg/tr"
	"github.com/jimlawless/whereami"
)

// UnitRepo реализует справочник единиц измерения поверх PostgreSQL.
type UnitRepo struct {
	db   tr.DBTX
	conv *converter.Converter
}

func NewUnitRepo(db tr.DBTX, conv *converter.Converter) *UnitRepo {
	return &UnitRepo{db: db, conv: conv}
}

// GetOrCreate идемпотентно создаёт единицу по normalized_name. Название существующей единицы не меняется.
func (u *UnitRepo) GetOrCreate(ctx context.Context, unit *domain.Unit) (*domain.Unit, error) {
	// DO UPDATE вместо DO NOTHING, чтобы RETURNING вернул существующую строку
	query := `
		INSERT INTO units (name, normalized_name)
		VALUES ($1, $2)
		ON CONFLICT (normalized_name) DO UPDATE SET name = units.name
		RETURNING id, name, normalized_name, created_at;
	`

	var model converter.UnitModel
	if err := tr.Executor(ctx, u.db).QueryRow(ctx, query, unit.Name, unit.NormalizedName).
		Scan(&model.ID, &model.Name, &model.NormalizedName, &model.CreatedAt); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return u.conv.ToUnitEntity(&model), nil
}
