package pgdb

import (
	"context"

	"github.com/DRSN-tech/qr-menu-backend/pkg/e"
	"github.com/DRSN-tech/qr-menu-backend/pkg/tr"
	"github.com/jimlawless/whereami"
)

// CleanupRepo вызывает серверную процедуру удаления импортированных категорий.
type CleanupRepo struct {
	db tr.DBTX
}

func NewCleanupRepo(db tr.DBTX) *CleanupRepo {
	return &CleanupRepo{db: db}
}

// DeleteImportedCategories удаляет категории меню из списка вместе с продуктами и ценами.
// Категории чужих меню процедура игнорирует.
func (c *CleanupRepo) DeleteImportedCategories(ctx context.Context, menuID int64, categoryIDs []int64) (int64, error) {
	var deleted int64
	if err := tr.Executor(ctx, c.db).
		QueryRow(ctx, "SELECT cleanup_imported_categories($1, $2);", menuID, categoryIDs).
		Scan(&deleted); err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return deleted, nil
}
