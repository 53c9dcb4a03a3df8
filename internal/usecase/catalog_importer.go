package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/DRSN-tech/qr-menu-backend/internal/domain"
	"github.com/DRSN-tech/qr-menu-backend/pkg/e"
	"github.com/DRSN-tech/qr-menu-backend/pkg/logger"
	"github.com/google/uuid"
)

// CatalogImporter сверяет внешний каталог с локальными меню, категориями, продуктами и ценами.
type CatalogImporter struct {
	provider     CatalogProvider
	menuRepo     MenuRepository
	categoryRepo CategoryRepository
	productRepo  ProductRepository
	unitRepo     UnitRepository
	priceRepo    ProductPriceRepository
	cleanupRepo  CleanupRepository
	txManager    TxManager
	logger       logger.Logger
	settings     ImportSettings
}

func NewCatalogImporter(
	provider CatalogProvider,
	menuRepo MenuRepository,
	categoryRepo CategoryRepository,
	productRepo ProductRepository,
	unitRepo UnitRepository,
	priceRepo ProductPriceRepository,
	cleanupRepo CleanupRepository,
	txManager TxManager,
	logger logger.Logger,
	settings ImportSettings,
) *CatalogImporter {
	return &CatalogImporter{
		provider:     provider,
		menuRepo:     menuRepo,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		unitRepo:     unitRepo,
		priceRepo:    priceRepo,
		cleanupRepo:  cleanupRepo,
		txManager:    txManager,
		logger:       logger,
		settings:     settings,
	}
}

// productOutcome — что изменил один продукт. Применяется к статистике только после коммита.
type productOutcome struct {
	imported     bool
	updated      bool
	priceUpdated bool
}

// ImportCatalog загружает каталог и сливает его в меню импорта заведения.
// Ошибки загрузки каталога прерывают весь прогон; ошибки отдельных категорий и продуктов
// попадают в статистику, и прогон продолжается.
func (c *CatalogImporter) ImportCatalog(
	ctx context.Context,
	ic ImportContext,
	businessID uuid.UUID,
	onProgress ProgressFunc,
) (*ImportCatalogRes, error) {
	const op = "CatalogImporter.ImportCatalog"

	catalog, err := c.provider.FetchCatalog(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	menuID, err := c.resolveMenu(ctx, ic, businessID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	stats := domain.NewImportStats(catalog)
	emit := func(category, product string) {
		if onProgress != nil {
			onProgress(domain.ImportProgress{
				CurrentCategory: category,
				CurrentProduct:  product,
				Stats:           stats.Clone(),
			})
		}
	}

	for _, cc := range catalog {
		if !ic.Checkpoint(ctx) {
			break
		}
		emit(cc.Name, "")

		category, created, err := c.resolveCategory(ctx, menuID, cc.Name)
		if err != nil {
			c.logger.Warnf("Failed to import category %q: %v", cc.Name, e.Wrap(op, err))
			stats.AddFailedCategory(cc.Name, err)
			continue
		}
		ic.TrackCategory(category.ID, created)
		if created {
			stats.ImportedCategories++
		} else {
			stats.UpdatedCategories++
		}

		for _, cp := range cc.Products {
			if !ic.Checkpoint(ctx) {
				break
			}
			emit(cc.Name, cp.Name)

			var outcome productOutcome
			err := c.txManager.Do(ctx, func(ctx context.Context) error {
				var err error
				outcome, err = c.importProduct(ctx, category.ID, &cp)
				return err
			})
			if err != nil {
				c.logger.Warnf("Failed to import product %q (category %q): %v", cp.Name, cc.Name, e.Wrap(op, err))
				stats.AddFailedProduct(cp.Name, cc.Name, err)
				continue
			}

			if outcome.imported {
				stats.ImportedProducts++
			}
			if outcome.updated {
				stats.UpdatedProducts++
			}
			if outcome.priceUpdated {
				stats.UpdatedPrices++
			}
		}
	}

	// Завершение внешнего контекста (остановка сервиса) — это не отмена пользователем
	if err := ctx.Err(); err != nil {
		return nil, e.Wrap(op, err)
	}

	c.logger.Infof(
		"Catalog import finished. business_id: %s, menu_id: %d, categories: %d/%d new, products: %d new, %d updated, prices: %d, failed: %d",
		businessID, menuID, stats.ImportedCategories, stats.TotalCategories,
		stats.ImportedProducts, stats.UpdatedProducts, stats.UpdatedPrices, stats.FailedCount(),
	)

	return NewImportCatalogRes(menuID, stats), nil
}

// Cleanup удаляет категории, созданные прогоном, каскадно с их продуктами и ценами.
// Переиспользованные категории, существовавшие до импорта, не затрагиваются.
func (c *CatalogImporter) Cleanup(ctx context.Context, cc CleanupContext) (int64, error) {
	const op = "CatalogImporter.Cleanup"

	menuID := cc.MenuID()
	if menuID == 0 {
		return 0, e.Wrap(op, e.ErrMenuNotResolved)
	}

	ids := cc.CreatedCategoryIDs()
	if len(ids) == 0 {
		return 0, nil
	}

	deleted, err := c.cleanupRepo.DeleteImportedCategories(ctx, menuID, ids)
	if err != nil {
		return 0, e.Wrap(op, err)
	}

	c.logger.Infof("Import cleanup finished. menu_id: %d, deleted categories: %d", menuID, deleted)

	return deleted, nil
}

// resolveMenu находит меню импорта по имени без учёта регистра или создаёт его.
func (c *CatalogImporter) resolveMenu(ctx context.Context, ic ImportContext, businessID uuid.UUID) (int64, error) {
	const op = "CatalogImporter.resolveMenu"

	if id := ic.MenuID(); id != 0 {
		return id, nil
	}

	menus, err := c.menuRepo.ListByBusiness(ctx, businessID)
	if err != nil {
		return 0, e.Wrap(op, err)
	}

	for _, m := range menus {
		if strings.EqualFold(m.Name, c.settings.MenuName) {
			ic.SetMenuID(m.ID)
			return m.ID, nil
		}
	}

	menu, err := c.menuRepo.Create(ctx, domain.NewMenu(businessID, c.settings.MenuName, c.settings.MenuColor))
	if err != nil {
		return 0, e.Wrap(op, err)
	}
	ic.SetMenuID(menu.ID)

	return menu.ID, nil
}

// resolveCategory возвращает категорию по (menu_id, name); created — категория создана сейчас.
func (c *CatalogImporter) resolveCategory(ctx context.Context, menuID int64, name string) (*domain.Category, bool, error) {
	const op = "CatalogImporter.resolveCategory"

	category, err := c.categoryRepo.FindByName(ctx, menuID, name)
	if err == nil {
		return category, false, nil
	}
	if !errors.Is(err, e.ErrNotFound) {
		return nil, false, e.Wrap(op, err)
	}

	category, err = c.categoryRepo.Create(ctx, domain.NewCategory(menuID, name, c.settings.CategoryColor))
	if err != nil {
		return nil, false, e.Wrap(op, err)
	}

	return category, true, nil
}

// importProduct создаёт или обновляет продукт и его цену по умолчанию. Вызывается внутри транзакции.
func (c *CatalogImporter) importProduct(ctx context.Context, categoryID int64, cp *domain.CatalogProduct) (productOutcome, error) {
	const op = "CatalogImporter.importProduct"

	var outcome productOutcome

	product, err := c.productRepo.FindByName(ctx, categoryID, cp.Name)
	switch {
	case errors.Is(err, e.ErrNotFound):
		product, err = c.productRepo.Create(ctx, domain.NewProduct(categoryID, cp.Name, cp.TaxRate))
		if err != nil {
			return outcome, e.Wrap(op, err)
		}
		outcome.imported = true

		if unit, ok := cp.DefaultUnit(); ok {
			if _, err := c.insertPrice(ctx, product.ID, unit); err != nil {
				return outcome, e.Wrap(op, err)
			}
		}

		return outcome, nil
	case err != nil:
		return outcome, e.Wrap(op, err)
	}

	if changes := product.Diff(cp.Name, cp.TaxRate); !changes.Empty() {
		if err := c.productRepo.Update(ctx, product.ID, changes); err != nil {
			return outcome, e.Wrap(op, err)
		}
		outcome.updated = true
	}

	if unit, ok := cp.DefaultUnit(); ok {
		outcome.priceUpdated, err = c.reconcilePrice(ctx, product.ID, unit)
		if err != nil {
			return outcome, e.Wrap(op, err)
		}
	}

	return outcome, nil
}

// reconcilePrice обновляет существующую цену единицы на месте или добавляет новую.
// Возвращает true, если цена изменилась или была добавлена.
func (c *CatalogImporter) reconcilePrice(ctx context.Context, productID int64, cu *domain.CatalogUnit) (bool, error) {
	const op = "CatalogImporter.reconcilePrice"

	unit, err := c.unitRepo.GetOrCreate(ctx, domain.NewUnit(cu.Name))
	if err != nil {
		return false, e.Wrap(op, err)
	}

	prices, err := c.priceRepo.ListByProduct(ctx, productID)
	if err != nil {
		return false, e.Wrap(op, err)
	}

	price := cu.DefaultPrice()
	existing, ok := domain.FindPriceByUnit(prices, unit.ID)
	if !ok {
		if _, err := c.priceRepo.Create(ctx, domain.NewProductPrice(productID, unit.ID, price)); err != nil {
			return false, e.Wrap(op, err)
		}
		return true, nil
	}

	if existing.Price.Equal(price) {
		return false, nil
	}

	if err := c.priceRepo.UpdatePrice(ctx, existing.ID, price); err != nil {
		return false, e.Wrap(op, err)
	}

	return true, nil
}

func (c *CatalogImporter) insertPrice(ctx context.Context, productID int64, cu *domain.CatalogUnit) (*domain.ProductPrice, error) {
	const op = "CatalogImporter.insertPrice"

	unit, err := c.unitRepo.GetOrCreate(ctx, domain.NewUnit(cu.Name))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	price, err := c.priceRepo.Create(ctx, domain.NewProductPrice(productID, unit.ID, cu.DefaultPrice()))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return price, nil
}
