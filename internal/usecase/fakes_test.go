package usecase

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/DRSN-tech/qr-menu-backend/internal/domain"
	"github.com/DRSN-tech/qr-menu-backend/pkg/e"
	"github.com/DRSN-tech/qr-menu-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memStore — хранилище в памяти, повторяющее поведение pgdb-репозиториев.
type memStore struct {
	mu         sync.Mutex
	nextID     int64
	menus      []domain.Menu
	categories []domain.Category
	products   []domain.Product
	units      []domain.Unit
	prices     []domain.ProductPrice

	// ошибки, которые возвращаются при поиске категории/продукта с таким именем
	failCategory map[string]error
	failProduct  map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		failCategory: make(map[string]error),
		failProduct:  make(map[string]error),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) seedMenu(businessID uuid.UUID, name string) domain.Menu {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := domain.Menu{ID: s.id(), BusinessID: businessID, Name: name, IsActive: true}
	s.menus = append(s.menus, m)
	return m
}

func (s *memStore) seedCategory(menuID int64, name string) domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := domain.Category{ID: s.id(), MenuID: menuID, Name: name, IsActive: true}
	s.categories = append(s.categories, c)
	return c
}

func (s *memStore) seedProduct(categoryID int64, name string, kdv decimal.Decimal) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := domain.Product{ID: s.id(), CategoryID: categoryID, Name: name, KdvRate: kdv, IsActive: true}
	s.products = append(s.products, p)
	return p
}

func (s *memStore) seedUnit(name string) domain.Unit {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := domain.Unit{ID: s.id(), Name: name, NormalizedName: domain.NormalizeUnitName(name)}
	s.units = append(s.units, u)
	return u
}

func (s *memStore) seedPrice(productID, unitID int64, price decimal.Decimal) domain.ProductPrice {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := domain.ProductPrice{ID: s.id(), ProductID: productID, UnitID: unitID, Price: price}
	s.prices = append(s.prices, p)
	return p
}

func (s *memStore) categoryNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.categories))
	for _, c := range s.categories {
		names = append(names, c.Name)
	}
	return names
}

func (s *memStore) counts() (menus, categories, products, units, prices int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.menus), len(s.categories), len(s.products), len(s.units), len(s.prices)
}

type memMenus struct{ s *memStore }

func (r memMenus) ListByBusiness(_ context.Context, businessID uuid.UUID) ([]domain.Menu, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var res []domain.Menu
	for _, m := range r.s.menus {
		if m.BusinessID == businessID {
			res = append(res, m)
		}
	}
	return res, nil
}

func (r memMenus) Create(_ context.Context, menu *domain.Menu) (*domain.Menu, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m := *menu
	m.ID = r.s.id()
	r.s.menus = append(r.s.menus, m)
	return &m, nil
}

type memCategories struct{ s *memStore }

func (r memCategories) FindByName(_ context.Context, menuID int64, name string) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err, ok := r.s.failCategory[name]; ok {
		return nil, err
	}
	for _, c := range r.s.categories {
		if c.MenuID == menuID && c.Name == name {
			return &c, nil
		}
	}
	return nil, e.ErrNotFound
}

func (r memCategories) Create(_ context.Context, category *domain.Category) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := *category
	c.ID = r.s.id()
	r.s.categories = append(r.s.categories, c)
	return &c, nil
}

type memProducts struct{ s *memStore }

func (r memProducts) FindByName(_ context.Context, categoryID int64, name string) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err, ok := r.s.failProduct[name]; ok {
		return nil, err
	}
	for _, p := range r.s.products {
		if p.CategoryID == categoryID && p.Name == name {
			return &p, nil
		}
	}
	return nil, e.ErrNotFound
}

func (r memProducts) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p := *product
	p.ID = r.s.id()
	r.s.products = append(r.s.products, p)
	return &p, nil
}

func (r memProducts) Update(_ context.Context, id int64, changes domain.ProductChanges) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.products {
		if r.s.products[i].ID == id {
			r.s.products[i].Apply(changes)
			return nil
		}
	}
	return e.ErrNotFound
}

type memUnits struct{ s *memStore }

func (r memUnits) GetOrCreate(_ context.Context, unit *domain.Unit) (*domain.Unit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.units {
		if u.NormalizedName == unit.NormalizedName {
			return &u, nil
		}
	}

	u := *unit
	u.ID = r.s.id()
	r.s.units = append(r.s.units, u)
	return &u, nil
}

type memPrices struct{ s *memStore }

func (r memPrices) ListByProduct(_ context.Context, productID int64) ([]domain.ProductPrice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var res []domain.ProductPrice
	for _, p := range r.s.prices {
		if p.ProductID == productID {
			res = append(res, p)
		}
	}
	return res, nil
}

func (r memPrices) Create(_ context.Context, price *domain.ProductPrice) (*domain.ProductPrice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p := *price
	p.ID = r.s.id()
	r.s.prices = append(r.s.prices, p)
	return &p, nil
}

func (r memPrices) UpdatePrice(_ context.Context, id int64, price decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.prices {
		if r.s.prices[i].ID == id {
			r.s.prices[i].Price = price
			return nil
		}
	}
	return e.ErrNotFound
}

type memCleanup struct{ s *memStore }

func (r memCleanup) DeleteImportedCategories(_ context.Context, menuID int64, categoryIDs []int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var (
		deleted    int64
		productIDs []int64
	)
	r.s.categories = slices.DeleteFunc(r.s.categories, func(c domain.Category) bool {
		if c.MenuID == menuID && slices.Contains(categoryIDs, c.ID) {
			deleted++
			return true
		}
		return false
	})
	r.s.products = slices.DeleteFunc(r.s.products, func(p domain.Product) bool {
		if slices.Contains(categoryIDs, p.CategoryID) {
			productIDs = append(productIDs, p.ID)
			return true
		}
		return false
	})
	r.s.prices = slices.DeleteFunc(r.s.prices, func(p domain.ProductPrice) bool {
		return slices.Contains(productIDs, p.ProductID)
	})

	return deleted, nil
}

// noTx выполняет функцию без транзакции.
type noTx struct{}

func (noTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeProvider отдаёт заранее заданный каталог. Если block не nil, FetchCatalog ждёт его закрытия.
type fakeProvider struct {
	catalog []domain.CatalogCategory
	err     error
	block   chan struct{}
}

func (p *fakeProvider) FetchCatalog(ctx context.Context) ([]domain.CatalogCategory, error) {
	if p.block != nil {
		select {
		case <-p.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.catalog, nil
}

func newTestImporter(store *memStore, provider CatalogProvider) *CatalogImporter {
	return NewCatalogImporter(
		provider,
		memMenus{store},
		memCategories{store},
		memProducts{store},
		memUnits{store},
		memPrices{store},
		memCleanup{store},
		noTx{},
		logger.NewNopLogger(),
		NewImportSettings("Adisyo Menü", "#000000", "#000000"),
	)
}

// Каталог

func dineIn(price string) domain.CatalogPrice {
	return domain.CatalogPrice{Price: decimal.RequireFromString(price), OrderType: domain.DineInOrderType}
}

func catalogProduct(name, kdv, unit, price string) domain.CatalogProduct {
	return domain.CatalogProduct{
		Name:    name,
		TaxRate: decimal.RequireFromString(kdv),
		Units: []domain.CatalogUnit{{
			Name:      unit,
			IsDefault: true,
			Prices: []domain.CatalogPrice{
				{Price: decimal.RequireFromString("999"), OrderType: 2},
				dineIn(price),
			},
		}},
	}
}

func catalogCategory(name string, products ...domain.CatalogProduct) domain.CatalogCategory {
	return domain.CatalogCategory{Name: name, Products: products}
}

// Остальные зависимости сервиса

type memCooldowns struct {
	mu     sync.Mutex
	values map[uuid.UUID]time.Duration
}

func newMemCooldowns() *memCooldowns {
	return &memCooldowns{values: make(map[uuid.UUID]time.Duration)}
}

func (c *memCooldowns) SetCooldown(_ context.Context, businessID uuid.UUID, d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[businessID] = d
	return nil
}

func (c *memCooldowns) GetCooldown(_ context.Context, businessID uuid.UUID) (time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[businessID], nil
}

type memSnapshots struct {
	mu    sync.Mutex
	saved map[uuid.UUID]*ImportSessionInfo
}

func newMemSnapshots() *memSnapshots {
	return &memSnapshots{saved: make(map[uuid.UUID]*ImportSessionInfo)}
}

func (m *memSnapshots) SaveSnapshot(_ context.Context, info *ImportSessionInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved[info.ID] = info
	return nil
}

func (m *memSnapshots) GetSnapshot(_ context.Context, id uuid.UUID) (*ImportSessionInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	info, ok := m.saved[id]
	if !ok {
		return nil, e.ErrNotFound
	}
	return info, nil
}

func (m *memSnapshots) get(id uuid.UUID) (*ImportSessionInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.saved[id]
	return info, ok
}

type memOutbox struct {
	mu     sync.Mutex
	events []*OutboxEvent
}

func (o *memOutbox) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	event.ID = int64(len(o.events) + 1)
	o.events = append(o.events, event)
	return event, nil
}

func (o *memOutbox) GetAndMarkAsProcessing(context.Context, int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (o *memOutbox) MarkAsProcessed(context.Context, int64) error { return nil }

func (o *memOutbox) MarkAsPending(context.Context, int64) error { return nil }

func (o *memOutbox) all() []*OutboxEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.events)
}

type stateEncoder struct{}

func (stateEncoder) EncodeImportFinished(info *ImportSessionInfo) ([]byte, error) {
	return []byte(info.State), nil
}

type chanArchiver struct {
	reports chan *ArchiveReportReq
}

func (a *chanArchiver) ArchiveReport(req *ArchiveReportReq) {
	a.reports <- req
}
