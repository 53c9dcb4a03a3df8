package domain

// ImportState — состояние сессии импорта.
//
//	Idle → Running → Completed | Failed | Cancelling → Cancelled
//	Cancelled | Failed → RolledBack
type ImportState string

const (
	ImportIdle       ImportState = "idle"
	ImportRunning    ImportState = "running"
	ImportCompleted  ImportState = "completed"
	ImportCancelling ImportState = "cancelling"
	ImportCancelled  ImportState = "cancelled"
	ImportFailed     ImportState = "failed"
	ImportRolledBack ImportState = "rolled_back"
)

// Terminal сообщает, что сессия больше не выполняется.
func (s ImportState) Terminal() bool {
	switch s {
	case ImportCompleted, ImportCancelled, ImportFailed, ImportRolledBack:
		return true
	default:
		return false
	}
}

type FailedCategory struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

type FailedProduct struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Error    string `json:"error"`
}

type FailedItems struct {
	Categories []FailedCategory `json:"categories"`
	Products   []FailedProduct  `json:"products"`
}

// ImportStats — статистика одного запуска импорта. Не сохраняется в БД.
type ImportStats struct {
	TotalCategories    int         `json:"total_categories"`
	ImportedCategories int         `json:"imported_categories"`
	UpdatedCategories  int         `json:"updated_categories"`
	TotalProducts      int         `json:"total_products"`
	ImportedProducts   int         `json:"imported_products"`
	UpdatedProducts    int         `json:"updated_products"`
	UpdatedPrices      int         `json:"updated_prices"`
	FailedItems        FailedItems `json:"failed_items"`
}

func NewImportStats(catalog []CatalogCategory) *ImportStats {
	return &ImportStats{
		TotalCategories: len(catalog),
		TotalProducts:   CountProducts(catalog),
		FailedItems: FailedItems{
			Categories: []FailedCategory{},
			Products:   []FailedProduct{},
		},
	}
}

// Clone возвращает глубокую копию статистики (для передачи в колбэк прогресса).
func (s *ImportStats) Clone() ImportStats {
	c := *s
	c.FailedItems.Categories = append([]FailedCategory{}, s.FailedItems.Categories...)
	c.FailedItems.Products = append([]FailedProduct{}, s.FailedItems.Products...)
	return c
}

// FailedCount — общее количество неудачных элементов.
func (s *ImportStats) FailedCount() int {
	return len(s.FailedItems.Categories) + len(s.FailedItems.Products)
}

func (s *ImportStats) AddFailedCategory(name string, err error) {
	s.FailedItems.Categories = append(s.FailedItems.Categories, FailedCategory{Name: name, Error: err.Error()})
}

func (s *ImportStats) AddFailedProduct(name, category string, err error) {
	s.FailedItems.Products = append(s.FailedItems.Products, FailedProduct{Name: name, Category: category, Error: err.Error()})
}

// ImportProgress — текущий элемент импорта для отображения прогресса.
type ImportProgress struct {
	CurrentCategory string      `json:"current_category"`
	CurrentProduct  string      `json:"current_product"`
	Stats           ImportStats `json:"stats"`
}
