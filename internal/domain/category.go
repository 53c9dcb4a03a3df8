package domain

import "time"

// Category описывает категорию меню. Для импорта идентичность категории — пара (MenuID, Name).
type Category struct {
	ID        int64
	MenuID    int64
	Name      string
	Color     string
	IsActive  bool
	SortOrder int32
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func NewCategory(menuID int64, name string, color string) *Category {
	return &Category{
		MenuID:   menuID,
		Name:     name,
		Color:    color,
		IsActive: true,
	}
}
