package domain

import (
	"time"

	"github.com/google/uuid"
)

// Menu описывает меню заведения — контейнер категорий.
type Menu struct {
	ID         int64
	BusinessID uuid.UUID
	Name       string
	Color      string
	IsActive   bool
	SortOrder  int32
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// NewMenu создаёт активное меню для импорта.
func NewMenu(businessID uuid.UUID, name string, color string) *Menu {
	return &Menu{
		BusinessID: businessID,
		Name:       name,
		Color:      color,
		IsActive:   true,
	}
}
