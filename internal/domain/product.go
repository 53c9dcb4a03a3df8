package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product описывает продукт категории. Для импорта идентичность — пара (CategoryID, Name).
type Product struct {
	ID         int64
	CategoryID int64
	Name       string
	KdvRate    decimal.Decimal // ставка НДС (KDV), в процентах
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

func NewProduct(categoryID int64, name string, kdvRate decimal.Decimal) *Product {
	return &Product{
		CategoryID: categoryID,
		Name:       name,
		KdvRate:    kdvRate,
		IsActive:   true,
	}
}

// ProductChanges — набор изменённых полей продукта. nil означает «без изменений».
type ProductChanges struct {
	Name    *string
	KdvRate *decimal.Decimal
}

// Empty сообщает, что изменений нет.
func (c ProductChanges) Empty() bool {
	return c.Name == nil && c.KdvRate == nil
}

// Diff сравнивает только name и kdv_rate; остальные поля продукта импорт не трогает.
func (p *Product) Diff(name string, kdvRate decimal.Decimal) ProductChanges {
	var changes ProductChanges
	if p.Name != name {
		changes.Name = &name
	}
	if !p.KdvRate.Equal(kdvRate) {
		changes.KdvRate = &kdvRate
	}

	return changes
}

// Apply применяет изменения к продукту.
func (p *Product) Apply(c ProductChanges) {
	if c.Name != nil {
		p.Name = *c.Name
	}
	if c.KdvRate != nil {
		p.KdvRate = *c.KdvRate
	}
}
