package domain

import "github.com/shopspring/decimal"

// DineInOrderType — тип заказа «в зале», цена которого считается стандартной.
const DineInOrderType = 1

// CatalogCategory — категория внешнего каталога (POS) вместе с продуктами.
type CatalogCategory struct {
	Name     string
	Products []CatalogProduct
}

// CatalogProduct — продукт внешнего каталога.
type CatalogProduct struct {
	Name    string
	TaxRate decimal.Decimal
	Units   []CatalogUnit
}

// CatalogUnit — единица продукта с ценами по типам заказа.
type CatalogUnit struct {
	Name      string
	IsDefault bool
	Prices    []CatalogPrice
}

type CatalogPrice struct {
	Price     decimal.Decimal
	OrderType int
}

// DefaultUnit возвращает первую единицу с флагом IsDefault.
func (p *CatalogProduct) DefaultUnit() (*CatalogUnit, bool) {
	for i := range p.Units {
		if p.Units[i].IsDefault {
			return &p.Units[i], true
		}
	}

	return nil, false
}

// DefaultPrice возвращает цену для типа заказа «в зале» или 0, если её нет.
func (u *CatalogUnit) DefaultPrice() decimal.Decimal {
	for _, p := range u.Prices {
		if p.OrderType == DineInOrderType {
			return p.Price
		}
	}

	return decimal.Zero
}

// CountProducts считает общее количество продуктов в каталоге.
func CountProducts(categories []CatalogCategory) int {
	total := 0
	for _, c := range categories {
		total += len(c.Products)
	}

	return total
}
