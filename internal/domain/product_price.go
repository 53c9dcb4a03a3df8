package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductPrice — цена продукта в конкретной единице.
type ProductPrice struct {
	ID        int64
	ProductID int64
	UnitID    int64
	Price     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func NewProductPrice(productID int64, unitID int64, price decimal.Decimal) *ProductPrice {
	return &ProductPrice{
		ProductID: productID,
		UnitID:    unitID,
		Price:     price,
	}
}

// FindPriceByUnit возвращает первую цену для единицы unitID.
func FindPriceByUnit(prices []ProductPrice, unitID int64) (*ProductPrice, bool) {
	for i := range prices {
		if prices[i].UnitID == unitID {
			return &prices[i], true
		}
	}

	return nil, false
}
