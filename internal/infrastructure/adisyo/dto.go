package adisyo

import (
	"github.com/DRSN-tech/qr-menu-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// statusOK — значение поля status в успешном ответе Adisyo.
const statusOK = 100

type productsResponse struct {
	Status  int           `json:"status"`
	Message string        `json:"message"`
	Data    []categoryDTO `json:"data" validate:"dive"`
}

type categoryDTO struct {
	CategoryName string       `json:"categoryName" validate:"required"`
	Products     []productDTO `json:"products" validate:"dive"`
}

type productDTO struct {
	ProductName  string    `json:"productName" validate:"required"`
	TaxRate      *float64  `json:"taxRate" validate:"required,gte=0,lte=100"`
	ProductUnits []unitDTO `json:"productUnits" validate:"dive"`
}

type unitDTO struct {
	UnitName  string     `json:"unitName" validate:"required"`
	IsDefault bool       `json:"isDefault"`
	Prices    []priceDTO `json:"prices" validate:"dive"`
}

type priceDTO struct {
	Price     *float64 `json:"price" validate:"required,gte=0"`
	OrderType int      `json:"orderType" validate:"gte=0"`
}

func toDomainCatalog(data []categoryDTO) []domain.CatalogCategory {
	categories := make([]domain.CatalogCategory, 0, len(data))
	for _, c := range data {
		products := make([]domain.CatalogProduct, 0, len(c.Products))
		for _, p := range c.Products {
			products = append(products, toDomainProduct(p))
		}

		categories = append(categories, domain.CatalogCategory{
			Name:     c.CategoryName,
			Products: products,
		})
	}

	return categories
}

func toDomainProduct(p productDTO) domain.CatalogProduct {
	units := make([]domain.CatalogUnit, 0, len(p.ProductUnits))
	for _, u := range p.ProductUnits {
		prices := make([]domain.CatalogPrice, 0, len(u.Prices))
		for _, pr := range u.Prices {
			prices = append(prices, domain.CatalogPrice{
				Price:     decimal.NewFromFloat(*pr.Price),
				OrderType: pr.OrderType,
			})
		}

		units = append(units, domain.CatalogUnit{
			Name:      u.UnitName,
			IsDefault: u.IsDefault,
			Prices:    prices,
		})
	}

	return domain.CatalogProduct{
		Name:    p.ProductName,
		TaxRate: decimal.NewFromFloat(*p.TaxRate),
		Units:   units,
	}
}
