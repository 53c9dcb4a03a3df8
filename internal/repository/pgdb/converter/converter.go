package converter

import (
	"github.com/DRSN-tech/qr-menu-backend/internal/domain"
	"github.com/DRSN-tech/qr-menu-backend/internal/usecase"
	"github.com/DRSN-tech/qr-menu-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// Converter преобразует сущности domain/usecase в модели PostgreSQL и обратно.
type Converter struct{}

func NewConverter() *Converter {
	return &Converter{}
}

func (Converter) ToMenuEntity(m *MenuModel) *domain.Menu {
	return &domain.Menu{
		ID:         m.ID,
		BusinessID: m.BusinessID,
		Name:       m.Name,
		Color:      m.Color,
		IsActive:   m.IsActive,
		SortOrder:  m.SortOrder,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func (Converter) ToCategoryEntity(m *CategoryModel) *domain.Category {
	return &domain.Category{
		ID:        m.ID,
		MenuID:    m.MenuID,
		Name:      m.Name,
		Color:     m.Color,
		IsActive:  m.IsActive,
		SortOrder: m.SortOrder,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (Converter) ToProductEntity(m *ProductModel) (*domain.Product, error) {
	kdv, err := decimal.NewFromString(m.KdvRate)
	if err != nil {
		return nil, e.Wrap("converter.ToProductEntity", err)
	}

	return &domain.Product{
		ID:         m.ID,
		CategoryID: m.CategoryID,
		Name:       m.Name,
		KdvRate:    kdv,
		IsActive:   m.IsActive,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}, nil
}

func (Converter) ToUnitEntity(m *UnitModel) *domain.Unit {
	return &domain.Unit{
		ID:             m.ID,
		Name:           m.Name,
		NormalizedName: m.NormalizedName,
		CreatedAt:      m.CreatedAt,
	}
}

func (Converter) ToProductPriceEntity(m *ProductPriceModel) (*domain.ProductPrice, error) {
	price, err := decimal.NewFromString(m.Price)
	if err != nil {
		return nil, e.Wrap("converter.ToProductPriceEntity", err)
	}

	return &domain.ProductPrice{
		ID:        m.ID,
		ProductID: m.ProductID,
		UnitID:    m.UnitID,
		Price:     price,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

func (Converter) ToOutboxEventModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		AggregateID: entity.AggregateID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (Converter) ToOutboxEventEntity(m *OutboxEventModel) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:          m.ID,
		EventID:     m.EventID,
		EventType:   usecase.OutboxEventType(m.EventType),
		AggregateID: m.AggregateID,
		Payload:     m.Payload,
		Status:      usecase.OutboxStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		ProcessedAt: m.ProcessedAt,
	}
}

func (c Converter) ToArrOutboxEventEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	result := make([]*usecase.OutboxEvent, 0, len(models))
	for _, m := range models {
		result = append(result, c.ToOutboxEventEntity(m))
	}
	return result
}
