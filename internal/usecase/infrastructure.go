package usecase

import (
	"context"

	"github.com/DRSN-tech/qr-menu-backend/internal/domain"
)

// CatalogProvider загружает внешний каталог (категории → продукты → единицы/цены).
type CatalogProvider interface {
	FetchCatalog(ctx context.Context) ([]domain.CatalogCategory, error)
}

// TxManager выполняет функцию внутри транзакции.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReportArchiver сохраняет отчёт об импорте во внешнее хранилище в фоне.
type ReportArchiver interface {
	ArchiveReport(req *ArchiveReportReq)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

// EventEncoder сериализует событие завершения импорта для outbox.
type EventEncoder interface {
	EncodeImportFinished(info *ImportSessionInfo) ([]byte, error)
}
