package usecase

import (
	"time"

	"github.com/DRSN-tech/qr-menu-backend/internal/domain"
	"github.com/google/uuid"
)

// IMPORT

// ProgressFunc вызывается перед обработкой каждой категории (CurrentProduct пуст) и каждого продукта.
type ProgressFunc func(progress domain.ImportProgress)

// ImportCatalogRes — результат одного прогона импорта.
type ImportCatalogRes struct {
	Success bool
	MenuID  int64
	Stats   domain.ImportStats
}

// ImportSettings — параметры создаваемых при импорте меню и категорий.
type ImportSettings struct {
	MenuName      string
	MenuColor     string
	CategoryColor string
}

// ImportSessionInfo — снимок состояния сессии импорта для внешнего использования.
type ImportSessionInfo struct {
	ID                 uuid.UUID
	BusinessID         uuid.UUID
	State              domain.ImportState
	Paused             bool
	MenuID             int64
	Progress           *domain.ImportProgress
	Stats              *domain.ImportStats
	Error              string
	RetryAfter         time.Duration
	CreatedCategoryIDs []int64
	StartedAt          *time.Time
	FinishedAt         *time.Time
}

// RollbackRes — результат отката импорта.
type RollbackRes struct {
	Session           *ImportSessionInfo
	DeletedCategories int64
}

// INFRASTRUCTURE

type WriteRawMessageReq struct {
	Key     string
	Payload []byte
}

// ArchiveReportReq — отчёт об импорте для сохранения в объектное хранилище.
type ArchiveReportReq struct {
	BusinessID uuid.UUID
	SessionID  uuid.UUID
	Report     []byte
}

// ReportObject — объект отчёта в хранилище.
type ReportObject struct {
	Key         string
	Data        []byte
	ContentType string
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	ImportFinishedEvent OutboxEventType = "catalog.import.finished"
)

// OutboxEvent — событие, ожидающее публикации в Kafka.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	AggregateID string // ключ сообщения Kafka (business id)
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// MAPPERS

func NewImportCatalogRes(menuID int64, stats *domain.ImportStats) *ImportCatalogRes {
	return &ImportCatalogRes{
		Success: true,
		MenuID:  menuID,
		Stats:   stats.Clone(),
	}
}

func NewImportSettings(menuName, menuColor, categoryColor string) ImportSettings {
	return ImportSettings{
		MenuName:      menuName,
		MenuColor:     menuColor,
		CategoryColor: categoryColor,
	}
}

func NewWriteRawMessageReq(key string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:     key,
		Payload: payload,
	}
}

func NewArchiveReportReq(businessID, sessionID uuid.UUID, report []byte) *ArchiveReportReq {
	return &ArchiveReportReq{
		BusinessID: businessID,
		SessionID:  sessionID,
		Report:     report,
	}
}

func NewOutboxEvent(eventType OutboxEventType, aggregateID string, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		EventID:     uuid.NewString(),
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     payload,
		Status:      Pending,
		CreatedAt:   time.Now().UTC(),
	}
}

// NewReportObject строит JSON-объект отчёта с ключом <business_id>/<session_id>.json.
func NewReportObject(req *ArchiveReportReq) *ReportObject {
	return &ReportObject{
		Key:         req.BusinessID.String() + "/" + req.SessionID.String() + ".json",
		Data:        req.Report,
		ContentType: "application/json",
	}
}
