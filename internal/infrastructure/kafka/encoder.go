package kafka

import (
	"time"

	"github.com/DRSN-tech/qr-menu-backend/internal/usecase"
	"github.com/DRSN-tech/qr-menu-backend/pkg/e"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// EventEncoder сериализует событие завершения импорта в protobuf (google.protobuf.Struct).
type EventEncoder struct {
	now func() time.Time
}

func NewEventEncoder() *EventEncoder {
	return &EventEncoder{now: time.Now}
}

func (enc *EventEncoder) EncodeImportFinished(info *usecase.ImportSessionInfo) ([]byte, error) {
	fields := map[string]any{
		"event_id":        uuid.NewString(),
		"event_type":      string(usecase.ImportFinishedEvent),
		"event_timestamp": enc.now().UnixNano(),
		"session_id":      info.ID.String(),
		"business_id":     info.BusinessID.String(),
		"state":           string(info.State),
		"menu_id":         info.MenuID,
	}
	if info.Error != "" {
		fields["error"] = info.Error
	}
	if info.RetryAfter > 0 {
		fields["retry_after_seconds"] = int64(info.RetryAfter / time.Second)
	}
	if s := info.Stats; s != nil {
		fields["stats"] = map[string]any{
			"total_categories":    s.TotalCategories,
			"imported_categories": s.ImportedCategories,
			"updated_categories":  s.UpdatedCategories,
			"total_products":      s.TotalProducts,
			"imported_products":   s.ImportedProducts,
			"updated_products":    s.UpdatedProducts,
			"updated_prices":      s.UpdatedPrices,
			"failed_items":        s.FailedCount(),
		}
	}

	event, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	payload, err := proto.Marshal(event)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return payload, nil
}
