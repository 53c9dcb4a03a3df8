package kafka

import (
	"testing"
	"time"

	"github.com/DRSN-tech/qr-menu-backend/internal/domain"
	"github.com/DRSN-tech/qr-menu-backend/internal/usecase"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func decodeEvent(t *testing.T, payload []byte) *structpb.Struct {
	t.Helper()

	event := new(structpb.Struct)
	require.NoError(t, proto.Unmarshal(payload, event))
	return event
}

func TestEventEncoder_EncodeImportFinished(t *testing.T) {
	enc := NewEventEncoder()
	enc.now = func() time.Time { return time.Unix(1700000000, 0) }

	stats := domain.NewImportStats(nil)
	stats.ImportedProducts = 4
	stats.AddFailedProduct("B1", "B", assert.AnError)

	info := &usecase.ImportSessionInfo{
		ID:         uuid.New(),
		BusinessID: uuid.New(),
		State:      domain.ImportCompleted,
		MenuID:     7,
		Stats:      stats,
	}

	payload, err := enc.EncodeImportFinished(info)
	require.NoError(t, err)

	fields := decodeEvent(t, payload).GetFields()
	assert.Equal(t, string(usecase.ImportFinishedEvent), fields["event_type"].GetStringValue())
	assert.Equal(t, info.ID.String(), fields["session_id"].GetStringValue())
	assert.Equal(t, info.BusinessID.String(), fields["business_id"].GetStringValue())
	assert.Equal(t, "completed", fields["state"].GetStringValue())
	assert.EqualValues(t, 7, fields["menu_id"].GetNumberValue())
	assert.EqualValues(t, 1700000000*1e9, fields["event_timestamp"].GetNumberValue())
	assert.NotEmpty(t, fields["event_id"].GetStringValue())
	assert.NotContains(t, fields, "error")

	s := fields["stats"].GetStructValue().GetFields()
	assert.EqualValues(t, 4, s["imported_products"].GetNumberValue())
	assert.EqualValues(t, 1, s["failed_items"].GetNumberValue())
}

func TestEventEncoder_FailedImport(t *testing.T) {
	payload, err := NewEventEncoder().EncodeImportFinished(&usecase.ImportSessionInfo{
		ID:         uuid.New(),
		BusinessID: uuid.New(),
		State:      domain.ImportFailed,
		Error:      "RATE_LIMIT:180",
		RetryAfter: 180 * time.Second,
	})
	require.NoError(t, err)

	fields := decodeEvent(t, payload).GetFields()
	assert.Equal(t, "failed", fields["state"].GetStringValue())
	assert.Equal(t, "RATE_LIMIT:180", fields["error"].GetStringValue())
	assert.EqualValues(t, 180, fields["retry_after_seconds"].GetNumberValue())
	assert.NotContains(t, fields, "stats")
}
