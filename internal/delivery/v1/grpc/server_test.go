package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/DRSN-tech/qr-menu-backend/internal/cfg"
	"github.com/DRSN-tech/qr-menu-backend/internal/domain"
	"github.com/DRSN-tech/qr-menu-backend/internal/usecase"
	"github.com/DRSN-tech/qr-menu-backend/pkg/e"
	"github.com/DRSN-tech/qr-menu-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type stubImportUC struct {
	usecase.ImportUC
	sessions map[uuid.UUID]*usecase.ImportSessionInfo
	cooldown time.Duration
}

func (s *stubImportUC) GetSession(_ context.Context, id uuid.UUID) (*usecase.ImportSessionInfo, error) {
	info, ok := s.sessions[id]
	if !ok {
		return nil, e.ErrSessionNotFound
	}
	return info, nil
}

func (s *stubImportUC) Cooldown(context.Context, uuid.UUID) (time.Duration, error) {
	return s.cooldown, nil
}

func dialServer(t *testing.T, uc usecase.ImportUC) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := NewGRPCServer(&cfg.GRPCConfig{}, logger.NewNopLogger())
	srv.RegisterServices(uc)
	go func() { _ = srv.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		_ = srv.Stop(context.Background())
	})

	return conn
}

func TestImportStatusService_GetSession(t *testing.T) {
	id := uuid.New()
	uc := &stubImportUC{sessions: map[uuid.UUID]*usecase.ImportSessionInfo{
		id: {
			ID:    id,
			State: domain.ImportCompleted,
			Stats: &domain.ImportStats{TotalProducts: 4, ImportedProducts: 3},
		},
	}}
	conn := dialServer(t, uc)

	req, err := structpb.NewStruct(map[string]any{"session_id": id.String()})
	require.NoError(t, err)

	res := new(structpb.Struct)
	require.NoError(t, conn.Invoke(context.Background(), "/"+importStatusServiceName+"/GetSession", req, res))

	assert.Equal(t, "completed", res.Fields["state"].GetStringValue())
	stats := res.Fields["stats"].GetStructValue()
	require.NotNil(t, stats)
	assert.EqualValues(t, 3, stats.Fields["imported_products"].GetNumberValue())
}

func TestImportStatusService_Errors(t *testing.T) {
	conn := dialServer(t, &stubImportUC{})

	req, err := structpb.NewStruct(map[string]any{"session_id": uuid.NewString()})
	require.NoError(t, err)
	err = conn.Invoke(context.Background(), "/"+importStatusServiceName+"/GetSession", req, new(structpb.Struct))
	assert.Equal(t, codes.NotFound, status.Code(err))

	req, err = structpb.NewStruct(map[string]any{"session_id": "broken"})
	require.NoError(t, err)
	err = conn.Invoke(context.Background(), "/"+importStatusServiceName+"/GetSession", req, new(structpb.Struct))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestImportStatusService_GetCooldown(t *testing.T) {
	conn := dialServer(t, &stubImportUC{cooldown: 2 * time.Minute})

	req, err := structpb.NewStruct(map[string]any{"business_id": uuid.NewString()})
	require.NoError(t, err)

	res := new(structpb.Struct)
	require.NoError(t, conn.Invoke(context.Background(), "/"+importStatusServiceName+"/GetCooldown", req, res))
	assert.True(t, res.Fields["active"].GetBoolValue())
	assert.EqualValues(t, 120, res.Fields["retry_after_seconds"].GetNumberValue())
}

func TestGRPCServer_Health(t *testing.T) {
	conn := dialServer(t, &stubImportUC{})

	res, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: importStatusServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, res.Status)
}
