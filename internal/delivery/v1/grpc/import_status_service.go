package grpc

import (
	"context"
	"time"

	"github.com/DRSN-tech/qr-menu-backend/internal/usecase"
	"github.com/DRSN-tech/qr-menu-backend/pkg/e"
	"github.com/DRSN-tech/qr-menu-backend/pkg/logger"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const importStatusServiceName = "qrmenu.imports.v1.ImportStatusService"

// ImportStatusServer — чтение состояния импорта для внутренних сервисов.
// Запросы и ответы передаются как google.protobuf.Struct.
type ImportStatusServer interface {
	GetSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetCooldown(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type ImportStatusService struct {
	importUC usecase.ImportUC
	logger   logger.Logger
}

func NewImportStatusService(importUC usecase.ImportUC, logger logger.Logger) *ImportStatusService {
	return &ImportStatusService{importUC: importUC, logger: logger}
}

func (g *ImportStatusService) GetSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.GetSession"

	id, err := uuidField(req, "session_id")
	if err != nil {
		return nil, GRPCErrorResponse(err)
	}

	info, err := g.importUC.GetSession(ctx, id)
	if err != nil {
		g.logger.Warnf("%s: %v", op, err)
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	res, err := toSessionStruct(info)
	if err != nil {
		g.logger.Errorf(e.Wrap(op, err), "%s", op)
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	return res, nil
}

func (g *ImportStatusService) GetCooldown(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.GetCooldown"

	businessID, err := uuidField(req, "business_id")
	if err != nil {
		return nil, GRPCErrorResponse(err)
	}

	remaining, err := g.importUC.Cooldown(ctx, businessID)
	if err != nil {
		g.logger.Errorf(e.Wrap(op, err), "%s", op)
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	res, err := structpb.NewStruct(map[string]any{
		"business_id":         businessID.String(),
		"active":              remaining > 0,
		"retry_after_seconds": float64(remaining / time.Second),
	})
	if err != nil {
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	return res, nil
}

func uuidField(req *structpb.Struct, name string) (uuid.UUID, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return uuid.Nil, e.Wrap(name, e.ErrInvalidUUID)
	}

	id, err := uuid.Parse(v.GetStringValue())
	if err != nil {
		return uuid.Nil, e.Wrap(name, e.ErrInvalidUUID)
	}

	return id, nil
}

func toSessionStruct(info *usecase.ImportSessionInfo) (*structpb.Struct, error) {
	fields := map[string]any{
		"id":                  info.ID.String(),
		"business_id":         info.BusinessID.String(),
		"state":               string(info.State),
		"paused":              info.Paused,
		"menu_id":             float64(info.MenuID),
		"error":               info.Error,
		"retry_after_seconds": float64(info.RetryAfter / time.Second),
	}

	stats := info.Stats
	if stats == nil && info.Progress != nil {
		stats = &info.Progress.Stats
	}
	if stats != nil {
		fields["stats"] = map[string]any{
			"total_categories":    float64(stats.TotalCategories),
			"imported_categories": float64(stats.ImportedCategories),
			"updated_categories":  float64(stats.UpdatedCategories),
			"total_products":      float64(stats.TotalProducts),
			"imported_products":   float64(stats.ImportedProducts),
			"updated_products":    float64(stats.UpdatedProducts),
			"updated_prices":      float64(stats.UpdatedPrices),
			"failed_items":        float64(stats.FailedCount()),
		}
	}
	if info.Progress != nil {
		fields["current_category"] = info.Progress.CurrentCategory
		fields["current_product"] = info.Progress.CurrentProduct
	}

	return structpb.NewStruct(fields)
}

func getSessionHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ImportStatusServer).GetSession(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + importStatusServiceName + "/GetSession",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ImportStatusServer).GetSession(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getCooldownHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ImportStatusServer).GetCooldown(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + importStatusServiceName + "/GetCooldown",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ImportStatusServer).GetCooldown(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var importStatusServiceDesc = grpc.ServiceDesc{
	ServiceName: importStatusServiceName,
	HandlerType: (*ImportStatusServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetSession", Handler: getSessionHandler},
		{MethodName: "GetCooldown", Handler: getCooldownHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "qrmenu/imports/v1/import_status.proto",
}
