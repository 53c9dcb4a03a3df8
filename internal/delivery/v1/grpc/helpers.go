package grpc

import (
	"errors"

	"github.com/DRSN-tech/qr-menu-backend/pkg/e"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func GRPCErrorResponse(err error) error {
	switch {
	case errors.Is(err, e.ErrInvalidUUID):
		return status.Error(codes.InvalidArgument, e.ErrInvalidUUID.Error())
	case errors.Is(err, e.ErrSessionNotFound):
		return status.Error(codes.NotFound, e.ErrSessionNotFound.Error())
	default:
		return status.Error(codes.Internal, e.ErrInternalServerError.Error())
	}
}
