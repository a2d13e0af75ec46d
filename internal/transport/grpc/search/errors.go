package search

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/procat-search/internal/pkg/condition"
)

// mapErrorToGRPC converts search errors to gRPC status codes.
func mapErrorToGRPC(err error) error {
	if err == nil {
		return nil
	}

	var colErr *condition.UnknownColumnError
	switch {
	case errors.As(err, &colErr):
		return status.Error(codes.InvalidArgument, colErr.Error())

	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")

	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")

	default:
		// Unknown error - return Internal
		return status.Error(codes.Internal, "internal server error")
	}
}
