package grpcstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// RequestIDKey is the metadata key carrying a caller-supplied request id.
const RequestIDKey = "x-request-id"

// UnaryLogger logs one line per RPC. A request id is taken from incoming
// metadata or generated, then attached to the context logger and echoed in
// the response header.
func UnaryLogger(logger zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		reqID := requestID(ctx)
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDKey, reqID))

		l := logger.With().Str("request_id", reqID).Logger()
		resp, err := handler(l.WithContext(ctx), req)

		code := status.Code(err)
		event := l.Info()
		switch code {
		case codes.OK, codes.NotFound:
		case codes.InvalidArgument, codes.ResourceExhausted, codes.AlreadyExists:
			event = l.Warn()
		default:
			event = l.Error()
		}
		if err != nil {
			event = event.Err(err)
		}
		event.
			Str("method", info.FullMethod).
			Str("code", code.String()).
			Dur("duration", time.Since(start)).
			Msg("grpc_request")
		return resp, err
	}
}

func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(RequestIDKey); len(v) > 0 && v[0] != "" {
			return v[0]
		}
	}
	return uuid.NewString()
}
