package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/pkg/ctxmanage"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/pkg/logkey"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// UnaryLogger is the gRPC counterpart of Logger. The trace id is taken from the
// x-trace-id metadata when the caller sends one, and is put in the handler context
// under ctxmanage.TraceIdKey.
func UnaryLogger() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		traceId := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if v := md.Get("x-trace-id"); len(v) > 0 {
				traceId = v[0]
			}
		}
		if traceId == "" {
			traceId = uuid.NewString()
		}

		ctx = context.WithValue(ctx, ctxmanage.TraceIdKey, traceId)

		start := time.Now()
		resp, err := handler(ctx, req)
		slog.Info("grpc call completed", slog.String(logkey.TraceID, traceId),
			slog.String("Method", info.FullMethod), slog.String("Code", status.Code(err).String()),
			slog.Duration("Took", time.Since(start)))
		return resp, err
	}
}
