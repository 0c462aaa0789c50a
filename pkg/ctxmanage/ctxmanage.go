package ctxmanage

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
)

type ctxKey int

// TraceIdKey is the request context key holding the trace id set by the logger middleware
const TraceIdKey ctxKey = 1

// GetTraceIdOfRequest returns the trace id of the current request, or "Unknown" when
// the logger middleware did not run for it.
func GetTraceIdOfRequest(c *gin.Context) string {
	return GetTraceId(c.Request.Context())
}

// GetTraceId is GetTraceIdOfRequest for plain contexts, such as those of gRPC calls.
func GetTraceId(ctx context.Context) string {
	traceId, ok := ctx.Value(TraceIdKey).(string)
	if !ok {
		slog.Error("trace id not present in the context")
		return "Unknown"
	}
	return traceId
}
