package middleware

import (
	"context"
	"testing"

	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/pkg/ctxmanage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

func TestUnaryLoggerPassesTraceId(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: "/storefront.v1.Catalog/GetFeatured"}
	var seen string
	handler := func(ctx context.Context, req any) (any, error) {
		seen = ctxmanage.GetTraceId(ctx)
		return "ok", nil
	}

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-trace-id", "grpc-trace-1"))
	resp, err := UnaryLogger()(ctx, nil, info, handler)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Equal(t, "grpc-trace-1", seen)

	_, err = UnaryLogger()(context.Background(), nil, info, handler)
	require.NoError(t, err)
	assert.Len(t, seen, 36, "a uuid is generated when the caller sends no trace id")
}
