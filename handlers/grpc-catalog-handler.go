package handlers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/i18n"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/products"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/pkg/ctxmanage"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/pkg/logkey"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const CatalogServiceName = "storefront.v1.Catalog"

// CatalogServer exposes the catalog procedures over gRPC. Requests and responses are
// google.protobuf.Struct values carrying the same fields as the HTTP API.
type CatalogServer interface {
	GetAllCategories(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	GetAllProducts(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	GetAllPaginated(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	GetBySlug(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	GetFeatured(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

var CatalogServiceDesc = grpc.ServiceDesc{
	ServiceName: CatalogServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetAllCategories", Handler: catalogMethod("GetAllCategories", CatalogServer.GetAllCategories)},
		{MethodName: "GetAllProducts", Handler: catalogMethod("GetAllProducts", CatalogServer.GetAllProducts)},
		{MethodName: "GetAllPaginated", Handler: catalogMethod("GetAllPaginated", CatalogServer.GetAllPaginated)},
		{MethodName: "GetBySlug", Handler: catalogMethod("GetBySlug", CatalogServer.GetBySlug)},
		{MethodName: "GetFeatured", Handler: catalogMethod("GetFeatured", CatalogServer.GetFeatured)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "storefront/v1/catalog.proto",
}

func RegisterCatalogServer(s grpc.ServiceRegistrar, srv CatalogServer) {
	s.RegisterService(&CatalogServiceDesc, srv)
}

type catalogCall func(CatalogServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func catalogMethod(name string, call catalogCall) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CatalogServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + CatalogServiceName + "/" + name,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CatalogServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

type catalogService struct {
	catalog    Catalog
	categories Categories
}

func NewCatalogServiceHandler(catalog Catalog, categories Categories) *catalogService {
	return &catalogService{
		catalog:    catalog,
		categories: categories,
	}
}

func (s *catalogService) GetAllCategories(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	list, err := s.categories.GetAllCategories(ctx)
	if err != nil {
		return nil, internalError(ctx, "failed to list categories", err)
	}
	return toStruct(map[string]any{"categories": list})
}

func (s *catalogService) GetAllProducts(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var input listProductsInput
	if err := decodeInput(in, &input); err != nil {
		return nil, err
	}
	list, err := s.catalog.ListProducts(ctx, input.options())
	if err != nil {
		return nil, internalError(ctx, "failed to list products", err)
	}
	return toStruct(map[string]any{"products": viewProducts(list, localeOf(in))})
}

func (s *catalogService) GetAllPaginated(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	input := pageProductsInput{Page: 1, PageSize: products.DefaultPageSize}
	if err := decodeInput(in, &input); err != nil {
		return nil, err
	}
	page, err := s.catalog.ListProductsPaginated(ctx, input.options())
	if err != nil {
		return nil, internalError(ctx, "failed to list products", err)
	}
	return toStruct(map[string]any{
		"products":   viewProducts(page.Products, localeOf(in)),
		"total":      page.Total,
		"page":       page.Page,
		"pageSize":   page.PageSize,
		"totalPages": page.TotalPages,
	})
}

func (s *catalogService) GetBySlug(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var input struct {
		Slug string `json:"slug" validate:"required"`
	}
	if err := decodeInput(in, &input); err != nil {
		return nil, err
	}
	product, err := s.catalog.GetProductBySlug(ctx, input.Slug)
	if err != nil {
		return nil, internalError(ctx, "failed to get product", err)
	}
	if product == nil {
		return nil, status.Errorf(codes.NotFound, "product %q not found", input.Slug)
	}
	return toStruct(map[string]any{"product": viewProduct(*product, localeOf(in))})
}

func (s *catalogService) GetFeatured(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	input := struct {
		Limit int `json:"limit" validate:"min=0,max=100"`
	}{Limit: products.DefaultFeaturedLimit}
	if err := decodeInput(in, &input); err != nil {
		return nil, err
	}
	if input.Limit == 0 {
		input.Limit = products.DefaultFeaturedLimit
	}
	list, err := s.catalog.GetFeatured(ctx, input.Limit)
	if err != nil {
		return nil, internalError(ctx, "failed to list featured products", err)
	}
	return toStruct(map[string]any{"products": viewProducts(list, localeOf(in))})
}

// decodeInput fills dst from the request fields and validates it. Fields absent from
// the request keep the value dst already holds.
func decodeInput(in *structpb.Struct, dst any) error {
	b, err := json.Marshal(in.AsMap())
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "unreadable request: %v", err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return status.Errorf(codes.InvalidArgument, "unreadable request: %v", err)
	}
	if err := checkInput(dst); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return nil
}

func internalError(ctx context.Context, msg string, err error) error {
	slog.Error(msg, slog.String(logkey.TraceID, ctxmanage.GetTraceId(ctx)), slog.String(logkey.ERROR, err.Error()))
	return status.Errorf(codes.Internal, "%s: %v", msg, err)
}

func localeOf(in *structpb.Struct) i18n.Locale {
	return i18n.Parse(in.GetFields()["locale"].GetStringValue())
}

func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encoding response: %v", err)
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encoding response: %v", err)
	}
	return out, nil
}
