package service

import (
	"context"
	"fmt"
	"time"

	"moviedash/internal/biz"

	"github.com/go-kratos/kratos/v2/errors"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// CatalogServer is the gRPC face of the catalog. Messages are well-known
// types so no generated code is needed.
type CatalogServer interface {
	HealthRPC(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ListTablesRPC(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	// PreviewTableRPC reads {"table": string, "limit": number}.
	PreviewTableRPC(context.Context, *structpb.Struct) (*structpb.ListValue, error)
}

var _ CatalogServer = (*CatalogService)(nil)

// CatalogServiceDesc describes moviedash.v1.Catalog for grpc.Server.RegisterService.
var CatalogServiceDesc = grpc.ServiceDesc{
	ServiceName: "moviedash.v1.Catalog",
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Health", Handler: catalogHealthHandler},
		{MethodName: "ListTables", Handler: catalogListTablesHandler},
		{MethodName: "PreviewTable", Handler: catalogPreviewTableHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "moviedash/v1/catalog",
}

func (s *CatalogService) HealthRPC(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	reply, err := s.Health(ctx)
	if err != nil {
		return nil, err
	}
	return structpb.NewStruct(map[string]interface{}{"status": reply.Status})
}

func (s *CatalogService) ListTablesRPC(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	tables, err := s.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	values := make([]interface{}, len(tables))
	for i, t := range tables {
		values[i] = t
	}
	return structpb.NewList(values)
}

func (s *CatalogService) PreviewTableRPC(ctx context.Context, in *structpb.Struct) (*structpb.ListValue, error) {
	req := &PreviewRequest{Limit: biz.DefaultPreviewLimit}
	fields := in.GetFields()
	req.Table = fields["table"].GetStringValue()
	if v, ok := fields["limit"]; ok {
		n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
		if !isNumber || n.NumberValue != float64(int(n.NumberValue)) {
			return nil, errors.BadRequest("INVALID_LIMIT", "limit must be an integer")
		}
		req.Limit = int(n.NumberValue)
	}

	rows, err := s.PreviewTable(ctx, req)
	if err != nil {
		return nil, err
	}
	list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(rows))}
	for _, row := range rows {
		m := row.Map()
		for col, v := range m {
			m[col] = plainValue(v)
		}
		st, err := structpb.NewStruct(m)
		if err != nil {
			return nil, errors.InternalServer("ENCODING_ERROR", err.Error())
		}
		list.Values = append(list.Values, structpb.NewStructValue(st))
	}
	return list, nil
}

// plainValue converts driver values structpb cannot represent.
func plainValue(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.Format(time.RFC3339)
	case []byte:
		return string(t)
	case nil, bool, string, int, int32, int64, uint, uint32, uint64, float32, float64:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func catalogHealthHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).HealthRPC(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: OperationCatalogHealth}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CatalogServer).HealthRPC(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func catalogListTablesHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).ListTablesRPC(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: OperationCatalogListTables}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CatalogServer).ListTablesRPC(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func catalogPreviewTableHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).PreviewTableRPC(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: OperationCatalogPreviewTable}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CatalogServer).PreviewTableRPC(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
