package service

import (
	"context"
	"fmt"
	"strconv"

	"moviedash/internal/biz"

	"github.com/go-kratos/kratos/v2/errors"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

const (
	OperationCatalogHealth       = "/moviedash.v1.Catalog/Health"
	OperationCatalogListTables   = "/moviedash.v1.Catalog/ListTables"
	OperationCatalogPreviewTable = "/moviedash.v1.Catalog/PreviewTable"
)

// HealthReply is the liveness response.
type HealthReply struct {
	Status string `json:"status"`
}

// PreviewRequest selects a table and a row limit.
type PreviewRequest struct {
	Table string
	Limit int
}

// CatalogService implements the read-only table API
type CatalogService struct {
	catalogUC *biz.CatalogUseCase
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(catalogUC *biz.CatalogUseCase) *CatalogService {
	return &CatalogService{catalogUC: catalogUC}
}

// Health never touches the store.
func (s *CatalogService) Health(ctx context.Context) (*HealthReply, error) {
	return &HealthReply{Status: "ok"}, nil
}

// ListTables returns the store's tables, sorted.
func (s *CatalogService) ListTables(ctx context.Context) ([]string, error) {
	tables, err := s.catalogUC.ListTables(ctx)
	if err != nil {
		return nil, toServiceError(err)
	}
	return tables, nil
}

// PreviewTable returns the first rows of a whitelisted table.
func (s *CatalogService) PreviewTable(ctx context.Context, req *PreviewRequest) ([]biz.Row, error) {
	rows, err := s.catalogUC.PreviewTable(ctx, req.Table, req.Limit)
	if err != nil {
		return nil, toServiceError(err)
	}
	return rows, nil
}

// RegisterHTTP mounts the catalog routes on srv.
func (s *CatalogService) RegisterHTTP(srv *khttp.Server) {
	r := srv.Route("/")
	r.GET("/", s.healthHandler)
	r.GET("/tables", s.listTablesHandler)
	r.GET("/preview/{table}", s.previewTableHandler)
}

func (s *CatalogService) healthHandler(ctx khttp.Context) error {
	khttp.SetOperation(ctx, OperationCatalogHealth)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.Health(ctx)
	})
	out, err := h(ctx, nil)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

func (s *CatalogService) listTablesHandler(ctx khttp.Context) error {
	khttp.SetOperation(ctx, OperationCatalogListTables)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.ListTables(ctx)
	})
	out, err := h(ctx, nil)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

func (s *CatalogService) previewTableHandler(ctx khttp.Context) error {
	khttp.SetOperation(ctx, OperationCatalogPreviewTable)

	req := &PreviewRequest{
		Table: ctx.Vars().Get("table"),
		Limit: biz.DefaultPreviewLimit,
	}
	if raw := ctx.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return errors.BadRequest("INVALID_LIMIT", fmt.Sprintf("limit must be an integer, got %q", raw))
		}
		req.Limit = limit
	}

	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.PreviewTable(ctx, req.(*PreviewRequest))
	})
	out, err := h(ctx, req)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

// toServiceError maps biz errors onto kratos errors with HTTP/gRPC codes.
func toServiceError(err error) error {
	switch {
	case errors.Is(err, biz.ErrTableNotAllowed):
		return errors.BadRequest("TABLE_NOT_ALLOWED", err.Error())
	case errors.Is(err, biz.ErrInvalidLimit):
		return errors.BadRequest("INVALID_LIMIT", err.Error())
	case errors.Is(err, biz.ErrStorage):
		return errors.InternalServer("STORAGE_ERROR", err.Error())
	}
	return err
}
