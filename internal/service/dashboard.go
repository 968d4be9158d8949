package service

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"strconv"

	"moviedash/internal/biz"
	"moviedash/internal/chart"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

const (
	OperationDashboardPage  = "/moviedash.v1.Dashboard/Page"
	OperationDashboardChart = "/moviedash.v1.Dashboard/Chart"
)

const dashboardTitle = "Movies dashboard"

//go:embed templates/dashboard.html
var templatesFS embed.FS

var dashboardTemplate = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"num": func(v *float64) string {
		if v == nil {
			return ""
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	},
	"id": func(v *int64) string {
		if v == nil {
			return ""
		}
		return strconv.FormatInt(*v, 10)
	},
	"str": func(v *string) string {
		if v == nil {
			return ""
		}
		return *v
	},
}).ParseFS(templatesFS, "templates/dashboard.html"))

// DashboardPage is the data behind the dashboard template.
type DashboardPage struct {
	Title    string
	Total    int
	Filtered int
	ShowData bool
	Preview  []*biz.JoinedRecord
	Tabs     []DashboardTab
}

type DashboardTab struct {
	ID     string
	Title  string
	Charts []DashboardChart
}

type DashboardChart struct {
	Name string
	SVG  template.HTML
}

// ChartRequest selects one chart and its encoding.
type ChartRequest struct {
	Name   string
	Format string
}

// ChartReply is an encoded chart.
type ChartReply struct {
	ContentType string
	Body        []byte
}

// DashboardService renders the dashboard page and its charts
type DashboardService struct {
	dashboardUC *biz.DashboardUseCase
	log         *log.Helper
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(dashboardUC *biz.DashboardUseCase, logger log.Logger) *DashboardService {
	return &DashboardService{
		dashboardUC: dashboardUC,
		log:         log.NewHelper(logger),
	}
}

// Page loads the (cached) dataset, filters it and renders every chart.
func (s *DashboardService) Page(ctx context.Context, showData bool) (*DashboardPage, error) {
	snap, err := s.dashboardUC.Snapshot(ctx)
	if err != nil {
		return nil, toServiceError(err)
	}

	page := &DashboardPage{
		Title:    dashboardTitle,
		Total:    snap.Total,
		Filtered: snap.Filtered,
		ShowData: showData,
	}
	if showData {
		page.Preview = snap.Preview
	}

	for _, tab := range chart.Tabs {
		t := DashboardTab{ID: tab.ID, Title: tab.Title}
		for _, name := range tab.Charts {
			fig, err := chart.Build(name, snap.Top)
			if err != nil {
				return nil, errors.InternalServer("CHART_ERROR", err.Error())
			}
			svg, err := fig.SVG()
			if err != nil {
				return nil, errors.InternalServer("CHART_ERROR", err.Error())
			}
			t.Charts = append(t.Charts, DashboardChart{Name: name, SVG: inlineSVG(svg)})
		}
		page.Tabs = append(page.Tabs, t)
	}
	return page, nil
}

// Chart renders a single chart.
func (s *DashboardService) Chart(ctx context.Context, req *ChartRequest) (*ChartReply, error) {
	format := req.Format
	if format == "" {
		format = chart.FormatSVG
	}

	snap, err := s.dashboardUC.Snapshot(ctx)
	if err != nil {
		return nil, toServiceError(err)
	}
	fig, err := chart.Build(req.Name, snap.Top)
	if errors.Is(err, chart.ErrUnknownChart) {
		return nil, errors.NotFound("CHART_NOT_FOUND", err.Error())
	}
	if err != nil {
		return nil, errors.InternalServer("CHART_ERROR", err.Error())
	}

	var buf bytes.Buffer
	if err := fig.Encode(&buf, format); err != nil {
		if errors.Is(err, chart.ErrUnknownFormat) {
			return nil, errors.BadRequest("INVALID_FORMAT", err.Error())
		}
		return nil, errors.InternalServer("CHART_ERROR", err.Error())
	}
	return &ChartReply{ContentType: chart.ContentType(format), Body: buf.Bytes()}, nil
}

// RegisterHTTP mounts the dashboard routes on srv.
func (s *DashboardService) RegisterHTTP(srv *khttp.Server) {
	r := srv.Route("/")
	r.GET("/dashboard", s.pageHandler)
	r.GET("/charts/{name}", s.chartHandler)
}

func (s *DashboardService) pageHandler(ctx khttp.Context) error {
	khttp.SetOperation(ctx, OperationDashboardPage)
	showData := ctx.Query().Get("show_data") == "on"

	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.Page(ctx, req.(bool))
	})
	out, err := h(ctx, showData)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, out); err != nil {
		s.log.WithContext(ctx).Errorf("failed to render dashboard: %v", err)
		return errors.InternalServer("TEMPLATE_ERROR", err.Error())
	}
	return ctx.Blob(200, "text/html; charset=utf-8", buf.Bytes())
}

func (s *DashboardService) chartHandler(ctx khttp.Context) error {
	khttp.SetOperation(ctx, OperationDashboardChart)
	req := &ChartRequest{
		Name:   ctx.Vars().Get("name"),
		Format: ctx.Query().Get("format"),
	}

	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.Chart(ctx, req.(*ChartRequest))
	})
	out, err := h(ctx, req)
	if err != nil {
		return err
	}
	reply := out.(*ChartReply)
	return ctx.Blob(200, reply.ContentType, reply.Body)
}

// inlineSVG drops the XML prolog so the document can sit inside HTML.
func inlineSVG(doc []byte) template.HTML {
	if i := bytes.Index(doc, []byte("<svg")); i > 0 {
		doc = doc[i:]
	}
	return template.HTML(doc)
}
