package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/fitnessdash/internal/analysis"
	"github.com/2beens/fitnessdash/internal/cache"
	"github.com/2beens/fitnessdash/internal/charts"
	"github.com/2beens/fitnessdash/internal/dataset"
	"github.com/2beens/fitnessdash/internal/session"
	"github.com/2beens/fitnessdash/internal/telemetry/metrics"
	"github.com/2beens/fitnessdash/internal/telemetry/tracing"
	"github.com/2beens/fitnessdash/internal/ui"
	"github.com/2beens/fitnessdash/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const loadErrorMessage = "The fitness dataset could not be loaded, so no dashboard can be shown. Please check the data file and reload the page."

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=dashboard

type datasetSource interface {
	Get(ctx context.Context) (*dataset.Snapshot, error)
}

type sessionStore interface {
	session.Store
}

type AnalysisHandler struct {
	source         datasetSource
	sessions       sessionStore
	sessionTTL     time.Duration
	viewCache      cache.Cache
	renderer       *ui.Renderer
	metricsManager *metrics.Manager
}

func NewAnalysisHandler(
	source datasetSource,
	sessions sessionStore,
	sessionTTL time.Duration,
	viewCache cache.Cache,
	renderer *ui.Renderer,
	metricsManager *metrics.Manager,
) *AnalysisHandler {
	return &AnalysisHandler{
		source:         source,
		sessions:       sessions,
		sessionTTL:     sessionTTL,
		viewCache:      viewCache,
		renderer:       renderer,
		metricsManager: metricsManager,
	}
}

func (handler *AnalysisHandler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/analysis", handler.HandlePage).Methods("GET").Name("analysis")
	r.HandleFunc("/api/analysis", handler.HandleAPI).Methods("GET").Name("analysis-api")
	r.HandleFunc("/api/analysis/options", handler.HandleOptions).Methods("GET").Name("analysis-options")
}

type analysisResult struct {
	filter    analysis.FilterState
	options   analysis.Options
	total     int
	rows      []dataset.WorkoutRecord
	dashboard *charts.Dashboard
}

type analysisResponse struct {
	Filter          analysis.FilterState    `json:"filter"`
	TotalRecords    int                     `json:"totalRecords"`
	FilteredRecords int                     `json:"filteredRecords"`
	KPIs            []charts.KPICard        `json:"kpis"`
	Figures         []charts.Figure         `json:"figures"`
	Rows            []dataset.WorkoutRecord `json:"rows"`
}

func (handler *AnalysisHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "analysisHandler.page")
	defer span.End()

	res, err := handler.compute(ctx, w, r)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Errorf("analysis page: %s", err)
		handler.renderer.RenderError(w, http.StatusInternalServerError, loadErrorMessage)
		return
	}

	if err := handler.renderer.Render(w, http.StatusOK, ui.PageAnalysis, ui.AnalysisPage{
		Filter:          res.filter,
		Options:         res.options,
		TotalRecords:    res.total,
		FilteredRecords: len(res.rows),
		Dashboard:       res.dashboard,
	}); err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Errorf("render analysis page: %s", err)
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

func (handler *AnalysisHandler) HandleAPI(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "analysisHandler.api")
	defer span.End()

	res, err := handler.compute(ctx, w, r)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Errorf("analysis api: %s", err)
		http.Error(w, "dataset unavailable", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, analysisResponse{
		Filter:          res.filter,
		TotalRecords:    res.total,
		FilteredRecords: len(res.rows),
		KPIs:            res.dashboard.KPIs,
		Figures:         res.dashboard.Figures,
		Rows:            res.rows,
	}, http.StatusOK)
}

func (handler *AnalysisHandler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "analysisHandler.options")
	defer span.End()

	snapshot, err := handler.source.Get(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Errorf("analysis options: %s", err)
		http.Error(w, "dataset unavailable", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, analysis.NewOptions(snapshot.Records), http.StatusOK)
}

func (handler *AnalysisHandler) compute(ctx context.Context, w http.ResponseWriter, r *http.Request) (*analysisResult, error) {
	snapshot, err := handler.source.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get dataset: %w", err)
	}

	opts := analysis.NewOptions(snapshot.Records)
	sess := session.FromRequest(ctx, handler.sessions, w, r, handler.sessionTTL)
	filter := resolveFilter(r, sess, opts)

	dash, rows, err := handler.dashboard(ctx, snapshot, opts, filter)
	if err != nil {
		return nil, fmt.Errorf("build dashboard: %w", err)
	}

	sess.Filter = &filter
	if err := handler.sessions.Save(ctx, sess); err != nil {
		log.Errorf("save session %s: %s", sess.ID, err)
	}

	return &analysisResult{
		filter:    filter,
		options:   opts,
		total:     len(snapshot.Records),
		rows:      rows,
		dashboard: dash,
	}, nil
}

// resolveFilter prefers the request's filter parameters, then the filter last
// applied in this session, then the defaults.
func resolveFilter(r *http.Request, sess *session.Session, opts analysis.Options) analysis.FilterState {
	q := r.URL.Query()
	switch {
	case analysis.HasFilterParams(q):
		return analysis.ParseFilter(q, opts)
	case sess.Filter != nil:
		// the dataset might have changed since, so the stored filter is checked again
		return analysis.ParseFilter(sess.Filter.Query(), opts)
	default:
		return analysis.DefaultFilter(opts)
	}
}

// dashboard returns the charts of the filter, memoized per dataset version.
// The raw table is not cached, it is rebuilt from the filtered rows.
func (handler *AnalysisHandler) dashboard(
	ctx context.Context,
	snapshot *dataset.Snapshot,
	opts analysis.Options,
	filter analysis.FilterState,
) (*charts.Dashboard, []dataset.WorkoutRecord, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analysisHandler.dashboard")
	defer span.End()

	key := snapshot.Version() + "|" + filter.Key()
	if raw, ok := handler.viewCache.Get(key); ok {
		dash := &charts.Dashboard{}
		err := json.Unmarshal(raw, dash)
		if err == nil {
			handler.metricsManager.CounterViewCache.WithLabelValues("hit").Inc()
			span.SetAttributes(attribute.Bool("cache.hit", true))
			rows := analysis.Apply(snapshot.Records, filter)
			dash.Table = charts.NewTable(rows)
			return dash, rows, nil
		}
		log.Warnf("view cache: corrupt entry %q: %s", key, err)
	}
	handler.metricsManager.CounterViewCache.WithLabelValues("miss").Inc()
	span.SetAttributes(attribute.Bool("cache.hit", false))

	view := analysis.BuildView(ctx, snapshot.Records, opts, filter)
	dash, err := charts.Build(ctx, view)
	if err != nil {
		return nil, nil, err
	}

	cached := *dash
	cached.Table = charts.Table{}
	if raw, err := json.Marshal(cached); err != nil {
		log.Errorf("view cache: marshal dashboard: %s", err)
	} else {
		handler.viewCache.Set(key, raw)
	}

	return dash, view.Rows, nil
}
