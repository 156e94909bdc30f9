package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/fitnessdash/internal/analysis"
	"github.com/2beens/fitnessdash/internal/cache"
	"github.com/2beens/fitnessdash/internal/charts"
	"github.com/2beens/fitnessdash/internal/config"
	"github.com/2beens/fitnessdash/internal/dashboard"
	"github.com/2beens/fitnessdash/internal/dataset"
	"github.com/2beens/fitnessdash/internal/middleware"
	"github.com/2beens/fitnessdash/internal/misc"
	"github.com/2beens/fitnessdash/internal/session"
	"github.com/2beens/fitnessdash/internal/telemetry/metrics"
	"github.com/2beens/fitnessdash/internal/telemetry/tracing"
	"github.com/2beens/fitnessdash/internal/ui"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/multierr"
)

const (
	serviceName        = "fitness-dashboard"
	sessionCacheSizeMB = 8
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config    *config.Config
	loader    *dataset.Loader
	renderer  *ui.Renderer
	viewCache cache.Cache
	sessions  session.Store

	// nil unless redis is enabled
	redisClient *redis.Client
	rateLimiter middleware.RequestRateLimiter

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

// NewServer loads the dataset up front: a dataset that cannot be loaded, or
// that has categories without a chart color, fails the startup.
func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("fitnessdash", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	loader := dataset.NewLoader(cfg.DatasetPath, metricsManager)
	snapshot, err := loader.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	if err := charts.ValidatePalette(analysis.NewOptions(snapshot.Records)); err != nil {
		return nil, fmt.Errorf("validate chart palette: %w", err)
	}
	log.Infof("dataset [%s] ready: %d records", loader.Path(), len(snapshot.Records))

	renderer, err := ui.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("new renderer: %w", err)
	}

	sessionTTL := time.Duration(cfg.SessionTTLSeconds) * time.Second
	s := &Server{
		config:      cfg,
		versionInfo: params.VersionInfo,
		loader:      loader,
		renderer:    renderer,
		viewCache:   cache.NewViewCache(cfg.ViewCacheSizeMB, sessionTTL),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
	}

	if cfg.RedisEnabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: params.RedisPassword,
			DB:       0, // use default DB
		})

		rdbStatus := rdb.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}

		s.redisClient = rdb
		s.sessions = session.NewRedisStore(rdb, sessionTTL)
		s.rateLimiter = redis_rate.NewLimiter(rdb)
	} else {
		log.Debugln("redis disabled, using in-process sessions, export not rate limited")
		s.sessions = session.NewMemoryStore(sessionCacheSizeMB, sessionTTL)
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	s.otelShutdown, err = tracing.HoneycombSetup(params.HoneycombTracingEnabled, serviceName, s.redisClient)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	miscHandler := misc.NewHandler(s.versionInfo)
	miscHandler.SetupRoutes(r)

	analysisHandler := dashboard.NewAnalysisHandler(
		s.loader,
		s.sessions,
		time.Duration(s.config.SessionTTLSeconds)*time.Second,
		s.viewCache,
		s.renderer,
		s.metricsManager,
	)
	analysisHandler.SetupRoutes(r)

	bmiHandler := dashboard.NewBMIHandler(s.renderer, s.metricsManager)
	bmiHandler.SetupRoutes(r, s.rateLimiter, s.config.ExportRateLimitPerMin)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve() {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() error {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	var err error
	if s.redisClient != nil {
		if closeErr := s.redisClient.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close redis client: %w", closeErr))
		}
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if shutdownErr := s.httpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown http server: %w", shutdownErr))
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if shutdownErr := s.metricsHttpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown metrics http server: %w", shutdownErr))
		}
		log.Warnln("metrics server shut down")
	}

	return err
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
