package api

import (
	"context"
	"net/http"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Harshitk-cp/credence/internal/api/handlers"
	mw "github.com/Harshitk-cp/credence/internal/api/middleware"
	"github.com/Harshitk-cp/credence/internal/buildconfig"
	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/Harshitk-cp/credence/internal/service"
	"github.com/Harshitk-cp/credence/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const limiterIdleTTL = 10 * time.Minute

// Pinger reports database health. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators NewApp wires together.
type Deps struct {
	Tenants domain.TenantStore
	Models  domain.ModelStore
	// DB is nil when running on in-memory stores.
	DB Pinger

	// Fixtures are imported into every new tenant. Empty disables seeding.
	Fixtures []domain.Model

	RateLimitRPS         float64
	RateLimitBurst       int
	MaxSessionsPerTenant int
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
}

// App holds the router and background services for lifecycle management.
type App struct {
	Router   *chi.Mux
	Models   *service.ModelService
	Sessions *service.SessionService
	Expirer  *service.ExpirerService

	limiter      *mw.RateLimiter
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64

	stopCh chan struct{}
	wg     sync.WaitGroup
}

func NewApp(deps Deps, logger *zap.Logger) *App {
	// Services
	modelSvc := service.NewModelService(deps.Models, logger)
	sessionSvc := service.NewSessionService(deps.Models, logger)
	sessionSvc.SetMaxPerTenant(deps.MaxSessionsPerTenant)

	expirerSvc := service.NewExpirerService(sessionSvc, logger)
	if deps.SessionTTL > 0 {
		expirerSvc.SetTTL(deps.SessionTTL)
	}
	if deps.SessionSweepInterval > 0 {
		expirerSvc.SetInterval(deps.SessionSweepInterval)
	}

	// Handlers
	tenantHandler := handlers.NewTenantHandler(deps.Tenants, modelSvc, deps.Fixtures, logger)
	modelHandler := handlers.NewModelHandler(modelSvc, sessionSvc)
	sessionHandler := handlers.NewSessionHandler(sessionSvc, modelSvc)
	calcHandler := handlers.NewCalcHandler()

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Models:    modelSvc,
		Sessions:  sessionSvc,
		Expirer:   expirerSvc,
		limiter:   mw.NewRateLimiter(deps.RateLimitRPS, deps.RateLimitBurst),
		startTime: time.Now(),
		stopCh:    make(chan struct{}),
	}

	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(app.limiter.Middleware)

	// No auth
	r.Get("/health", healthHandler(deps.DB))
	r.Get("/version", versionHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/stats", app.statsHandler())

	// Tenant creation is the bootstrap endpoint
	r.Post("/v1/tenants", tenantHandler.Create)

	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(deps.Tenants, logger))

		r.Route("/models", func(r chi.Router) {
			r.Post("/", modelHandler.Create)
			r.Get("/", modelHandler.List)
			r.Get("/{id}", modelHandler.GetByID)
			r.Delete("/{id}", modelHandler.Delete)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.Create)
			r.Get("/", sessionHandler.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", sessionHandler.GetByID)
				r.Delete("/", sessionHandler.Delete)
				r.Post("/evidence", sessionHandler.Observe)
				r.Post("/reset", sessionHandler.Reset)
			})
		})

		r.Route("/calc", func(r chi.Router) {
			r.Post("/bayes", calcHandler.Bayes)
			r.Post("/classify", calcHandler.Classify)
			r.Post("/simulate", calcHandler.SameSuit)
		})
	})

	return app
}

// Start launches the session expirer and the rate limiter janitor.
func (app *App) Start() {
	app.Expirer.Start()

	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		ticker := time.NewTicker(limiterIdleTTL)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				app.limiter.Cleanup(limiterIdleTTL)
			case <-app.stopCh:
				return
			}
		}
	}()
}

// Stop halts everything Start launched.
func (app *App) Stop() {
	app.Expirer.Stop()
	close(app.stopCh)
	app.wg.Wait()
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "storage": "memory"})
			return
		}
		if err := db.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "error", "error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "storage": "postgres"})
	}
}

func versionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildconfig.VersionInfo())
}

func (app *App) statsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		writeJSON(w, http.StatusOK, map[string]any{
			"uptime_seconds":  uptime.Seconds(),
			"uptime_human":    uptime.Round(time.Second).String(),
			"request_count":   app.requestCount.Load(),
			"error_count":     app.errorCount.Load(),
			"active_sessions": app.Sessions.Count(),
			"goroutines":      runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb": float64(memStats.Alloc) / 1024 / 1024,
				"sys_mb":   float64(memStats.Sys) / 1024 / 1024,
				"num_gc":   memStats.NumGC,
			},
		})
	}
}

// Ensure stores satisfy interfaces at compile time.
var (
	_ domain.TenantStore = (*store.TenantStore)(nil)
	_ domain.ModelStore  = (*store.ModelStore)(nil)
	_ domain.TenantStore = (*store.InMemTenantStore)(nil)
	_ domain.ModelStore  = (*store.InMemModelStore)(nil)
)
