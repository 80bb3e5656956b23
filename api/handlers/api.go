package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/linesmerrill/road-report-console/api"
	"github.com/linesmerrill/road-report-console/backend"
	"github.com/linesmerrill/road-report-console/config"
	"github.com/linesmerrill/road-report-console/events"
	"github.com/linesmerrill/road-report-console/exports"
	"github.com/linesmerrill/road-report-console/metrics"
	"github.com/linesmerrill/road-report-console/models"
	"github.com/linesmerrill/road-report-console/reports"
)

// App stores the router and backend client, so it can be reused
type App struct {
	Router   *mux.Router
	Config   config.Config
	Backend  *backend.Client
	Metrics  *metrics.Recorder
	Events   events.Publisher
	Exports  exports.Store
	Location *time.Location
}

// New creates a new mux router and all the routes
func (a *App) New(ctx context.Context) *mux.Router {
	g := api.NewGuardian(ctx, a.Backend.Auth, a.Config.TokenCacheTTL)

	r := mux.NewRouter()
	r.Use(a.Metrics.Middleware)

	rh := Report{
		RDB:      a.Backend.Reports,
		ODB:      a.Backend.Operators,
		Engine:   reports.NewEngine(a.Backend.Reports),
		Exports:  a.Exports,
		Events:   a.Events,
		Metrics:  a.Metrics,
		Location: a.Location,
	}
	oh := Operator{ODB: a.Backend.Operators, RDB: a.Backend.Reports, Events: a.Events, Metrics: a.Metrics}
	uh := User{ADB: a.Backend.Admin, Events: a.Events, Metrics: a.Metrics}
	ah := Audit{ADB: a.Backend.Admin, Location: a.Location}
	mh := Municipality{MDB: a.Backend.Municipalities, RDB: a.Backend.Reports}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")
	r.Handle("/metrics", a.Metrics.Handler()).Methods("GET")

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.Use(g.Middleware, api.TimeoutMiddleware(a.Config.RequestTimeout))

	v1.HandleFunc("/session", LogoutHandler).Methods("DELETE")

	employer := v1.PathPrefix("/employer").Subrouter()
	employer.Use(api.RequireRole(models.RoleEmployer))
	employer.HandleFunc("/reports", rh.ReportsHandler).Methods("GET")
	employer.HandleFunc("/reports/export", rh.ExportReportsHandler).Methods("GET")
	employer.HandleFunc("/reports/{report_id}", rh.ReportByIDHandler).Methods("GET")
	employer.HandleFunc("/reports/{report_id}/assign", rh.AssignReportHandler).Methods("POST")
	employer.HandleFunc("/stats", rh.StatsHandler).Methods("GET")
	employer.HandleFunc("/operators", oh.OperatorsHandler).Methods("GET")
	employer.HandleFunc("/operators", oh.CreateOperatorHandler).Methods("POST")
	employer.HandleFunc("/operators/{operator_id}", oh.DeleteOperatorHandler).Methods("DELETE")

	admin := v1.PathPrefix("/admin").Subrouter()
	admin.Use(api.RequireRole(models.RoleAdmin))
	admin.HandleFunc("/audit-logs", ah.AuditLogsHandler).Methods("GET")
	admin.HandleFunc("/users", uh.UsersHandler).Methods("GET")
	admin.HandleFunc("/users/bulk-status", uh.BulkUserStatusHandler).Methods("POST")
	admin.HandleFunc("/users/{user_id}/status", uh.UserStatusHandler).Methods("PATCH")
	admin.HandleFunc("/users/{user_id}/role", uh.UserRoleHandler).Methods("PATCH")
	admin.HandleFunc("/users/{user_id}/municipality", uh.UserMunicipalityHandler).Methods("PATCH")
	admin.HandleFunc("/employers", uh.CreateEmployerHandler).Methods("POST")
	admin.HandleFunc("/municipalities", mh.MunicipalitiesHandler).Methods("GET")
	admin.HandleFunc("/municipalities", mh.CreateMunicipalityHandler).Methods("POST")
	admin.HandleFunc("/municipalities/{municipality_id}/coordinates", mh.MunicipalityCoordinatesHandler).Methods("PATCH")
	admin.HandleFunc("/municipalities/{municipality_id}/status", mh.MunicipalityStatusHandler).Methods("PATCH")

	return r
}

// Initialize builds the backend client and the optional event and export
// integrations, then the router
func (a *App) Initialize(ctx context.Context) error {
	if a.Metrics == nil {
		a.Metrics = metrics.NewRecorder(prometheus.NewRegistry())
	}
	if a.Location == nil {
		a.Location = time.Local
	}
	a.Backend = backend.NewClient(a.Config.BackendURL,
		backend.WithTimeout(a.Config.BackendTimeout),
		backend.WithObserver(a.Metrics),
	)

	a.Events = events.Noop{}
	if a.Config.EventsEnabled() {
		p, err := events.Dial(a.Config.AMQPURI, a.Config.EventsQueue)
		if err != nil {
			zap.S().Errorw("failed to connect to event broker", "error", err)
			return err
		}
		a.Events = p
		zap.S().Infow("publishing workflow events", "queue", a.Config.EventsQueue)
	}

	if a.Config.ExportsEnabled() {
		store, err := exports.NewMinioStore(ctx, exports.MinioConfig{
			Endpoint:  a.Config.MinioEndpoint,
			AccessKey: a.Config.MinioAccessKey,
			SecretKey: a.Config.MinioSecretKey,
			Bucket:    a.Config.MinioBucket,
			UseSSL:    a.Config.MinioUseSSL,
			URLTTL:    a.Config.ExportURLTTL,
		})
		if err != nil {
			zap.S().Errorw("failed to set up export storage", "error", err)
			return err
		}
		a.Exports = store
		zap.S().Infow("persisting report exports", "bucket", a.Config.MinioBucket)
	}

	// initialize api router
	a.Router = a.New(ctx)
	return nil
}

// Close releases the event broker connection
func (a *App) Close() error {
	if a.Events == nil {
		return nil
	}
	return a.Events.Close()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
