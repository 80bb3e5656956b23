package config

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/road-report-console/logging"
	"github.com/linesmerrill/road-report-console/models"
)

// Defaults used when the matching variable is unset or invalid
const (
	DefaultPort           = "8080"
	DefaultBackendTimeout = 30 * time.Second
	DefaultRequestTimeout = 30 * time.Second
	DefaultTokenCacheTTL  = 5 * time.Minute
	DefaultEventsQueue    = "console_events"
	DefaultMinioBucket    = "report-exports"
	DefaultExportURLTTL   = 15 * time.Minute
)

// Config holds the project config values
type Config struct {
	BaseUrl        string
	Port           string
	Env            string
	BackendURL     string
	BackendTimeout time.Duration
	RequestTimeout time.Duration
	TokenCacheTTL  time.Duration
	AMQPURI        string
	EventsQueue    string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	ExportURLTTL   time.Duration
}

// New sets up all config related services
func New() *Config {
	env := os.Getenv("ENV")

	//setup zap logger and replace default logger
	logger, err := setLogger(env)
	if err != nil {
		logger = zap.NewExample()
	}
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		BaseUrl:        os.Getenv("BASE_URL"),
		Port:           getEnv("PORT", DefaultPort),
		Env:            env,
		BackendURL:     strings.TrimRight(os.Getenv("BACKEND_URL"), "/"),
		BackendTimeout: getDuration("BACKEND_TIMEOUT", DefaultBackendTimeout),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", DefaultRequestTimeout),
		TokenCacheTTL:  getDuration("TOKEN_CACHE_TTL", DefaultTokenCacheTTL),
		AMQPURI:        os.Getenv("AMQP_URI"),
		EventsQueue:    getEnv("EVENTS_QUEUE", DefaultEventsQueue),
		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", DefaultMinioBucket),
		MinioUseSSL:    getBool("MINIO_USE_SSL", false),
		ExportURLTTL:   getDuration("EXPORT_URL_TTL", DefaultExportURLTTL),
	}
}

// EventsEnabled reports whether workflow events should be published
func (c *Config) EventsEnabled() bool {
	return c.AMQPURI != ""
}

// ExportsEnabled reports whether exports are persisted to object storage
func (c *Config) ExportsEnabled() bool {
	return c.MinioEndpoint != ""
}

func setLogger(env string) (*zap.Logger, error) {
	return logging.New(env)
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		zap.S().Warnw("invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		zap.S().Warnw("invalid boolean, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	cause := ""
	if err != nil {
		cause = err.Error()
	}
	zap.S().Errorw(message, "status", httpStatusCode, "error", cause)

	b, _ := json.Marshal(models.ErrorMessageResponse{
		Response: models.MessageError{Message: message, Error: cause},
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	w.Write(b)
}
