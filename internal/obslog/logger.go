// Package obslog wraps zap.Logger with the pricing pipeline's
// structured-logging conventions, adapted from the teacher's
// common/libraries/go/iaros-core/logging.go (service/version/
// environment base fields, With* chain methods) and narrowed to the
// handful of record shapes this pipeline emits.
package obslog

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger with the pipeline's base fields.
type Logger struct {
	*zap.Logger
}

// Config controls logger construction.
type Config struct {
	Level       string
	ServiceName string
	Version     string
	Environment string
	Format      string // json or console
}

// New builds a Logger per cfg, defaulting to info-level JSON output on
// stdout.
func New(cfg Config) *Logger {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)
	base := zap.New(core, zap.AddCaller()).With(
		zap.String("service", cfg.ServiceName),
		zap.String("version", cfg.Version),
		zap.String("environment", cfg.Environment),
	)

	return &Logger{Logger: base}
}

// WithRequestID attaches a request ID to every subsequent log record.
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{Logger: l.Logger.With(zap.String("request_id", requestID))}
}

// WithError attaches error detail to every subsequent log record.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.Logger.With(zap.Error(err))}
}

// RecommendationLogger emits the single structured log record spec.md
// §7 requires per recommend() call: canonical query, prediction
// method, weighting, confidence, and warnings.
func (l *Logger) RecommendationLogger(query, method string, weighting float64, confidence int, warnings []string) {
	l.Info("recommendation computed",
		zap.String("query", query),
		zap.String("prediction_method", method),
		zap.Float64("internal_vs_market_weighting", weighting),
		zap.Int("confidence_score", confidence),
		zap.Strings("warnings", warnings),
	)
}

// ExternalServiceLogger logs a dependency call (scrape fetch, ML
// inference) for latency and error-rate visibility.
func (l *Logger) ExternalServiceLogger(service, operation string, duration time.Duration, success bool) {
	level := l.Info
	if !success {
		level = l.Warn
	}
	level("external service call",
		zap.String("external_service", service),
		zap.String("operation", operation),
		zap.Duration("duration", duration),
		zap.Bool("success", success),
	)
}

// CacheLogger logs a cache get_or_compute outcome.
func (l *Logger) CacheLogger(key string, hit bool, duration time.Duration) {
	l.Debug("cache operation",
		zap.String("key", key),
		zap.Bool("hit", hit),
		zap.Duration("duration", duration),
	)
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() error {
	return l.Logger.Sync()
}
