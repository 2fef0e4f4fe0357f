package logging

import (
	"context"
	"fmt"
	"log/slog"

	neo4jlog "github.com/neo4j/neo4j-go-driver/v5/neo4j/log"
)

// DriverLogger routes Neo4j driver diagnostics through slog so they share the
// application's handler, level and format.
func DriverLogger(logger *slog.Logger) neo4jlog.Logger {
	return &driverLogger{logger: logger.With("component", "neo4j")}
}

type driverLogger struct {
	logger *slog.Logger
}

func (l *driverLogger) Error(name string, id string, err error) {
	l.logger.Error("driver error", "name", name, "id", id, "error", err)
}

func (l *driverLogger) Errorf(name string, id string, msg string, args ...any) {
	l.log(slog.LevelError, name, id, msg, args...)
}

func (l *driverLogger) Warnf(name string, id string, msg string, args ...any) {
	l.log(slog.LevelWarn, name, id, msg, args...)
}

func (l *driverLogger) Infof(name string, id string, msg string, args ...any) {
	l.log(slog.LevelInfo, name, id, msg, args...)
}

func (l *driverLogger) Debugf(name string, id string, msg string, args ...any) {
	l.log(slog.LevelDebug, name, id, msg, args...)
}

func (l *driverLogger) log(level slog.Level, name, id, msg string, args ...any) {
	ctx := context.Background()
	if !l.logger.Enabled(ctx, level) {
		return
	}
	l.logger.Log(ctx, level, fmt.Sprintf(msg, args...), "name", name, "id", id)
}
