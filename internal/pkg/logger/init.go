package logger

import (
	"io"
	log "log/slog"
	"os"
)

var LogWriter io.Writer

// InitLogger 初始化全局 slog：JSON 输出到 stdout，
// 并通过 ContextHandler 自动附加 trace_id
func InitLogger() {
	hStdout := log.NewJSONHandler(os.Stdout, &log.HandlerOptions{Level: log.LevelInfo})
	LogWriter = os.Stdout

	logger := log.New(&ContextHandler{hStdout})
	log.SetDefault(logger)
}
