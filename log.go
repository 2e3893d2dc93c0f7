package vantage

import (
	"io"

	"github.com/charmbracelet/log"
)

// NewLogger creates a logger in the house configuration: timestamped as
// "HH:MM:SS.ms", prefixed "vantage", writing to w at the given level. Pass
// the result in Config.Logger; a nil Config.Logger disables logging.
func NewLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          "vantage",
	})
}
