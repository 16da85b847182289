// Package listener provides execution listeners for logging, summaries and
// fan-out to several listeners.
package listener

import (
	"github.com/rs/zerolog"

	"github.com/alexisbeaulieu97/probe/internal/descriptor"
	"github.com/alexisbeaulieu97/probe/internal/execution"
	"github.com/alexisbeaulieu97/probe/internal/failure"
	"github.com/alexisbeaulieu97/probe/internal/logger"
)

// Logging writes every execution event as a structured log entry.
type Logging struct {
	logger *logger.Logger
}

// NewLogging returns a listener writing to log.
func NewLogging(log *logger.Logger) *Logging {
	return &Logging{logger: log}
}

func (l *Logging) DynamicTestRegistered(d descriptor.Descriptor) {
	l.logger.Event(zerolog.DebugLevel, "dynamic test registered", fields(d))
}

func (l *Logging) ExecutionStarted(d descriptor.Descriptor) {
	l.logger.Event(zerolog.DebugLevel, "execution started", fields(d))
}

func (l *Logging) ExecutionSkipped(d descriptor.Descriptor, reason string) {
	f := fields(d)
	f["status"] = "skipped"
	f["reason"] = reason
	l.logger.Event(zerolog.InfoLevel, "execution skipped", f)
}

func (l *Logging) ExecutionFinished(d descriptor.Descriptor, result execution.Result) {
	f := fields(d)
	f["status"] = string(result.Status)
	f["duration_ms"] = result.Duration.Milliseconds()

	level := zerolog.InfoLevel
	if !countsAsTest(d) {
		level = zerolog.DebugLevel
	}
	if result.Err != nil {
		f["error"] = result.Err
		if suppressed := failure.Suppressed(result.Err); len(suppressed) > 0 {
			f["suppressed"] = len(suppressed)
		}
		level = zerolog.ErrorLevel
		if result.Status == execution.StatusAborted {
			level = zerolog.WarnLevel
		}
	}
	l.logger.Event(level, "execution finished", f)
}

func (l *Logging) ReportingEntryPublished(d descriptor.Descriptor, entry map[string]string) {
	f := fields(d)
	for key, value := range entry {
		f["entry."+key] = value
	}
	l.logger.Event(zerolog.InfoLevel, "report entry", f)
}

func fields(d descriptor.Descriptor) map[string]any {
	return map[string]any{
		"unique_id":    d.UniqueID().String(),
		"display_name": d.DisplayName(),
		"type":         d.Type().String(),
	}
}
