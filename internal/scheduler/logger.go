package scheduler

import "github.com/charmbracelet/log"

// gocronLogger adapts the charmbracelet logger to gocron's Logger
// interface so scheduler internals log with the "scheduler" prefix.
// The method set must be spelled out since the signatures differ from
// log.Logger's interface{} based ones.
type gocronLogger struct {
	log *log.Logger
}

func newLogger() *gocronLogger {
	return &gocronLogger{log: log.Default().WithPrefix("scheduler")}
}

func (l *gocronLogger) Debug(msg string, args ...any) { l.log.Debug(msg, args...) }
func (l *gocronLogger) Error(msg string, args ...any) { l.log.Error(msg, args...) }
func (l *gocronLogger) Info(msg string, args ...any)  { l.log.Info(msg, args...) }
func (l *gocronLogger) Warn(msg string, args ...any)  { l.log.Warn(msg, args...) }
