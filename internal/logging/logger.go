// Package logging reports operational errors. The std logger writes to the
// process log; the Rollbar logger also ships entries to Rollbar.
package logging

import (
	"log"

	"github.com/rollbar/rollbar-go"
)

type Logger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

type StdLogger struct {
	std *log.Logger
}

var _ Logger = (*StdLogger)(nil)

func NewStdLogger(std *log.Logger) *StdLogger {
	if std == nil {
		std = log.Default()
	}
	return &StdLogger{std: std}
}

func (l *StdLogger) Info(msg string, args ...interface{}) {
	l.print(msg, args)
}

func (l *StdLogger) Error(msg string, args ...interface{}) {
	l.print("error: "+msg, args)
}

func (l *StdLogger) print(msg string, args []interface{}) {
	if len(args) == 0 {
		l.std.Println(msg)
		return
	}
	l.std.Println(append([]interface{}{msg}, args...)...)
}

type RollbarLogger struct {
	std *StdLogger
}

var _ Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, token, environment string) *RollbarLogger {
	rollbar.SetToken(token)
	rollbar.SetEnvironment(environment)
	rollbar.SetCodeVersion("studysync")
	return &RollbarLogger{std: NewStdLogger(std)}
}

func (l *RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(append([]interface{}{msg}, args...)...)
	l.std.Info(msg, args...)
}

func (l *RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(append([]interface{}{msg}, args...)...)
	l.std.Error(msg, args...)
}

// Close flushes queued Rollbar items.
func (l *RollbarLogger) Close() {
	rollbar.Close()
}

// New returns a Rollbar logger when token is set and a std logger otherwise.
func New(std *log.Logger, token, environment string) Logger {
	if token == "" {
		return NewStdLogger(std)
	}
	return NewRollbarLogger(std, token, environment)
}
