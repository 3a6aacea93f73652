package commands

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/fivetwenty-io/workos-client/pkg/workos"
)

// logrusLogger adapts a logrus logger to workos.Logger.
type logrusLogger struct {
	logger *logrus.Logger
}

// newLogger logs text lines to out. Verbose enables debug output, otherwise only
// warnings and errors are written.
func newLogger(out io.Writer, verbose bool) *logrusLogger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: !verbose,
		FullTimestamp:    true,
	})

	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	return &logrusLogger{logger: logger}
}

func (l *logrusLogger) Debug(msg string, fields map[string]interface{}) {
	l.logger.WithFields(fields).Debug(msg)
}

func (l *logrusLogger) Info(msg string, fields map[string]interface{}) {
	l.logger.WithFields(fields).Info(msg)
}

func (l *logrusLogger) Warn(msg string, fields map[string]interface{}) {
	l.logger.WithFields(fields).Warn(msg)
}

func (l *logrusLogger) Error(msg string, fields map[string]interface{}) {
	l.logger.WithFields(fields).Error(msg)
}

var _ workos.Logger = (*logrusLogger)(nil)
