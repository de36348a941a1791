package backend

import "go.uber.org/zap"

// retryableLogger adapts zap to go-retryablehttp's Printf logger.
type retryableLogger struct {
	log *zap.SugaredLogger
}

func (l retryableLogger) Printf(format string, v ...interface{}) {
	l.log.Debugf(format, v...)
}
