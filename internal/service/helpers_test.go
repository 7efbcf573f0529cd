package service_test

import (
	"io"

	"mailbrief/internal/logger"
)

func newTestLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard)
}
