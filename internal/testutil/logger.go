package testutil

import (
	"io"

	"github.com/alanya/signaling-server/internal/logger"
)

func MakeNoopLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, 0)
}
