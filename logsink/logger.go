package logsink

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger builds a JSON-encoded zap logger emitting through the sink. Records
// below the level are dropped before they reach the ring.
func Logger(s *Sink, level zapcore.Level) *zap.Logger {
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())

	return zap.New(zapcore.NewCore(enc, s, level))
}
