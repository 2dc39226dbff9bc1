package log

import (
	"go.uber.org/zap"
)

// InitLogger installs the global zap logger. Callers use zap.L() afterwards.
func InitLogger(debug bool) {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
}
