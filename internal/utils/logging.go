package utils

import (
	"go.uber.org/zap"
)

// Logger is the process-wide zap logger. Components receive it through
// their constructors; this package only owns initialization.
var Logger *zap.Logger

func InitLogger() {
	var err error
	Logger, err = zap.NewProduction()
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
}

func GetLogger() *zap.Logger {
	if Logger == nil {
		InitLogger()
	}
	return Logger
}
