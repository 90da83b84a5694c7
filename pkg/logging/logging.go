// Package logging wraps the zap logging package to provide easier access and initialization of the logger
package logging

import (
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var LogLevelString = getLogLevel()

// RawLogger is the raw global logger object used for calls wrapped by the logging package
var RawLogger = InitLogger(LogLevelString)

// InitLogger initializes a console logger with the given log level string.
// Info and below go to stdout, errors to stderr, so that operator-facing
// output and error output can be redirected independently.
func InitLogger(logLevelString string) *zap.SugaredLogger {
	logLevel, err := zap.ParseAtomicLevel(logLevelString)
	if err != nil {
		log.Fatalln("Invalid log level:", logLevelString)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	encoderConfig.StacktraceKey = ""
	encoderConfig.CallerKey = "caller"

	consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig)

	stdoutSyncer := zapcore.Lock(os.Stdout)
	stderrSyncer := zapcore.Lock(os.Stderr)

	stdoutCore := zapcore.NewCore(
		consoleEncoder,
		stdoutSyncer,
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl < zapcore.ErrorLevel && lvl >= logLevel.Level()
		}),
	)

	stderrCore := zapcore.NewCore(
		consoleEncoder,
		stderrSyncer,
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= zapcore.ErrorLevel && lvl >= logLevel.Level()
		}),
	)

	core := zapcore.NewTee(stdoutCore, stderrCore)
	logger := zap.New(core)
	return logger.Sugar()
}

// InitLoggerWithTicket initializes a logger carrying the ticket id as a field
// so every line of one run can be correlated.
func InitLoggerWithTicket(logLevelString string, ticketID string) *zap.SugaredLogger {
	return InitLogger(logLevelString).With("ticket_id", ticketID)
}

// Info wraps zap's SugaredLogger.Info()
func Info(args ...interface{}) {
	RawLogger.Info(args...)
}

// Debug wraps zap's SugaredLogger.Debug()
func Debug(args ...interface{}) {
	RawLogger.Debug(args...)
}

// Warn wraps zap's SugaredLogger.Warn()
func Warn(args ...interface{}) {
	RawLogger.Warn(args...)
}

// Error wraps zap's SugaredLogger.Error()
func Error(args ...interface{}) {
	RawLogger.Error(args...)
}

// Fatal wraps zap's SugaredLogger.Fatal()
func Fatal(args ...interface{}) {
	RawLogger.Fatal(args...)
}

// Infof wraps zap's SugaredLogger.Infof()
func Infof(template string, args ...interface{}) {
	RawLogger.Infof(template, args...)
}

// Debugf wraps zap's SugaredLogger.Debugf()
func Debugf(template string, args ...interface{}) {
	RawLogger.Debugf(template, args...)
}

// Warnf wraps zap's SugaredLogger.Warnf()
func Warnf(template string, args ...interface{}) {
	RawLogger.Warnf(template, args...)
}

// Errorf wraps zap's SugaredLogger.Errorf()
func Errorf(template string, args ...interface{}) {
	RawLogger.Errorf(template, args...)
}

// Fatalf wraps zap's SugaredLogger.Fatalf()
func Fatalf(template string, args ...interface{}) {
	RawLogger.Fatalf(template, args...)
}

// getLogLevel returns the log level from the environment variable LOG_LEVEL
func getLogLevel() string {
	if envLogLevel, exists := os.LookupEnv("LOG_LEVEL"); exists {
		return envLogLevel
	}
	return "info"
}
