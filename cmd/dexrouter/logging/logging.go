package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ zapcore.WriteSyncer = &LogWriter{}

// LogWriter fans log entries out to an optional log file and any extra loggers.
type LogWriter struct {
	mutex        sync.Mutex
	logFile      *os.File
	extraLoggers []func(string)
}

// NewLogger builds the CLI logger. With an empty logDir nothing is written to disk and
// entries only reach the extra loggers.
func NewLogger(logLevel string, logDir string) (*zap.Logger, *LogWriter, error) {
	level, err := getLogLevel(logLevel)
	if err != nil {
		return nil, nil, err
	}

	logWriter := &LogWriter{
		extraLoggers: make([]func(string), 0),
	}

	if logDir != "" {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, nil, errors.Wrapf(err, "failed to create log folder %s", logDir)
		}

		logFileName := fmt.Sprintf("dexrouter-%d.log", time.Now().Unix())
		logFile, err := os.OpenFile(filepath.Join(logDir, logFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to open log file")
		}
		logWriter.logFile = logFile
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	zapCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		level,
	)

	return zap.New(zapCore), logWriter, nil
}

func (w *LogWriter) AddExtraLogger(logger func(string)) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	w.extraLoggers = append(w.extraLoggers, logger)
}

// Write implements io.Writer interface
func (w *LogWriter) Write(p []byte) (n int, err error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	for _, logger := range w.extraLoggers {
		logger(string(p))
	}

	if w.logFile != nil {
		if _, err := w.logFile.Write(p); err != nil {
			return 0, err
		}
	}

	return len(p), nil
}

// Sync implements zapcore.WriteSyncer interface
func (w *LogWriter) Sync() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.logFile == nil {
		return nil
	}
	return w.logFile.Sync()
}

func (w *LogWriter) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.logFile == nil {
		return nil
	}
	err := w.logFile.Close()
	w.logFile = nil
	return err
}

func getLogLevel(logLevel string) (zap.AtomicLevel, error) {
	switch logLevel {
	case "debug":
		return zap.NewAtomicLevelAt(zapcore.DebugLevel), nil
	case "info":
		return zap.NewAtomicLevelAt(zapcore.InfoLevel), nil
	case "warn":
		return zap.NewAtomicLevelAt(zapcore.WarnLevel), nil
	case "error":
		return zap.NewAtomicLevelAt(zapcore.ErrorLevel), nil
	default:
		return zap.AtomicLevel{}, errors.Errorf("invalid log level %q", logLevel)
	}
}
