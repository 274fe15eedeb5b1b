// Package logger provides centralized logging for the application.
// File: logger/logger.go
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/op/go-logging"
)

const (
	module     = "refdata"
	timeFormat = "2006/01/02 15:04:05"
)

// ------------------- global logger -------------------

var (
	log     *logging.Logger
	logFile *os.File
)

// init wires a stdout backend so packages can log before InitLogger runs
// (and in tests, where no log file is wanted).
func init() {
	log = logging.MustGetLogger(module)
	log.ExtraCalldepth = 1
	log.SetBackend(leveled(newBackend(os.Stdout), logging.DEBUG))
}

// ------------------- logger initialization -------------------

// InitLogger reconfigures logging for the server process. It:
// - Writes to stdout at the given level.
// - When dir is non-empty, also writes every record to a timestamped file in dir.
func InitLogger(dir string, level logging.Level) error {
	backends := []logging.Backend{leveled(newBackend(os.Stdout), level)}

	if dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
		name := filepath.Join(dir, time.Now().Format("2006-01-02_15-04-05")+".log")
		file, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) // #nosec
		if err != nil {
			return err
		}
		CloseLogger()
		logFile = file
		backends = append(backends, leveled(newBackend(file), logging.DEBUG))
	}

	log.SetBackend(logging.MultiLogger(backends...))
	return nil
}

// LevelFor maps APP_ENV to the console level used by InitLogger:
// production drops debug output, everything else keeps it.
func LevelFor(env string) logging.Level {
	if env == "production" {
		return logging.INFO
	}
	return logging.DEBUG
}

// CloseLogger closes the log file, if one is open.
func CloseLogger() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

func newBackend(w io.Writer) logging.Backend {
	format := logging.MustStringFormatter(`%{time:` + timeFormat + `} %{level:.4s} %{shortfile} - %{message}`)
	return logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), format)
}

func leveled(b logging.Backend, level logging.Level) logging.LeveledBackend {
	lb := logging.AddModuleLevel(b)
	lb.SetLevel(level, module)
	return lb
}

// ------------------- logging helpers -------------------

// Debugf logs a formatted debug message.
func Debugf(format string, args ...any) {
	log.Debugf(format, args...)
}

// Infof logs a formatted info message.
func Infof(format string, args ...any) {
	log.Infof(format, args...)
}

// Info logs an info message.
func Info(args ...any) {
	log.Info(fmt.Sprint(args...))
}

// Warningf logs a formatted warning.
func Warningf(format string, args ...any) {
	log.Warningf(format, args...)
}

// Errorf logs a formatted error.
func Errorf(format string, args ...any) {
	log.Errorf(format, args...)
}
