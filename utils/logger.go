package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Level loggers, one dated file each under logDir. They stay nil until
// InitLogger runs; the Log* helpers tolerate that so tests and early boot
// code can log into the void.
var (
	InfoLogger  *log.Logger
	ErrorLogger *log.Logger
	DebugLogger *log.Logger
)

const logDir = "logs"

// Callers always go through the Log* wrappers, so log.Lshortfile would pin
// every line to this file. The loggers carry date and time only; the message
// itself names the operation.
const logFlags = log.Ldate | log.Ltime

func openLevelFile(level, day string) (*os.File, error) {
	name := filepath.Join(logDir, fmt.Sprintf("%s-%s.log", level, day))
	f, err := os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open %s log: %w", level, err)
	}
	return f, nil
}

// InitLogger opens today's info, error and debug files and wires the level
// loggers to them. The dated file names line up with what the log analysis
// script under scripts/ reads.
func InitLogger() error {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("create logs directory: %w", err)
	}

	day := time.Now().Format("2006-01-02")

	infoFile, err := openLevelFile("info", day)
	if err != nil {
		return err
	}
	errorFile, err := openLevelFile("error", day)
	if err != nil {
		return err
	}
	debugFile, err := openLevelFile("debug", day)
	if err != nil {
		return err
	}

	InfoLogger = log.New(infoFile, "INFO: ", logFlags)
	ErrorLogger = log.New(errorFile, "ERROR: ", logFlags)
	DebugLogger = log.New(debugFile, "DEBUG: ", logFlags)

	return nil
}

// LogInfo logs an informational message
func LogInfo(format string, v ...interface{}) {
	if InfoLogger != nil {
		InfoLogger.Printf(format, v...)
	}
}

// LogError logs an error message
func LogError(format string, v ...interface{}) {
	if ErrorLogger != nil {
		ErrorLogger.Printf(format, v...)
	}
}

// LogDebug logs a debug message
func LogDebug(format string, v ...interface{}) {
	if DebugLogger != nil {
		DebugLogger.Printf(format, v...)
	}
}

// LogRequest logs one completed HTTP request
func LogRequest(method, path, ip string, status int, duration time.Duration) {
	LogInfo("Request: %s %s from %s - Status: %d - Duration: %v", method, path, ip, status, duration)
}

// LogErrorWithStack logs a recovered error together with its stack trace
func LogErrorWithStack(err error, stack []byte) {
	if ErrorLogger != nil {
		ErrorLogger.Printf("Error: %v\nStack Trace:\n%s", err, stack)
	}
}
