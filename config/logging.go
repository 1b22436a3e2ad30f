package config

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

const defaultLogFile = "logs/idea-api.log"

// LogWriter is shared by the standard logger, gin and gorm.
var LogWriter io.Writer = os.Stdout

// LogFilePath returns the backend log file, LOG_FILE when set.
func LogFilePath() string {
	if p := strings.TrimSpace(os.Getenv("LOG_FILE")); p != "" {
		return p
	}
	return filepath.FromSlash(defaultLogFile)
}

// InitLogging tees the standard logger into the log file. When the file
// cannot be opened logging stays on stdout.
func InitLogging() (*os.File, io.Writer) {
	path := LogFilePath()
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		log.Printf("Warning: Failed to create logs directory: %v", err)
	}

	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("Warning: Failed to open log file %s: %v", path, err)
		LogWriter = os.Stdout
		log.SetOutput(LogWriter)
		return nil, LogWriter
	}

	LogWriter = io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(LogWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return logFile, LogWriter
}
