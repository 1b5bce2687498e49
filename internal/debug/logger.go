package debug

import (
	"log"
	"os"
)

// Logger is a nil-safe debug logger. All core components take one explicitly;
// a nil Logger silently drops everything.
type Logger struct {
	enabled bool
}

func NewLogger(enabled bool) *Logger {
	if enabled {
		logFile, err := os.OpenFile("debug.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			log.SetOutput(logFile)
		}
		log.Printf("=== DEBUG MODE ENABLED ===")
	}

	return &Logger{enabled: enabled}
}

func (d *Logger) Printf(format string, args ...interface{}) {
	if d == nil || !d.enabled {
		return
	}
	log.Printf(format, args...)
}

func (d *Logger) Println(args ...interface{}) {
	if d == nil || !d.enabled {
		return
	}
	log.Println(args...)
}

func (d *Logger) IsEnabled() bool {
	return d != nil && d.enabled
}
