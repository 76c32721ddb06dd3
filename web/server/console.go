package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/df07/go-surface-raycaster/pkg/core"
	"github.com/rs/zerolog/log"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// WebLogger implements core.Logger by sending messages to a console channel
type WebLogger struct {
	sessionID   string
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a new web logger for a specific stream session
func NewWebLogger(sessionID string, consoleChan chan<- ConsoleMessage) core.Logger {
	return &WebLogger{
		sessionID:   sessionID,
		consoleChan: consoleChan,
	}
}

// Printf implements core.Logger interface
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	level := consoleLevel(message)

	// Also write to the server log
	event := log.Info()
	if level == "warning" {
		event = log.Warn()
	}
	event.Str("session", wl.sessionID).Msg(strings.TrimRight(message, "\n"))

	// Send to web console if channel is available (non-blocking)
	if wl.consoleChan != nil {
		select {
		case wl.consoleChan <- ConsoleMessage{
			Message:   message,
			Timestamp: time.Now(),
			Level:     level,
		}:
		default:
			// Channel full, skip (don't block)
		}
	}
}

// consoleLevel classifies a log line for the browser console
func consoleLevel(message string) string {
	if strings.Contains(message, core.ErrDegenerateGeometry.Error()) {
		return "warning"
	}
	return "info"
}
